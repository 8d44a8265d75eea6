package callback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
		values []string
	}{
		{"youtube video", YouTube, []string{"dQw4w9WgXcQ", "720", "mp4"}},
		{"youtube audio", YouTube, []string{"dQw4w9WgXcQ", "audio", "mp3"}},
		{"mail check", TempMail, []string{"check", "b7f9a5e2-9c43-4f7a-8a55-2f0d6f0f4a11"}},
		{"menu page", MenuPage, []string{"2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.schema.Encode(tt.values...)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(token), MaxTokenLen)
			assert.True(t, tt.schema.Match(token))

			decoded, err := tt.schema.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tt.values, decoded)
		})
	}
}

func TestEncodeRejectsDelimiterInField(t *testing.T) {
	_, err := YouTube.Encode("abc:def", "720", "mp4")
	assert.ErrorIs(t, err, ErrBadFieldValue)
}

func TestEncodeRejectsOversizedToken(t *testing.T) {
	_, err := YouTube.Encode(strings.Repeat("x", 70), "720", "mp4")
	assert.ErrorIs(t, err, ErrTokenTooLong)
}

func TestEncodeRejectsWrongArity(t *testing.T) {
	_, err := YouTube.Encode("id", "720")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestDecodeRejectsUnknownPrefix(t *testing.T) {
	_, err := YouTube.Decode("mail:check:some-session")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestDecodeRejectsWrongFieldCount(t *testing.T) {
	_, err := YouTube.Decode("yt:id:720")
	assert.ErrorIs(t, err, ErrMalformedToken)

	_, err = YouTube.Decode("yt:id:720:mp4:extra")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestMatch(t *testing.T) {
	assert.True(t, TempMail.Match("mail:check:abc"))
	assert.False(t, TempMail.Match("mailx:check:abc"))
	assert.False(t, TempMail.Match("yt:id:720:mp4"))
}
