package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLink(t *testing.T) {
	verr := validateLink("ftp://example.com/file")
	require.NotNil(t, verr)
	assert.Equal(t, "Only HTTP/HTTPS URLs are allowed", verr.UserMessage)

	var target *ValidationError
	assert.True(t, errors.As(error(verr), &target))

	assert.Nil(t, validateLink("https://www.youtube.com/watch?v=abc"))
}

func TestValidateLinkRejectsPrivateHosts(t *testing.T) {
	assert.NotNil(t, validateLink("http://localhost/admin"))
	assert.NotNil(t, validateLink("http://192.168.0.5/video"))
	assert.NotNil(t, validateLink(""))
}
