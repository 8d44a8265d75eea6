package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		valid bool
	}{
		{"https ok", "https://www.youtube.com/watch?v=abc", true},
		{"http ok", "http://example.com/v/1", true},
		{"empty", "", false},
		{"bad scheme", "ftp://example.com/file", false},
		{"localhost", "http://localhost/admin", false},
		{"loopback ip", "http://127.0.0.1/", false},
		{"private ip", "http://192.168.1.10/", false},
		{"too long", "https://example.com/" + strings.Repeat("a", 2100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateURL(tt.url)
			assert.Equal(t, tt.valid, got.Valid, got.Error)
		})
	}
}

func TestToUserError(t *testing.T) {
	assert.Equal(t, "This video is age-restricted", ToUserError("ERROR: Sign in to confirm your age-restricted content"))
	assert.Equal(t, "This link type isn't supported", ToUserError("Unsupported URL: https://example.com"))
	assert.Equal(t, "Video not found, it may have been deleted", ToUserError("HTTP Error 404: Not Found"))
	assert.Equal(t, "something odd", ToUserError("something odd"))
}
