// Package callback packs structured button state into the opaque strings
// Telegram hands back on inline keyboard clicks. Telegram caps callback data
// at 64 bytes, so every schema must round-trip within that budget.
package callback

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Delimiter separates the schema prefix and field values inside a token.
	Delimiter = ":"

	// MaxTokenLen is the transport payload ceiling for callback data.
	MaxTokenLen = 64
)

var (
	ErrMalformedToken = errors.New("malformed callback token")
	ErrTokenTooLong   = errors.New("callback token exceeds 64 bytes")
	ErrBadFieldValue  = errors.New("field value contains token delimiter")
)

// Schema describes one token layout: a fixed prefix followed by an ordered
// list of named string fields.
type Schema struct {
	Prefix string
	Fields []string
}

var (
	// YouTube carries a quality selection back to the download callback.
	YouTube = Schema{Prefix: "yt", Fields: []string{"video_id", "quality", "ext"}}

	// TempMail carries a mailbox action plus the session id holding the
	// credentials that are too sensitive to embed in the token itself.
	TempMail = Schema{Prefix: "mail", Fields: []string{"action", "session_id"}}

	// MenuPage carries the page index for main menu pagination.
	MenuPage = Schema{Prefix: "menu_page", Fields: []string{"page"}}
)

// Encode joins the schema prefix and field values into a token. Values are
// validated at construction time: they must not contain the delimiter, and
// the encoded token must fit the transport ceiling.
func (s Schema) Encode(values ...string) (string, error) {
	if len(values) != len(s.Fields) {
		return "", fmt.Errorf("%w: schema %q wants %d fields, got %d",
			ErrMalformedToken, s.Prefix, len(s.Fields), len(values))
	}
	for i, v := range values {
		if strings.Contains(v, Delimiter) {
			return "", fmt.Errorf("%w: field %q", ErrBadFieldValue, s.Fields[i])
		}
	}

	token := s.Prefix + Delimiter + strings.Join(values, Delimiter)
	if len(token) > MaxTokenLen {
		return "", fmt.Errorf("%w: %d bytes", ErrTokenTooLong, len(token))
	}
	return token, nil
}

// Decode splits a token back into its field values. It fails when the prefix
// does not match the schema or the field count is wrong.
func (s Schema) Decode(token string) ([]string, error) {
	parts := strings.Split(token, Delimiter)
	if len(parts) != len(s.Fields)+1 || parts[0] != s.Prefix {
		return nil, fmt.Errorf("%w: %q does not match schema %q", ErrMalformedToken, token, s.Prefix)
	}
	return parts[1:], nil
}

// Match reports whether a token belongs to this schema. It checks the prefix
// only; Decode still validates arity.
func (s Schema) Match(token string) bool {
	return token == s.Prefix || strings.HasPrefix(token, s.Prefix+Delimiter)
}
