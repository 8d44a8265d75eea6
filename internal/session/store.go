// Package session holds short-lived per-user state that is too large or too
// sensitive to round-trip through callback tokens, keyed by opaque ids.
package session

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("session not found")

	// ErrStoreClosed is returned by Create after Close. Handlers still in
	// flight at shutdown get an error instead of a panic.
	ErrStoreClosed = errors.New("session store is closed")
)

// Payload is the small string mapping associated with one session, for
// example temp-mail credentials.
type Payload map[string]string

// Store is the ephemeral session store. Create never reuses an id; Get on an
// unknown or expired id returns ErrNotFound.
type Store interface {
	Create(ctx context.Context, payload Payload) (string, error)
	Get(ctx context.Context, id string) (Payload, error)
	Close() error
}
