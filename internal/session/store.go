// Package session persists the token issued at login, keyed by the session id
// carried in a browser cookie.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Store holds one token per session key.
type Store interface {
	// Get returns the stored token, or ErrNotFound.
	Get(ctx context.Context, sid string) (string, error)
	// Set stores the token under sid for the given lifetime, replacing any
	// previous value.
	Set(ctx context.Context, sid, token string, ttl time.Duration) error
	// Destroy removes the session. Destroying an absent session is not an
	// error.
	Destroy(ctx context.Context, sid string) error
}
