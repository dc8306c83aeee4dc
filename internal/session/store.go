// Package session persists the (User, token) pair behind an injected
// key-value capability so the auth service never touches storage directly.
package session

import (
	"context"
	"errors"

	"github.com/schoolhub/schoolhub-backend/internal/model"
)

// ErrNotFound is returned by Load when no session exists for the token.
// Malformed stored payloads are cleared and reported the same way: a session
// that does not parse is treated as absent, never half-trusted.
var ErrNotFound = errors.New("session not found")

// keyPrefix namespaces session entries in shared storage.
const keyPrefix = "schoolhub:session:"

// Store is the durable session capability.
type Store interface {
	// Save serializes user under token, overwriting any previous entry.
	Save(ctx context.Context, token string, user *model.User) error
	// Load returns the user saved under token, or ErrNotFound when the
	// entry is missing or fails to parse (in which case it is cleared).
	Load(ctx context.Context, token string) (*model.User, error)
	// Clear removes the entry for token. Idempotent.
	Clear(ctx context.Context, token string) error
}
