package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// SessionStore tracks issued session tokens per user. A token that
// verifies cryptographically but has no matching record is treated as
// revoked, which is what makes multi-device logout possible.
type SessionStore interface {
	// Add records a newly issued token for the user.
	Add(ctx context.Context, userID uuid.UUID, token string) error

	// Exists reports whether the exact token is still recorded for the user.
	Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// Delete removes exactly the matching token, leaving the user's other
	// sessions valid. Returns ErrSessionNotFound if no row matched.
	Delete(ctx context.Context, userID uuid.UUID, token string) error

	// DeleteAll removes every session for the user.
	DeleteAll(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a SessionStore bound to the given transaction.
	WithTx(tx *sql.Tx) SessionStore
}
