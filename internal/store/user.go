package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry a
	// hashed password. Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The avatar column is not loaded; use GetAvatar for that.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists changed profile fields (name, email, age, hashed
	// password) for an existing user. Returns ErrUserNotFound if the user
	// does not exist and ErrEmailExists when moving to a taken email.
	Update(ctx context.Context, user *domain.User) error

	// UpdateAvatar replaces the stored avatar bytes. A nil slice clears
	// the avatar. Returns ErrUserNotFound if the user does not exist.
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	// GetAvatar returns the stored avatar bytes for a user. Returns
	// ErrAvatarNotFound when the user is absent or has no avatar.
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction so that
	// multiple operations can be executed atomically.
	WithTx(tx *sql.Tx) UserStore
}
