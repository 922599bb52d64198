package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{db: tx, logger: s.logger}
}

// Add implements store.SessionStore.Add
func (s *PostgresSessionStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO session_tokens (id, user_id, token, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, uuid.New(), userID, token, time.Now().UTC())
	if err != nil {
		if IsUniqueViolation(err) {
			// Two logins in the same instant can mint identical tokens;
			// treat the session as already recorded.
			return nil
		}
		log.Error("failed to record session token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	log.Debug("session token recorded",
		slog.String("user_id", userID.String()))
	return nil
}

// Exists implements store.SessionStore.Exists
func (s *PostgresSessionStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM session_tokens WHERE user_id = $1 AND token = $2
		)
	`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, token).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		log.Error("failed to check session token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return false, MapError(err)
	}

	return exists, nil
}

// Delete implements store.SessionStore.Delete
// Removes exactly the matching token; other sessions stay valid.
func (s *PostgresSessionStore) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM session_tokens WHERE user_id = $1 AND token = $2`
	result, err := s.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		log.Error("failed to delete session token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrSessionNotFound
	}

	log.Debug("session token revoked",
		slog.String("user_id", userID.String()))
	return nil
}

// DeleteAll implements store.SessionStore.DeleteAll
func (s *PostgresSessionStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM session_tokens WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to delete all session tokens",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}

	log.Debug(fmt.Sprintf("revoked %d session tokens", rows),
		slog.String("user_id", userID.String()))
	return nil
}
