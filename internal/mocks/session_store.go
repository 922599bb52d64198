package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/store"
)

// MockSessionStore implements store.SessionStore for testing
type MockSessionStore struct {
	// Function fields for customizable behavior
	AddFn       func(ctx context.Context, userID uuid.UUID, token string) error
	ExistsFn    func(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	DeleteFn    func(ctx context.Context, userID uuid.UUID, token string) error
	DeleteAllFn func(ctx context.Context, userID uuid.UUID) error

	// Data for default implementation
	Sessions map[uuid.UUID][]string

	AddError    error
	ExistsError error
}

// NewMockSessionStore creates a new mock store with initialized defaults
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		Sessions: make(map[uuid.UUID][]string),
	}
}

// Add implements the SessionStore interface
func (m *MockSessionStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, token)
	}

	if m.AddError != nil {
		return m.AddError
	}

	m.Sessions[userID] = append(m.Sessions[userID], token)
	return nil
}

// Exists implements the SessionStore interface
func (m *MockSessionStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, userID, token)
	}

	if m.ExistsError != nil {
		return false, m.ExistsError
	}

	for _, t := range m.Sessions[userID] {
		if t == token {
			return true, nil
		}
	}

	return false, nil
}

// Delete implements the SessionStore interface
func (m *MockSessionStore) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, token)
	}

	tokens := m.Sessions[userID]
	for i, t := range tokens {
		if t == token {
			m.Sessions[userID] = append(tokens[:i], tokens[i+1:]...)
			return nil
		}
	}

	return store.ErrSessionNotFound
}

// DeleteAll implements the SessionStore interface
func (m *MockSessionStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteAllFn != nil {
		return m.DeleteAllFn(ctx, userID)
	}

	delete(m.Sessions, userID)
	return nil
}

// WithTx implements the SessionStore interface for transaction support
func (m *MockSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return m
}

// Compile-time check
var _ store.SessionStore = (*MockSessionStore)(nil)
