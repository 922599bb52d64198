package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn            func(ctx context.Context, task *domain.Task) error
	GetForOwnerFn       func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	ListForOwnerFn      func(ctx context.Context, ownerID uuid.UUID, opts store.ListTasksOptions) ([]*domain.Task, error)
	UpdateFn            func(ctx context.Context, task *domain.Task) error
	DeleteForOwnerFn    func(ctx context.Context, ownerID, taskID uuid.UUID) error
	DeleteAllForOwnerFn func(ctx context.Context, ownerID uuid.UUID) error

	// Data for default implementation
	Tasks map[uuid.UUID]*domain.Task

	CreateError error
	ListError   error
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetForOwner implements the TaskStore interface
func (m *MockTaskStore) GetForOwner(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetForOwnerFn != nil {
		return m.GetForOwnerFn(ctx, ownerID, taskID)
	}

	task, exists := m.Tasks[taskID]
	if !exists || task.UserID != ownerID {
		return nil, store.ErrTaskNotFound
	}

	return task, nil
}

// ListForOwner implements the TaskStore interface. The default
// implementation honors the completed filter and sorts by creation time
// only; tests needing full sort semantics should set ListForOwnerFn.
func (m *MockTaskStore) ListForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.ListTasksOptions,
) ([]*domain.Task, error) {
	if m.ListForOwnerFn != nil {
		return m.ListForOwnerFn(ctx, ownerID, opts)
	}

	if m.ListError != nil {
		return nil, m.ListError
	}

	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.UserID != ownerID {
			continue
		}
		if opts.Completed != nil && task.Completed != *opts.Completed {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if opts.Descending {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	if opts.Skip > 0 {
		if opts.Skip >= len(tasks) {
			return []*domain.Task{}, nil
		}
		tasks = tasks[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(tasks) {
		tasks = tasks[:opts.Limit]
	}

	return tasks, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	existing, exists := m.Tasks[task.ID]
	if !exists || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}

	m.Tasks[task.ID] = task
	return nil
}

// DeleteForOwner implements the TaskStore interface
func (m *MockTaskStore) DeleteForOwner(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if m.DeleteForOwnerFn != nil {
		return m.DeleteForOwnerFn(ctx, ownerID, taskID)
	}

	task, exists := m.Tasks[taskID]
	if !exists || task.UserID != ownerID {
		return store.ErrTaskNotFound
	}

	delete(m.Tasks, taskID)
	return nil
}

// DeleteAllForOwner implements the TaskStore interface
func (m *MockTaskStore) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error {
	if m.DeleteAllForOwnerFn != nil {
		return m.DeleteAllForOwnerFn(ctx, ownerID)
	}

	for id, task := range m.Tasks {
		if task.UserID == ownerID {
			delete(m.Tasks, id)
		}
	}

	return nil
}

// WithTx implements the TaskStore interface for transaction support
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// Compile-time check
var _ store.TaskStore = (*MockTaskStore)(nil)
