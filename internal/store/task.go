package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
)

// Task sort fields accepted by ListTasksOptions. They are API-level
// names; implementations map them to storage columns.
const (
	SortByCreatedAt   = "createdAt"
	SortByUpdatedAt   = "updatedAt"
	SortByDescription = "description"
	SortByCompleted   = "completed"
)

// ListTasksOptions narrows and orders a task listing. The zero value
// lists every task for the owner in creation order.
type ListTasksOptions struct {
	// Completed filters on the completed flag when non-nil.
	Completed *bool

	// SortBy is one of the SortBy* constants; empty means SortByCreatedAt.
	SortBy string

	// Descending reverses the sort direction.
	Descending bool

	// Limit caps the number of rows returned; zero means no limit.
	Limit int

	// Skip offsets into the result set for pagination.
	Skip int
}

// TaskStore defines the interface for task data persistence. Every
// operation is scoped to an owning user; a task that exists but belongs
// to someone else behaves exactly like a missing one.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves a task by ID if the given user owns it.
	// Returns ErrTaskNotFound otherwise.
	GetForOwner(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// ListForOwner returns the user's tasks filtered, sorted and paginated
	// per opts.
	ListForOwner(ctx context.Context, ownerID uuid.UUID, opts ListTasksOptions) ([]*domain.Task, error)

	// Update persists description/completed changes to a task the user
	// owns. Returns ErrTaskNotFound otherwise.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteForOwner removes a task the user owns.
	// Returns ErrTaskNotFound otherwise.
	DeleteForOwner(ctx context.Context, ownerID, taskID uuid.UUID) error

	// DeleteAllForOwner removes every task owned by the user. Used when
	// cascading an account deletion.
	DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
