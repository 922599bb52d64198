package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors.
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrEmptyTaskOwner   = errors.New("task owner cannot be empty")
)

// Task is a single to-do item. Every task belongs to exactly one user
// and is only visible and mutable through that user's identity.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a Task owned by the given user. The description is
// trimmed before validation.
func NewTask(userID uuid.UUID, description string, completed bool) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
		Completed:   completed,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks invariants on the Task.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskOwner
	}
	return nil
}
