package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TaskUpdate carries the fields a task owner may change. Nil pointers
// mean "leave unchanged".
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// TaskService implements owner-scoped task CRUD. The owner is always
// the authenticated caller; there is no cross-user visibility.
type TaskService struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a TaskService with the given dependencies.
func NewTaskService(taskStore store.TaskStore, log *slog.Logger) (*TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("task service requires a task store")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TaskService{
		taskStore: taskStore,
		logger:    log.With(slog.String("component", "task_service")),
	}, nil
}

// Create makes a new task owned by the caller. Any owner the client may
// have supplied is ignored; ownership comes from the authenticated
// identity alone.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, description string, completed bool) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, description, completed)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", ownerID.String()))
	return task, nil
}

// List returns the caller's tasks per the filter, sort and pagination
// options.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID, opts store.ListTasksOptions) ([]*domain.Task, error) {
	return s.taskStore.ListForOwner(ctx, ownerID, opts)
}

// Get returns a single task the caller owns, or store.ErrTaskNotFound.
func (s *TaskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetForOwner(ctx, ownerID, taskID)
}

// Update applies permitted changes to a task the caller owns.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error) {
	task, err := s.taskStore.GetForOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

// Delete removes a task the caller owns and returns it.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetForOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.DeleteForOwner(ctx, ownerID, taskID); err != nil {
		return nil, err
	}

	return task, nil
}
