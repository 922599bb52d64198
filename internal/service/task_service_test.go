package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/mocks"
	"github.com/tasknest/tasknest-api/internal/store"
)

func newTaskServiceFixture(t *testing.T) (*TaskService, *mocks.MockTaskStore) {
	t.Helper()

	taskStore := mocks.NewMockTaskStore()
	svc, err := NewTaskService(taskStore, nil)
	require.NoError(t, err)

	return svc, taskStore
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()
	svc, taskStore := newTaskServiceFixture(t)
	ownerID := uuid.New()

	task, err := svc.Create(ctx, ownerID, "buy groceries", false)
	require.NoError(t, err)

	assert.Equal(t, ownerID, task.UserID)
	assert.Equal(t, "buy groceries", task.Description)
	assert.False(t, task.Completed)
	assert.Contains(t, taskStore.Tasks, task.ID)

	// Empty description is a domain validation failure
	_, err = svc.Create(ctx, ownerID, "  ", false)
	assert.ErrorIs(t, err, domain.ErrEmptyDescription)
}

func TestTaskService_Get_OwnershipScoped(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskServiceFixture(t)
	ownerID := uuid.New()
	otherID := uuid.New()

	task, err := svc.Create(ctx, ownerID, "buy groceries", false)
	require.NoError(t, err)

	got, err := svc.Get(ctx, ownerID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	// Someone else's ID behaves exactly like a missing task
	_, err = svc.Get(ctx, otherID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskServiceFixture(t)
	ownerID := uuid.New()

	_, err := svc.Create(ctx, ownerID, "task one", false)
	require.NoError(t, err)
	_, err = svc.Create(ctx, ownerID, "task two", true)
	require.NoError(t, err)
	_, err = svc.Create(ctx, uuid.New(), "not mine", false)
	require.NoError(t, err)

	all, err := svc.List(ctx, ownerID, store.ListTasksOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed := true
	done, err := svc.List(ctx, ownerID, store.ListTasksOptions{Completed: &completed})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "task two", done[0].Description)
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTaskServiceFixture(t)
	ownerID := uuid.New()

	task, err := svc.Create(ctx, ownerID, "buy groceries", false)
	require.NoError(t, err)

	done := true
	updated, err := svc.Update(ctx, ownerID, task.ID, TaskUpdate{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "buy groceries", updated.Description)

	// Not the owner
	_, err = svc.Update(ctx, uuid.New(), task.ID, TaskUpdate{Completed: &done})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, taskStore := newTaskServiceFixture(t)
	ownerID := uuid.New()

	task, err := svc.Create(ctx, ownerID, "buy groceries", false)
	require.NoError(t, err)

	// Not the owner
	_, err = svc.Delete(ctx, uuid.New(), task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.Contains(t, taskStore.Tasks, task.ID)

	removed, err := svc.Delete(ctx, ownerID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, removed.ID)
	assert.NotContains(t, taskStore.Tasks, task.ID)
}
