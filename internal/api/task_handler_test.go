package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/mocks"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/store"
)

type taskHandlerFixture struct {
	handler *TaskHandler
	store   *mocks.MockTaskStore
	userID  uuid.UUID
}

func newTaskHandlerFixture(t *testing.T) *taskHandlerFixture {
	t.Helper()

	taskStore := mocks.NewMockTaskStore()
	svc, err := service.NewTaskService(taskStore, nil)
	require.NoError(t, err)

	return &taskHandlerFixture{
		handler: NewTaskHandler(svc, testLogger()),
		store:   taskStore,
		userID:  uuid.New(),
	}
}

func (f *taskHandlerFixture) seedTask(t *testing.T, description string, completed bool) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(f.userID, description, completed)
	require.NoError(t, err)
	f.store.Tasks[task.ID] = task
	return task
}

func TestTaskHandler_Create(t *testing.T) {
	t.Run("success returns 201", func(t *testing.T) {
		f := newTaskHandlerFixture(t)

		body := `{"description":"buy groceries"}`
		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "buy groceries", resp.Description)
		assert.False(t, resp.Completed)
	})

	t.Run("missing description rejected", func(t *testing.T) {
		f := newTaskHandlerFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{}`))
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated rejected", func(t *testing.T) {
		f := newTaskHandlerFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"description":"x"}`))
		rec := httptest.NewRecorder()

		f.handler.Create(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTaskHandler_List(t *testing.T) {
	t.Run("returns empty array, not null", func(t *testing.T) {
		f := newTaskHandlerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("completed filter", func(t *testing.T) {
		f := newTaskHandlerFixture(t)
		f.seedTask(t, "open task", false)
		f.seedTask(t, "done task", true)

		req := httptest.NewRequest(http.MethodGet, "/tasks?completed=true", nil)
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp []TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "done task", resp[0].Description)
	})

	t.Run("query options forwarded to store", func(t *testing.T) {
		f := newTaskHandlerFixture(t)

		var captured store.ListTasksOptions
		f.store.ListForOwnerFn = func(_ context.Context, _ uuid.UUID, opts store.ListTasksOptions) ([]*domain.Task, error) {
			captured = opts
			return []*domain.Task{}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/tasks?completed=false&sortBy=description:dsc&limit=5&skip=10", nil)
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured.Completed)
		assert.False(t, *captured.Completed)
		assert.Equal(t, store.SortByDescription, captured.SortBy)
		assert.True(t, captured.Descending)
		assert.Equal(t, 5, captured.Limit)
		assert.Equal(t, 10, captured.Skip)
	})

	t.Run("unknown sort field ignored", func(t *testing.T) {
		f := newTaskHandlerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/tasks?sortBy=priority:desc", nil)
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestTaskHandler_Get(t *testing.T) {
	t.Run("owner reads own task", func(t *testing.T) {
		f := newTaskHandlerFixture(t)
		task := f.seedTask(t, "buy groceries", false)

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+task.ID.String(), nil)
		req = withChiURLParam(req, "id", task.ID.String())
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, task.ID, resp.ID)
	})

	t.Run("someone else's task reads as 404", func(t *testing.T) {
		f := newTaskHandlerFixture(t)
		task := f.seedTask(t, "buy groceries", false)

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+task.ID.String(), nil)
		req = withChiURLParam(req, "id", task.ID.String())
		req = authenticatedRequest(req, uuid.New(), "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Task not found")
	})

	t.Run("unparseable id reads as 404", func(t *testing.T) {
		f := newTaskHandlerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/tasks/not-a-uuid", nil)
		req = withChiURLParam(req, "id", "not-a-uuid")
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	t.Run("allowed fields applied", func(t *testing.T) {
		f := newTaskHandlerFixture(t)
		task := f.seedTask(t, "buy groceries", false)

		body := `{"completed":true}`
		req := httptest.NewRequest(http.MethodPatch, "/tasks/"+task.ID.String(), strings.NewReader(body))
		req = withChiURLParam(req, "id", task.ID.String())
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Update(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Completed)
		assert.Equal(t, "buy groceries", resp.Description)
	})

	t.Run("unknown field rejects the whole update", func(t *testing.T) {
		f := newTaskHandlerFixture(t)
		task := f.seedTask(t, "buy groceries", false)

		body := `{"completed":true,"priority":3}`
		req := httptest.NewRequest(http.MethodPatch, "/tasks/"+task.ID.String(), strings.NewReader(body))
		req = withChiURLParam(req, "id", task.ID.String())
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Update(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid updates.")
		assert.False(t, f.store.Tasks[task.ID].Completed, "nothing may be applied")
	})

	t.Run("someone else's task reads as 404", func(t *testing.T) {
		f := newTaskHandlerFixture(t)
		task := f.seedTask(t, "buy groceries", false)

		body := `{"completed":true}`
		req := httptest.NewRequest(http.MethodPatch, "/tasks/"+task.ID.String(), strings.NewReader(body))
		req = withChiURLParam(req, "id", task.ID.String())
		req = authenticatedRequest(req, uuid.New(), "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Update(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	t.Run("returns the removed task", func(t *testing.T) {
		f := newTaskHandlerFixture(t)
		task := f.seedTask(t, "buy groceries", false)

		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+task.ID.String(), nil)
		req = withChiURLParam(req, "id", task.ID.String())
		req = authenticatedRequest(req, f.userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Delete(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, task.ID, resp.ID)
		assert.NotContains(t, f.store.Tasks, task.ID)
	})

	t.Run("someone else's task reads as 404 and survives", func(t *testing.T) {
		f := newTaskHandlerFixture(t)
		task := f.seedTask(t, "buy groceries", false)

		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+task.ID.String(), nil)
		req = withChiURLParam(req, "id", task.ID.String())
		req = authenticatedRequest(req, uuid.New(), "signed-token")
		rec := httptest.NewRecorder()

		f.handler.Delete(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, f.store.Tasks, task.ID)
	})
}
