package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TaskHandler handles task HTTP requests. Every route is scoped to the
// authenticated user; task IDs belonging to other users behave as absent.
type TaskHandler struct {
	taskService *service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService *service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      log.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Debug("task creation validation failed")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, req.Description, req.Completed)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// List handles GET /tasks with optional completed, sortBy, limit and
// skip query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	opts := parseListOptions(r)

	tasks, err := h.taskService.List(r.Context(), userID, opts)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.ownedTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Update handles PATCH /tasks/{id}. Only description and completed may
// appear in the body; any other key rejects the whole update.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := h.ownedTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	body, err := shared.DecodeJSONStrict(r, &req)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if !shared.AllowedFields(body, "description", "completed") {
		log.Debug("rejected task update with unknown fields")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid updates.")
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, service.TaskUpdate{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /tasks/{id}, returning the removed task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := h.ownedTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Delete(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ownedTaskID extracts the caller's user ID and the path task ID. An
// unparseable task ID reads as a missing task, not a validation error.
func (h *TaskHandler) ownedTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return uuid.Nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, taskID, true
}

// parseListOptions translates list query parameters into store options.
// Malformed values are ignored rather than rejected.
func parseListOptions(r *http.Request) store.ListTasksOptions {
	var opts store.ListTasksOptions

	q := r.URL.Query()

	if raw := q.Get("completed"); raw != "" {
		completed := raw == "true"
		opts.Completed = &completed
	}

	if raw := q.Get("sortBy"); raw != "" {
		field, dir, _ := strings.Cut(raw, ":")
		switch field {
		case store.SortByCreatedAt, store.SortByUpdatedAt, store.SortByDescription, store.SortByCompleted:
			opts.SortBy = field
			opts.Descending = dir == "desc" || dir == "dsc"
		}
	}

	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts.Limit = n
		}
	}

	if raw := q.Get("skip"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts.Skip = n
		}
	}

	return opts
}
