// Package api provides HTTP handlers for the API.
package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/redact"
	"github.com/tasknest/tasknest-api/internal/service"
)

// maxAvatarUploadBytes caps the multipart body for avatar uploads. The
// exact 1MB file limit is enforced on the decoded part; this just bounds
// what we are willing to buffer.
const maxAvatarUploadBytes = 1_000_000 + 64*1024

// UserHandler handles user account HTTP requests.
type UserHandler struct {
	userService *service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService *service.UserService, log *slog.Logger) *UserHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userService: userService,
		logger:      log.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Debug("registration validation failed",
			slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	user, token, err := h.userService.Register(r.Context(), req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  userToResponse(user),
		Token: token,
	})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unable to login")
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  userToResponse(user),
		Token: token,
	})
}

// Logout handles POST /users/logout, revoking only the presented token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, token, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	if err := h.userService.Logout(r.Context(), userID, token); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "successfully logged out",
	})
}

// LogoutAll handles POST /users/logoutAll, revoking every session.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	if err := h.userService.LogoutAll(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "successfully logged out of all the devices",
	})
}

// GetMe handles GET /users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateMe handles PATCH /users/me. The body may only contain name,
// email, age and password; any other key rejects the whole update.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	var req UpdateUserRequest
	body, err := shared.DecodeJSONStrict(r, &req)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if !shared.AllowedFields(body, "name", "email", "age", "password") {
		log.Debug("rejected update with unknown fields")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid updates.")
		return
	}

	user, err := h.userService.Update(r.Context(), userID, service.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// DeleteMe handles DELETE /users/me, cascading to the user's tasks.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	user, err := h.userService.Delete(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UploadAvatar handles POST /users/me/avatar (multipart field "avatar").
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUploadBytes)

	file, header, err := r.FormFile("avatar")
	if err != nil {
		log.Debug("avatar upload rejected",
			slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Avatar must be at most 1MB")
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Warn("failed to close upload", slog.String("error", cerr.Error()))
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unable to read avatar upload")
		return
	}

	if err := h.userService.SetAvatar(r.Context(), userID, header.Filename, data); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "avatar uploaded",
	})
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return
	}

	if err := h.userService.ClearAvatar(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "avatar removed",
	})
}

// GetAvatar handles GET /users/{id}/avatar. Public; serves the stored
// PNG or 404s when the user or avatar is absent.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	userID, err := uuid.Parse(idParam)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Avatar not found")
		return
	}

	avatar, err := h.userService.GetAvatar(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(avatar); err != nil {
		h.logger.Error("failed to write avatar response", "error", err)
	}
}

// requireSession pulls both the user ID and the presented token from the
// context, rejecting the request when either is missing.
func (h *UserHandler) requireSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return uuid.Nil, "", false
	}

	token, ok := shared.SessionToken(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate.")
		return uuid.Nil, "", false
	}

	return userID, token, true
}
