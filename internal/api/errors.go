package api

import (
	"errors"
	"net/http"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes without leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Login failures are a 400, matching the public API contract; the
	// response carries no hint of whether the email or password failed.
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest

	// Not-found covers both genuinely absent resources and resources
	// owned by someone else; the two are indistinguishable by design.
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// A duplicate email surfaces as a validation failure.
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusBadRequest

	// Validation errors
	case domain.IsValidationError(err),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrAvatarTooLarge),
		errors.Is(err, service.ErrAvatarBadFormat):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Please authenticate."

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Unable to login"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already in use"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrAvatarNotFound):
		return "Avatar not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, service.ErrAvatarTooLarge):
		return "Avatar must be at most 1MB"

	case errors.Is(err, service.ErrAvatarBadFormat):
		return "Avatar must be a png, jpg or jpeg image"

	// Domain validation messages are written for end users and safe to
	// return verbatim.
	case domain.IsValidationError(err):
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps the error and writes the response, logging the
// (redacted) details. An empty overrideMessage uses the mapped safe
// message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, overrideMessage string) {
	status := MapErrorToStatusCode(err)
	message := overrideMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
