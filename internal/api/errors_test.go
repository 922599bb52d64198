package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusBadRequest},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"avatar not found", store.ErrAvatarNotFound, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusBadRequest},
		{"weak password", domain.ErrPasswordTooShort, http.StatusBadRequest},
		{"avatar too large", service.ErrAvatarTooLarge, http.StatusBadRequest},
		{"avatar bad format", service.ErrAvatarBadFormat, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("get task: %w", store.ErrTaskNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	// Internal details never reach the client
	internal := errors.New("pq: connection to 10.0.0.5 refused")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(internal))

	assert.Equal(t, "Unable to login", GetSafeErrorMessage(service.ErrInvalidCredentials))
	assert.Equal(t, "Email already in use", GetSafeErrorMessage(store.ErrEmailExists))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "Please authenticate.", GetSafeErrorMessage(auth.ErrExpiredToken))

	// Domain validation messages are user-facing and pass through
	assert.Equal(t, domain.ErrPasswordTooShort.Error(), GetSafeErrorMessage(domain.ErrPasswordTooShort))
}
