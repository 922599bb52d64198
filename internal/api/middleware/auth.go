package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/redact"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// authFailureMessage is the single message every authentication failure
// produces. A missing header, a bad signature, an expired token, a
// revoked session and an unknown user are deliberately indistinguishable.
const authFailureMessage = "Please authenticate."

// AuthMiddleware provides bearer-token authentication for routes.
// Beyond verifying the JWT signature and expiry it checks that the
// presented token is still recorded as an active session, so logout and
// logout-all genuinely revoke access.
type AuthMiddleware struct {
	jwtService   auth.JWTService
	sessionStore store.SessionStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, sessionStore store.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Authenticate validates the Authorization header and, on success,
// attaches the user ID and presented token to the request context. All
// failures halt the pipeline with one uniform 401 response.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.reject(w, r)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(w, r)
			return
		}
		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			// Expired, malformed and forged tokens all end up here.
			m.reject(w, r)
			return
		}

		active, err := m.sessionStore.Exists(r.Context(), claims.UserID, token)
		if err != nil {
			slog.Error("failed to check session", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}
		if !active {
			// Token was revoked by logout, logout-all or account deletion.
			m.reject(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		ctx = context.WithValue(ctx, shared.SessionTokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusUnauthorized, authFailureMessage)
}
