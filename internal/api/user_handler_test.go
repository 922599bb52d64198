package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/mocks"
	"github.com/tasknest/tasknest-api/internal/service"
)

// handlerFixture bundles a UserHandler with its mock-backed service.
type handlerFixture struct {
	handler  *UserHandler
	users    *mocks.MockUserStore
	sessions *mocks.MockSessionStore
	notifier *mocks.MockNotifier
}

func newUserHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	db, err := sql.Open("pgx", "postgres://localhost:5432/unused")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users := mocks.NewMockUserStore()
	sessions := mocks.NewMockSessionStore()
	notifier := &mocks.MockNotifier{}

	svc, err := service.NewUserService(
		db,
		users,
		sessions,
		mocks.NewMockTaskStore(),
		&mocks.MockJWTService{Token: "signed-token"},
		&mocks.MockPasswordHasher{},
		&mocks.MockPasswordVerifier{},
		notifier,
		nil,
	)
	require.NoError(t, err)

	return &handlerFixture{
		handler:  NewUserHandler(svc, testLogger()),
		users:    users,
		sessions: sessions,
		notifier: notifier,
	}
}

// registerUser drives the Register handler and returns the created
// user's ID.
func (f *handlerFixture) registerUser(t *testing.T, email string) uuid.UUID {
	t.Helper()

	body := fmt.Sprintf(`{"name":"Alice","email":%q,"password":"sup3rsecret","age":30}`, email)
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	rec := httptest.NewRecorder()

	f.handler.Register(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID
}

// authenticatedRequest attaches the context values the auth middleware
// would have set.
func authenticatedRequest(req *http.Request, userID uuid.UUID, token string) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	ctx = context.WithValue(ctx, shared.SessionTokenContextKey, token)
	return req.WithContext(ctx)
}

func TestUserHandler_Register(t *testing.T) {
	t.Run("success returns user and token", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		body := `{"name":"Alice","email":"alice@example.com","password":"sup3rsecret","age":30}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		f.handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Alice", resp.User.Name)
		assert.Equal(t, "signed-token", resp.Token)

		// The response must not leak credential material
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "hashed")

		require.Len(t, f.notifier.WelcomeCalls, 1)
	})

	t.Run("weak password rejected with 400", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		body := `{"name":"Alice","email":"alice@example.com","password":"short","age":30}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		f.handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email rejected with 400", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		f.registerUser(t, "alice@example.com")

		body := `{"name":"Other","email":"alice@example.com","password":"sup3rsecret"}`
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		rec := httptest.NewRecorder()

		f.handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email already in use")
	})

	t.Run("malformed JSON rejected with 400", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		f.handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		f.registerUser(t, "alice@example.com")

		body := `{"email":"alice@example.com","password":"sup3rsecret"}`
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		f.handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
	})

	t.Run("unknown email yields 400 without detail", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		body := `{"email":"nobody@example.com","password":"sup3rsecret"}`
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		f.handler.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unable to login")
		assert.NotContains(t, rec.Body.String(), "email")
	})
}

func TestUserHandler_Logout(t *testing.T) {
	f := newUserHandlerFixture(t)
	userID := f.registerUser(t, "alice@example.com")

	// Registration recorded one session for "signed-token"
	req := httptest.NewRequest(http.MethodPost, "/users/logout", nil)
	req = authenticatedRequest(req, userID, "signed-token")
	rec := httptest.NewRecorder()

	f.handler.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	active, err := f.sessions.Exists(context.Background(), userID, "signed-token")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestUserHandler_LogoutAll(t *testing.T) {
	f := newUserHandlerFixture(t)
	userID := f.registerUser(t, "alice@example.com")

	require.NoError(t, f.sessions.Add(context.Background(), userID, "other-device"))

	req := httptest.NewRequest(http.MethodPost, "/users/logoutAll", nil)
	req = authenticatedRequest(req, userID, "signed-token")
	rec := httptest.NewRecorder()

	f.handler.LogoutAll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.sessions.Sessions[userID])
}

func TestUserHandler_GetMe(t *testing.T) {
	f := newUserHandlerFixture(t)
	userID := f.registerUser(t, "alice@example.com")

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req = authenticatedRequest(req, userID, "signed-token")
	rec := httptest.NewRecorder()

	f.handler.GetMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.ID)
	assert.Equal(t, "alice@example.com", resp.Email)
}

func TestUserHandler_UpdateMe(t *testing.T) {
	t.Run("allowed fields applied", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		userID := f.registerUser(t, "alice@example.com")

		body := `{"name":"Alicia","age":31}`
		req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(body))
		req = authenticatedRequest(req, userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.UpdateMe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Alicia", resp.Name)
		assert.Equal(t, 31, resp.Age)
	})

	t.Run("unknown field rejects the whole update", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		userID := f.registerUser(t, "alice@example.com")

		body := `{"name":"Alicia","height":180}`
		req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(body))
		req = authenticatedRequest(req, userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.UpdateMe(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid updates.")

		// Nothing was applied
		user, err := f.users.GetByID(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", user.Name)
	})

	t.Run("weak replacement password rejected", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		userID := f.registerUser(t, "alice@example.com")

		body := `{"password":"short"}`
		req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(body))
		req = authenticatedRequest(req, userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.UpdateMe(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_UploadAvatar(t *testing.T) {
	makeUpload := func(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile(fieldName, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return &buf, mw.FormDataContentType()
	}

	smallPNG := func(t *testing.T) []byte {
		t.Helper()
		img := image.NewRGBA(image.Rect(0, 0, 20, 20))
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
			}
		}
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		return buf.Bytes()
	}

	t.Run("valid upload stored as 250x250 png", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		userID := f.registerUser(t, "alice@example.com")

		body, contentType := makeUpload(t, "avatar", "me.png", smallPNG(t))
		req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", body)
		req.Header.Set("Content-Type", contentType)
		req = authenticatedRequest(req, userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.UploadAvatar(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored := f.users.Avatars[userID]
		require.NotEmpty(t, stored)

		decoded, err := png.Decode(bytes.NewReader(stored))
		require.NoError(t, err)
		assert.Equal(t, 250, decoded.Bounds().Dx())
		assert.Equal(t, 250, decoded.Bounds().Dy())
	})

	t.Run("wrong extension rejected", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		userID := f.registerUser(t, "alice@example.com")

		body, contentType := makeUpload(t, "avatar", "me.gif", smallPNG(t))
		req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", body)
		req.Header.Set("Content-Type", contentType)
		req = authenticatedRequest(req, userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.UploadAvatar(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.users.Avatars[userID])
	})

	t.Run("missing field rejected", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		userID := f.registerUser(t, "alice@example.com")

		body, contentType := makeUpload(t, "picture", "me.png", smallPNG(t))
		req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", body)
		req.Header.Set("Content-Type", contentType)
		req = authenticatedRequest(req, userID, "signed-token")
		rec := httptest.NewRecorder()

		f.handler.UploadAvatar(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_GetAvatar(t *testing.T) {
	t.Run("serves stored avatar as png", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		userID := f.registerUser(t, "alice@example.com")
		f.users.Avatars[userID] = []byte("png-bytes")

		req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/avatar", nil)
		req = withChiURLParam(req, "id", userID.String())
		rec := httptest.NewRecorder()

		f.handler.GetAvatar(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "png-bytes", rec.Body.String())
	})

	t.Run("absent avatar yields 404", func(t *testing.T) {
		f := newUserHandlerFixture(t)
		userID := f.registerUser(t, "alice@example.com")

		req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/avatar", nil)
		req = withChiURLParam(req, "id", userID.String())
		rec := httptest.NewRecorder()

		f.handler.GetAvatar(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unparseable id yields 404", func(t *testing.T) {
		f := newUserHandlerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/users/not-a-uuid/avatar", nil)
		req = withChiURLParam(req, "id", "not-a-uuid")
		rec := httptest.NewRecorder()

		f.handler.GetAvatar(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUserHandler_DeleteMe(t *testing.T) {
	// Account deletion runs a database transaction for the cascade,
	// which this fixture cannot provide; TestUserService_Delete_Cascade
	// covers the cascade itself. Here we only check the unauthenticated
	// rejection.
	f := newUserHandlerFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/users/me", nil)
	rec := httptest.NewRecorder()

	f.handler.DeleteMe(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please authenticate.")
}

// withChiURLParam attaches a chi route parameter to the request context,
// as the router would during dispatch.
func withChiURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
