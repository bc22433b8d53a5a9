package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docufile/authkit/pkg/session"
)

func protectedRouter(manager *session.Manager) http.Handler {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(manager.RequireSession)
		r.Get("/me", func(w http.ResponseWriter, req *http.Request) {
			sess := session.MustFromContext(req.Context())
			w.Write([]byte(sess.UserID.String()))
		})
	})
	r.Group(func(r chi.Router) {
		r.Use(manager.Middleware)
		r.Get("/landing", func(w http.ResponseWriter, req *http.Request) {
			if _, ok := session.FromContext(req.Context()); ok {
				w.Write([]byte("known"))
				return
			}
			w.Write([]byte("anonymous"))
		})
	})
	return r
}

func TestRequireSession(t *testing.T) {
	ctx := context.Background()
	manager, _, _ := newManager(testConfig())
	router := protectedRouter(manager)
	userID := uuid.New()

	sess, err := manager.Create(ctx, userID, session.Metadata{})
	require.NoError(t, err)

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+sess.Token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("valid header token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set(session.HeaderName, sess.Token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-real-token")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalidated session", func(t *testing.T) {
		revoked, err := manager.Create(ctx, userID, session.Metadata{})
		require.NoError(t, err)
		require.NoError(t, manager.Invalidate(ctx, revoked.ID))

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+revoked.Token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestMiddleware_PassThrough(t *testing.T) {
	ctx := context.Background()
	manager, _, _ := newManager(testConfig())
	router := protectedRouter(manager)

	t.Run("anonymous request passes through", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/landing", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("valid session is injected", func(t *testing.T) {
		sess, err := manager.Create(ctx, uuid.New(), session.Metadata{})
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/landing", nil)
		req.Header.Set("Authorization", "Bearer "+sess.Token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "known", w.Body.String())
	})
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("bearer wins over header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		req.Header.Set(session.HeaderName, "def")
		assert.Equal(t, "abc", session.TokenFromRequest(req))
	})

	t.Run("non-bearer authorization is ignored", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		req.Header.Set(session.HeaderName, "def")
		assert.Equal(t, "def", session.TokenFromRequest(req))
	})

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		assert.Empty(t, session.TokenFromRequest(req))
	})
}

func TestMetadataFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Agent", "chrome")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.RemoteAddr = "10.0.0.1:4321"

	meta := session.MetadataFromRequest(req)
	assert.Equal(t, "203.0.113.7", meta.IPAddress)
	assert.Equal(t, "chrome", meta.UserAgent)
	assert.NotEmpty(t, meta.DeviceFingerprint)
}
