package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestor-pos/gestor-pos/internal/shared"
)

func newTestHandler(t *testing.T, repo Repository) (*Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sm := shared.NewSessionManager(client, "gestor_session", "secret", time.Hour, false)
	csrf := shared.NewCSRFManager("secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(repo), sm, csrf), sm
}

func withSession(t *testing.T, sm *shared.SessionManager, r *http.Request) (*http.Request, *shared.Session) {
	t.Helper()
	sess, err := sm.Load(r.Context(), r)
	require.NoError(t, err)
	return r.WithContext(shared.ContextWithSession(r.Context(), sess)), sess
}

func TestLoginSuccessBindsSession(t *testing.T) {
	repo := newMockRepository()
	seller(t, repo)
	h, sm := newTestHandler(t, repo)

	router := chi.NewRouter()
	router.Route("/auth", h.MountRoutes)

	body := `{"email":"vendedor@gestor.local","password":"segredo123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req, sess := withSession(t, sm, req)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"email":"vendedor@gestor.local"`)
	assert.NotContains(t, rr.Body.String(), "password")
	assert.Equal(t, "1", sess.User())
	assert.Contains(t, repo.sessions, sess.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newMockRepository()
	seller(t, repo)
	h, sm := newTestHandler(t, repo)

	router := chi.NewRouter()
	router.Route("/auth", h.MountRoutes)

	body := `{"email":"vendedor@gestor.local","password":"senhaerrada"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req, sess := withSession(t, sm, req)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, sess.User())
}

func TestLoginValidatesPayload(t *testing.T) {
	repo := newMockRepository()
	h, sm := newTestHandler(t, repo)

	router := chi.NewRouter()
	router.Route("/auth", h.MountRoutes)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"x","password":"123"}`))
	req, _ = withSession(t, sm, req)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMeWithoutSessionIsUnauthorized(t *testing.T) {
	repo := newMockRepository()
	h, sm := newTestHandler(t, repo)

	router := chi.NewRouter()
	router.Route("/auth", h.MountRoutes)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req, _ = withSession(t, sm, req)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	repo := newMockRepository()
	seller(t, repo)
	h, sm := newTestHandler(t, repo)

	router := chi.NewRouter()
	router.Route("/auth", h.MountRoutes)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req, sess := withSession(t, sm, req)
	sess.SetUser("1")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"role":"user"`)
}

func TestRequireCapabilityBlocksSeller(t *testing.T) {
	repo := newMockRepository()
	seller(t, repo)
	h, sm := newTestHandler(t, repo)
	mw := Middleware{Service: h.service, Logger: h.logger}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(mw.RequireCapability(shared.CapManageProducts))
		r.Post("/products", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	})

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req, sess := withSession(t, sm, req)
	sess.SetUser("1")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireCapabilityAllowsAdmin(t *testing.T) {
	repo := newMockRepository()
	admin := &User{ID: 2, Email: "admin@gestor.local", Role: shared.RoleAdmin, IsActive: true}
	repo.add(admin)
	h, sm := newTestHandler(t, repo)
	mw := Middleware{Service: h.service, Logger: h.logger}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(mw.RequireCapability(shared.CapManageProducts))
		r.Post("/products", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	})

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req, sess := withSession(t, sm, req)
	sess.SetUser("2")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)
}
