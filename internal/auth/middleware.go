package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gestor-pos/gestor-pos/internal/platform/httpx"
	"github.com/gestor-pos/gestor-pos/internal/shared"
)

type currentUserKey struct{}

// Middleware wires authorization helpers for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireUser ensures a signed-in user and stores it in the request context.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.User() == "" {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		user, err := m.Service.CurrentUser(r.Context(), sess.User())
		if err != nil || !user.IsActive {
			if err != nil && m.Logger != nil {
				m.Logger.Warn("resolve session user", slog.Any("error", err))
			}
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), currentUserKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCapability ensures the signed-in user's role grants the capability.
func (m Middleware) RequireCapability(cap shared.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || !shared.Can(user.Role, cap) {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// UserFromContext extracts the authenticated user placed by RequireUser.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(currentUserKey{}).(*User)
	return user
}
