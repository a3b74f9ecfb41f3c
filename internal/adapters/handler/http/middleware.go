package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type contextKey string

const userKey contextKey = "user"

type AuthMiddleware struct {
	auth ports.AuthService
}

func NewAuthMiddleware(auth ports.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireUser resolves the bearer access token to an active, verified user
// and stores it in the request context. Anything else is a 401.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		user, err := m.auth.AuthenticateAccess(r.Context(), token)
		if err != nil {
			http.Error(w, domain.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must be chained after RequireUser.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			http.Error(w, domain.ErrInvalidToken.Error(), http.StatusUnauthorized)
			return
		}
		if !user.IsAdmin {
			http.Error(w, domain.ErrForbidden.Error(), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func CurrentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userKey).(*domain.User)
	return user
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
