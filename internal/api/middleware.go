package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyUser contextKey = "user"

// requireAuth validates the bearer token and attaches the resolved user to
// the request context.
func (s *ProfileServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		user, err := s.profileService.VerifyAccessToken(r.Context(), parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated user attached by requireAuth.
func userFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(contextKeyUser).(*domain.User)
	return user
}
