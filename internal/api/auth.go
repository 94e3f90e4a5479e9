package api

import (
	"context"
	"net/http"
	"strings"

	"redshift-backend/internal/models"
)

type userKey struct{}

// RequireUser rejects requests that lack the identity header an upstream
// auth proxy sets. Credentials are never checked here.
func RequireUser(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := strings.TrimSpace(r.Header.Get(header))
			if user == "" {
				writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{
					Error:   "unauthenticated",
					Message: "You must be logged in to access this page.",
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
		})
	}
}

// UserFromContext returns the user set by RequireUser.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userKey{}).(string)
	return user, ok
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}
