package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/portersclub/members-api/internal/models"
	pkghttp "github.com/portersclub/members-api/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// AdminContextKey is the key for storing the authenticated admin in context
	AdminContextKey contextKey = "admin"
)

// AdminFetcher re-fetches the admin record during token verification.
type AdminFetcher interface {
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
}

// Middleware validates bearer tokens and injects the current admin record
// into the request context. The admin is always re-fetched from the database
// so a deleted admin or a changed role takes effect immediately, even though
// the token itself is stateless.
func Middleware(tm *TokenManager, admins AdminFetcher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				pkghttp.WriteUnauthorized(w, "No token provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				pkghttp.WriteUnauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := tm.Validate(parts[1])
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			admin, err := admins.GetByID(r.Context(), claims.AdminID)
			if err != nil {
				// A vanished admin and an infrastructure failure look the same
				// to the client: the token cannot be honored.
				pkghttp.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), AdminContextKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext extracts the authenticated admin from the request context
func AdminFromContext(r *http.Request) *models.Admin {
	admin, ok := r.Context().Value(AdminContextKey).(*models.Admin)
	if !ok {
		return nil
	}
	return admin
}
