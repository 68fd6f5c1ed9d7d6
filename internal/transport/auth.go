package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rpggio/bidboard/internal/domain/account"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// OwnerResolver resolves the calling identity from a bearer token.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, token string) (account.Identity, error)
}

// OwnerFromContext returns the owner id from context, if present.
func OwnerFromContext(ctx context.Context) (string, bool) {
	id, ok := account.FromContext(ctx)
	return id.Owner, ok
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver OwnerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			id, err := resolver.ResolveOwner(r.Context(), token)
			if err != nil || id.Validate() != nil {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(account.NewContext(r.Context(), id)))
		})
	}
}

// DefaultOwnerMiddleware assigns every request to id. Used when auth is disabled.
func DefaultOwnerMiddleware(id account.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(account.NewContext(r.Context(), id)))
		})
	}
}
