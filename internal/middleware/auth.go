package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
)

type contextKey string

const IdentityKey contextKey = "identity"

// TokenParser verifies an access token and returns the caller.
type TokenParser interface {
	Parse(token string) (accounts.Identity, error)
}

// BearerAuth validates the JWT from the Authorization header and stores the
// identity in the request context.
func BearerAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			id, err := tokens.Parse(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom extracts the caller stored by BearerAuth.
func IdentityFrom(ctx context.Context) (accounts.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(accounts.Identity)
	return id, ok
}

// RequireRole rejects callers whose role is not in roles with 403.
func RequireRole(roles ...accounts.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Missing identity")
				return
			}
			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "Unauthorized")
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
