// Package middleware provides HTTP middleware for the Travel Desk API server.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// UserIDHeader is the header the identity provider uses to hand the API the
// acting user's opaque token. The API never interprets the token beyond
// equality comparison; any upstream mechanism (session gateway, bearer-token
// proxy) can supply it.
const UserIDHeader = "X-User-ID"

// ctxKey is unexported so no other package can forge context values.
type ctxKey int

const userIDKey ctxKey = iota

// RequireIdentity rejects requests that carry no acting-user token and
// stashes the token in the request context for handlers to read via UserID.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if token == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{
					"code":    "unauthorized",
					"message": "missing " + UserIDHeader + " header",
				},
			})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the acting user token stored by RequireIdentity, or ""
// when the middleware did not run for this request.
func UserID(ctx context.Context) string {
	token, _ := ctx.Value(userIDKey).(string)
	return token
}
