package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var errMissingToken = errors.New("auth: missing bearer token")

// contextKey is unexported so no other package can collide with our
// context values — only this package can construct the key.
type contextKey string

const clientIDKey contextKey = "clientID"

// RequireAuth enforces a valid Bearer token on protected routes.
//
// It reads "Authorization: Bearer <token>", validates the JWT, and stores
// the client ID in the request context. A missing or invalid token stops
// the chain with 401.
//
// Bearer headers rather than cookies: the callers are programs, not
// browsers, and a header works the same from curl, a cron job, or another
// service.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, err := extractClientID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="script-worker"`)
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid bearer token required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), clientIDKey, clientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIDFromContext retrieves the authenticated client's ID.
// Returns ("", false) when the request did not carry a valid token.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	return id, ok && id != ""
}

// extractClientID pulls the Bearer token off the Authorization header and
// validates it.
func extractClientID(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", errMissingToken
	}

	return tokens.Validate(strings.TrimSpace(token))
}
