package auth

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	UserContextKey  contextKey = "user"
	TokenContextKey contextKey = "token"
)

// SessionMiddleware resolves the session cookie and stores the token and, when
// it resolves, the username in the request context. Requests without a valid
// session pass through unchanged.
func SessionMiddleware(registry *Registry, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := CookieValue(r, cookieName)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), TokenContextKey, token)
			if username, ok := registry.Resolve(token); ok {
				ctx = context.WithValue(ctx, UserContextKey, username)
			} else {
				log.Debug().
					Str("component", "sessions").
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("session cookie did not resolve")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext retrieves the logged-in username from the context
func GetUserFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UserContextKey).(string)
	return username, ok
}

// GetTokenFromContext retrieves the raw session cookie value from the context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenContextKey).(string)
	return token, ok
}
