package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/dropvault/internal/common"
)

type ctxKey string

const usernameKey ctxKey = "username"

func usernameFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(usernameKey).(string)
	return v, ok
}

// authMiddleware extracts the bearer token from the Authorization header
// and resolves it to a username. Handlers behind it must take the owner
// identity from the request context only.
func (s *HTTPServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, common.BearerScheme) || token == "" {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}

		username, err := s.users.ResolveToken(r.Context(), token)
		if err != nil {
			// expired, tampered, and unknown-user tokens all look the same
			writeUnauthorized(w, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// corsMiddleware lets the configured browser origin call the API and
// answers preflight requests. It wraps the whole router so preflights
// are handled before route matching.
func (s *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if s.allowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
