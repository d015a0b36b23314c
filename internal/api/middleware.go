package api

import (
	"log/slog"
	"net/http"
	"strings"
)

// AdminTokenMiddleware guards the admin API with a static bearer token.
// Supports "Bearer <token>" or a raw token in the Authorization header,
// plus the X-API-Key header.
func AdminTokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := extractToken(r)
			if presented == "" {
				respondError(w, http.StatusUnauthorized, "missing admin token")
				return
			}

			if presented != token {
				slog.Warn("invalid admin token attempt",
					"token_prefix", maskToken(presented),
					"remote_addr", r.RemoteAddr,
				)
				respondError(w, http.StatusUnauthorized, "invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the admin token from request headers
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
		return authHeader
	}

	return r.Header.Get("X-API-Key")
}

// maskToken returns first 8 chars of a token for safe logging
func maskToken(token string) string {
	if len(token) < 8 {
		return "***"
	}
	return token[:8] + "..."
}
