// Package apikey enforces a static API key on the operator-only routes
// (/admin, /metrics).
package apikey

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Options control how the API-key middleware behaves.
type Options struct {
	// Realm is used in the WWW-Authenticate header, e.g. "westmark-admin".
	Realm string
}

// Require returns a middleware that enforces a static API key.
// The key is considered valid if it matches the provided expected string.
// Key lookup order:
//  1. Authorization: Bearer <token>
//  2. X-API-Key header
//  3. api_key query param
func Require(expected string, opts Options, logger *zap.Logger) func(next http.Handler) http.Handler {
	expected = strings.TrimSpace(expected)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				// Config validation should prevent this; don't panic at runtime.
				if logger != nil {
					logger.Warn("apikey.Require used with empty expected key")
				}
				http.Error(w, "server misconfigured", http.StatusInternalServerError)
				return
			}

			key, ok := apiKeyFromRequest(r)
			if !ok || key != expected {
				if logger != nil {
					logger.Warn("API key unauthorized",
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.String("remote_ip", r.RemoteAddr),
					)
				}
				realm := opts.Realm
				if strings.TrimSpace(realm) == "" {
					realm = "westmark"
				}
				w.Header().Set("WWW-Authenticate", `Bearer realm="`+realm+`"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// apiKeyFromRequest extracts an API key from the request. It checks, in order:
//  1. Authorization: Bearer <token>
//  2. X-API-Key header
//  3. api_key query parameter
func apiKeyFromRequest(r *http.Request) (string, bool) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		token := strings.TrimSpace(auth[len("Bearer "):])
		if token != "" {
			return token, true
		}
	}

	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key, true
	}

	if key := strings.TrimSpace(r.URL.Query().Get("api_key")); key != "" {
		return key, true
	}

	return "", false
}
