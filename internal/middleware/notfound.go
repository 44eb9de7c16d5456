package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/httputil"
)

// NotFoundHandler returns a handler that logs a 404 and responds with a JSON
// error body for API/admin paths or a minimal HTML page for site paths.
// It is designed to be passed directly to chi.Router.NotFound(..).
func NotFoundHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if logger != nil {
			logger.Info("not_found",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_ip", r.RemoteAddr),
			)
		}

		if wantsJSON(r) {
			httputil.JSONError(w, http.StatusNotFound, "not found")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<!DOCTYPE html><title>Not found</title><h1>404</h1><p>That page doesn't exist. <a href=\"/\">Back home</a>.</p>"))
	}
}

// MethodNotAllowedHandler returns a handler that logs a 405 and returns a JSON
// error body. It is designed to be passed directly to chi.Router.MethodNotAllowed(..).
func MethodNotAllowedHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if logger != nil {
			logger.Info("method_not_allowed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_ip", r.RemoteAddr),
			)
		}

		httputil.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/admin")
}
