package logging

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Recoverer returns a middleware that recovers from panics, logs them with a
// stack trace, and returns HTTP 500 if headers haven't been written yet.
//
// If the panic occurs after response headers have already been sent, the
// middleware logs the panic but cannot change the response status code.
func Recoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protoMajor := r.ProtoMajor
			if protoMajor < 1 {
				protoMajor = 1
			}
			ww := middleware.NewWrapResponseWriter(w, protoMajor)

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic_value", rec),
						zap.ByteString("stacktrace", debug.Stack()),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("remote_ip", r.RemoteAddr),
					)

					// Only send an error response if headers haven't been written yet.
					if ww.Status() == 0 {
						http.Error(w, "internal server error", http.StatusInternalServerError)
					} else {
						logger.Warn("panic occurred after headers written; response may be incomplete",
							zap.Int("status_already_sent", ww.Status()),
							zap.String("path", r.URL.Path))
					}
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
