package ratelimit

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/httputil"
	"github.com/westmarkadvisory/website/internal/metrics"
)

// PerIP returns a middleware that limits requests per client IP using a
// token bucket. Rejected requests get 429 with a JSON error body.
//
// Inactive IPs are dropped after an hour; a brochure site sees each visitor
// submit the form at most a handful of times.
func PerIP(rate float64, burst int, logger *zap.Logger) func(next http.Handler) http.Handler {
	kl := NewKeyLimiter(rate, burst, time.Hour)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := IPKey(r)
			if !kl.Allow(key) {
				if logger != nil {
					logger.Warn("rate limited",
						zap.String("remote_ip", key),
						zap.String("path", r.URL.Path),
					)
				}
				metrics.SubmissionsRejected.WithLabelValues("rate_limited").Inc()
				w.Header().Set("Retry-After", "60")
				httputil.JSONError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
