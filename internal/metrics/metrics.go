package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// reqDuration is a histogram of HTTP request durations in seconds, labeled
// by path, method, and status code.
var reqDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Duration of HTTP requests.",
		// buckets in seconds
		Buckets: []float64{0.01, 0.1, 0.3, 1.2, 5},
	},
	[]string{"path", "method", "status"},
)

// SubmissionsAccepted counts contact submissions that passed validation.
var SubmissionsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "contact_submissions_accepted_total",
	Help: "Contact submissions accepted by the endpoint.",
})

// SubmissionsRejected counts contact submissions rejected by validation,
// labeled by reason ("missing_email", "invalid_email", "bad_request", "rate_limited").
var SubmissionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "contact_submissions_rejected_total",
	Help: "Contact submissions rejected before acceptance.",
}, []string{"reason"})

// DeliveryFailures counts failures of the follow-up deliveries, labeled by
// channel ("email", "crm"). These never affect the submitter's response.
var DeliveryFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "contact_delivery_failures_total",
	Help: "Failed follow-up deliveries for accepted submissions.",
}, []string{"channel"})

// RegisterDefault registers the default Go runtime and process collectors,
// the HTTP request duration histogram, and the contact pipeline counters.
// It is safe (and intended) to call this once at startup.
func RegisterDefault(logger *zap.Logger) {
	mustRegister(logger, "Go collector", collectors.NewGoCollector())
	mustRegister(logger, "process collector", collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mustRegister(logger, "HTTP request histogram", reqDuration)
	mustRegister(logger, "submissions accepted counter", SubmissionsAccepted)
	mustRegister(logger, "submissions rejected counter", SubmissionsRejected)
	mustRegister(logger, "delivery failures counter", DeliveryFailures)
}

// mustRegister attempts to register a Prometheus collector. Already-registered
// collectors are tolerated (tests call RegisterDefault repeatedly); any other
// failure is fatal because it indicates a configuration problem.
func mustRegister(logger *zap.Logger, name string, c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return
		}
		if logger != nil {
			logger.Fatal("failed to register "+name, zap.Error(err))
		} else {
			panic("metrics: failed to register " + name + ": " + err.Error())
		}
	}
}

// maxPathLabelLength is the maximum length for the path label to prevent
// unbounded cardinality and memory issues in Prometheus.
const maxPathLabelLength = 256

// HTTPMetrics is a middleware that records request duration into the
// http_request_duration_seconds histogram.
//
// It uses the chi route pattern (e.g., "/blog/{slug}") instead of the actual
// request path to prevent label cardinality explosion. This middleware should
// be placed AFTER the recovery middleware so panics are recorded as 500s.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		protoMajor := r.ProtoMajor
		if protoMajor < 1 {
			protoMajor = 1
		}
		ww := middleware.NewWrapResponseWriter(w, protoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start).Seconds()
		statusCode := ww.Status()
		// Status 0 means WriteHeader was never called; net/http treats that
		// as a 200 once the handler completes.
		if statusCode == 0 {
			statusCode = http.StatusOK
		}

		path := routePattern(r)
		if len(path) > maxPathLabelLength {
			path = path[:maxPathLabelLength-3] + "..."
		}

		reqDuration.WithLabelValues(path, r.Method, strconv.Itoa(statusCode)).Observe(duration)
	})
}

// routePattern returns the chi route pattern for the request, falling back to
// the raw path when the request didn't match a route.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// Handler returns the promhttp handler for mounting at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
