package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/config"
	"github.com/westmarkadvisory/website/internal/logging"
	"github.com/westmarkadvisory/website/internal/metrics"
	"github.com/westmarkadvisory/website/internal/middleware"
)

// New creates a chi.Router pre-wired with the site's standard middleware stack:
// - RequestID
// - RealIP
// - Recoverer (panic → 500)
// - body size limit (MaxRequestBodyBytes)
// - metrics HTTP middleware
// - security headers
// - optional compression
// - request logging
// - NotFound / MethodNotAllowed handlers
// Routes (pages, API, admin) remain app-level decisions.
func New(cfg *config.Config, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	// Request context & safety
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Recoverer(logger))

	// Body size limit (if configured)
	r.Use(middleware.LimitBodySize(cfg.MaxRequestBodyBytes))

	// Metrics
	r.Use(metrics.HTTPMetrics)

	// Security headers on every response
	r.Use(middleware.SecureDefaults())

	if cfg.EnableCompression {
		r.Use(chimw.Compress(5))
	}

	// Access logging
	r.Use(logging.RequestLogger(logger))

	// NotFound / MethodNotAllowed handlers
	r.NotFound(middleware.NotFoundHandler(logger))
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler(logger))

	return r
}

// CORS builds the CORS middleware for the /api subtree from config.
// Callers should only mount it when cfg.CORS.EnableCORS is true.
func CORS(cfg *config.Config) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.CORSAllowedOrigins,
		AllowedMethods: cfg.CORS.CORSAllowedMethods,
		AllowedHeaders: cfg.CORS.CORSAllowedHeaders,
		MaxAge:         cfg.CORS.CORSMaxAge,
	})
}
