// Package app runs the standard startup sequence for the website process.
package app

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/config"
	"github.com/westmarkadvisory/website/internal/logging"
	"github.com/westmarkadvisory/website/internal/metrics"
	"github.com/westmarkadvisory/website/internal/server"
)

// Hooks defines the integration points the application provides to Run.
// B is the bundle of connected backends (store, cache, content library).
type Hooks[B any] struct {
	// Name is used only for logging/diagnostics.
	Name string

	// LoadConfig loads and validates the process configuration.
	LoadConfig func(logger *zap.Logger) (*config.Config, error)

	// ConnectBackends connects the submission store, page cache, and any
	// other backends, and loads startup content. It should respect
	// cfg.StoreConnectTimeout for its own timeouts.
	ConnectBackends func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (B, error)

	// CloseBackends releases backend resources on shutdown. May be nil.
	CloseBackends func(backends B, logger *zap.Logger)

	// BuildHandler constructs the final http.Handler: router, middleware,
	// and routes.
	BuildHandler func(cfg *config.Config, backends B, logger *zap.Logger) (http.Handler, error)
}

// Run executes the startup sequence:
//
//  1. Bootstrap logger
//  2. Load config (Hooks.LoadConfig)
//  3. Build final logger from config
//  4. Register default metrics
//  5. Connect backends (Hooks.ConnectBackends)
//  6. Wire shutdown signals to a context
//  7. Build the HTTP handler (Hooks.BuildHandler)
//  8. Start the HTTP(S) server and block until shutdown
func Run[B any](ctx context.Context, hooks Hooks[B]) error {
	// 1) Bootstrap logger for early startup
	bootstrap := logging.BootstrapLogger()
	defer bootstrap.Sync()
	bootstrap.Info("bootstrap logger initialized", zap.String("app", hooks.Name))

	// 2) Load config
	cfg, err := hooks.LoadConfig(bootstrap)
	if err != nil {
		bootstrap.Error("config load failed", zap.Error(err))
		// For a runner, exiting here is correct.
		os.Exit(1)
	}
	bootstrap.Info("config loaded",
		zap.String("env", cfg.Env),
		zap.String("log_level", cfg.LogLevel),
	)

	// 3) Build final logger
	logger := logging.MustBuildLogger(cfg.LogLevel, cfg.Env)
	defer logger.Sync()
	logger.Info("logger initialized", zap.String("app", hooks.Name))

	// 4) Register default metrics (Go, process, HTTP histograms)
	metrics.RegisterDefault(logger)

	// 5) Connect backends and load content
	backends, err := hooks.ConnectBackends(ctx, cfg, logger)
	if err != nil {
		logger.Error("backend connect failed", zap.Error(err))
		os.Exit(1)
	}
	if hooks.CloseBackends != nil {
		defer hooks.CloseBackends(backends, logger)
	}

	// 6) Wire shutdown signals → context
	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	// 7) Build HTTP handler (router + middleware + routes)
	handler, err := hooks.BuildHandler(cfg, backends, logger)
	if err != nil {
		logger.Error("handler build failed", zap.Error(err))
		os.Exit(1)
	}

	// 8) Start HTTP server
	if err := server.ListenAndServeWithContext(ctx, cfg, handler, logger); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
