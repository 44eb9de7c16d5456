package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/acme/autocert"

	"github.com/westmarkadvisory/website/internal/config"
)

// WithShutdownSignals returns a context that is canceled when the process
// receives SIGINT or SIGTERM. It should be used as the parent context for the
// HTTP server. The returned cancel function also cleans up the signal handler.
func WithShutdownSignals(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			if logger != nil {
				logger.Info("shutdown signal received", zap.Any("signal", sig))
			}
			cancel()
		case <-ctx.Done():
			// Context was cancelled externally (e.g., programmatic shutdown)
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// ListenAndServeWithContext starts an HTTP or HTTPS server (with optional
// Let's Encrypt via the http-01 challenge) and blocks until the context is
// canceled or the server encounters a terminal error.
//
// It does NOT wire any routes itself; callers must provide a fully
// configured http.Handler (e.g., chi.Router).
func ListenAndServeWithContext(
	ctx context.Context,
	cfg *config.Config,
	handler http.Handler,
	logger *zap.Logger,
) error {
	if cfg == nil {
		return fmt.Errorf("ListenAndServeWithContext: cfg is nil")
	}
	if handler == nil {
		return fmt.Errorf("ListenAndServeWithContext: handler is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	// Route stdlib error logs into zap at Warn level.
	if stdlog, err := zap.NewStdLogAt(logger, zapcore.WarnLevel); err == nil {
		srv.ErrorLog = stdlog
	} else {
		logger.Warn("failed to attach stdlib error logger", zap.Error(err))
	}

	httpAddr := ":" + strconv.Itoa(cfg.HTTP.HTTPPort)
	httpsAddr := ":" + strconv.Itoa(cfg.HTTP.HTTPSPort)

	var (
		auxSrv   *http.Server // :80 ACME or redirect server (HTTPS modes)
		ln       net.Listener
		serveErr = make(chan error, 1)
		auxErr   chan error // nil channels block forever in select
		err      error
	)

	switch {
	// ----------------------------- HTTP only -------------------------------
	case !cfg.HTTP.UseHTTPS:
		ln, err = net.Listen("tcp", httpAddr)
		if err != nil {
			return fmt.Errorf("listen http %s: %w", httpAddr, err)
		}
		logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
		go servePrimary(srv, ln, serveErr)

	// ----------------------- HTTPS via Let's Encrypt -----------------------
	case cfg.TLS.UseLetsEncrypt:
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.TLS.Domain),
			Cache:      autocert.DirCache(cfg.TLS.LetsEncryptCacheDir),
			Email:      cfg.TLS.LetsEncryptEmail,
		}

		tlsCfg := m.TLSConfig()
		tlsCfg.MinVersion = tls.VersionTLS12

		baseLn, lerr := net.Listen("tcp", httpsAddr)
		if lerr != nil {
			return fmt.Errorf("listen https %s: %w", httpsAddr, lerr)
		}
		ln = tls.NewListener(baseLn, tlsCfg)

		// Port 80: ACME http-01 challenges + redirect to HTTPS.
		auxSrv = &http.Server{
			Addr:              ":80",
			Handler:           m.HTTPHandler(httpRedirectHandler()),
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		}
		if stdlog, err := zap.NewStdLogAt(logger, zapcore.WarnLevel); err == nil {
			auxSrv.ErrorLog = stdlog
		}
		auxErr = make(chan error, 1)
		go serveAuxiliary(auxSrv, auxErr)
		logger.Info("ACME/redirect server listening", zap.String("addr", auxSrv.Addr))

		logger.Info("HTTPS server listening (Let's Encrypt)",
			zap.String("addr", ln.Addr().String()),
			zap.String("domain", cfg.TLS.Domain))
		go servePrimary(srv, ln, serveErr)

	// --------------------------- Manual TLS certs --------------------------
	default:
		cert, cerr := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if cerr != nil {
			return fmt.Errorf("load TLS keypair: %w", cerr)
		}
		tlsCfg := &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}

		baseLn, lerr := net.Listen("tcp", httpsAddr)
		if lerr != nil {
			return fmt.Errorf("listen https %s: %w", httpsAddr, lerr)
		}
		ln = tls.NewListener(baseLn, tlsCfg)

		logger.Info("HTTPS server listening (manual certs)", zap.String("addr", ln.Addr().String()))
		go servePrimary(srv, ln, serveErr)
	}

	// Block until shutdown signal or serve error.
	select {
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed; forcing close", zap.Error(err))
			_ = srv.Close()
		}
		if auxSrv != nil {
			_ = auxSrv.Shutdown(shutdownCtx)
		}
		return nil

	case err := <-serveErr:
		if auxSrv != nil {
			_ = auxSrv.Close()
		}
		return err

	case err := <-auxErr:
		_ = srv.Close()
		return fmt.Errorf("acme/redirect server: %w", err)
	}
}

func servePrimary(srv *http.Server, ln net.Listener, errCh chan<- error) {
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		errCh <- err
	}
}

func serveAuxiliary(srv *http.Server, errCh chan<- error) {
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		errCh <- err
	}
}

// httpRedirectHandler redirects all plain-HTTP traffic to HTTPS.
func httpRedirectHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := "https://" + r.Host + r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}
