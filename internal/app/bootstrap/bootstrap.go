// Package bootstrap wires configuration, backends, content, and routes into
// the running website process.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/app"
	"github.com/westmarkadvisory/website/internal/auth/apikey"
	"github.com/westmarkadvisory/website/internal/cache"
	"github.com/westmarkadvisory/website/internal/config"
	"github.com/westmarkadvisory/website/internal/contact"
	"github.com/westmarkadvisory/website/internal/content"
	"github.com/westmarkadvisory/website/internal/email"
	"github.com/westmarkadvisory/website/internal/metrics"
	"github.com/westmarkadvisory/website/internal/ratelimit"
	"github.com/westmarkadvisory/website/internal/router"
	"github.com/westmarkadvisory/website/internal/web"
)

// Backends bundles everything ConnectBackends sets up.
type Backends struct {
	Store   contact.Store
	Cache   cache.Cache // nil when cache_backend is "none"
	Library *content.Library
}

// Hooks returns the app hooks for the website.
func Hooks() app.Hooks[*Backends] {
	return app.Hooks[*Backends]{
		Name:            "westmark-website",
		LoadConfig:      config.Load,
		ConnectBackends: connectBackends,
		CloseBackends:   closeBackends,
		BuildHandler:    buildHandler,
	}
}

func connectBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backends, error) {
	storeCtx, cancel := context.WithTimeout(ctx, cfg.StoreConnectTimeout)
	defer cancel()

	store, err := openStore(storeCtx, cfg, logger)
	if err != nil {
		return nil, err
	}

	pageCache, err := openCache(cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	lib, err := loadContent(cfg, logger)
	if err != nil {
		store.Close()
		if pageCache != nil {
			pageCache.Close()
		}
		return nil, err
	}

	return &Backends{Store: store, Cache: pageCache, Library: lib}, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (contact.Store, error) {
	switch cfg.Contact.Store {
	case "memory":
		logger.Info("using in-memory submission store")
		return contact.NewMemoryStore(), nil
	case "sqlite":
		logger.Info("using sqlite submission store", zap.String("path", cfg.Contact.SQLitePath))
		return contact.NewSQLiteStore(ctx, cfg.Contact.SQLitePath)
	case "postgres":
		logger.Info("using postgres submission store")
		return contact.NewPostgresStore(ctx, cfg.Contact.PostgresURI)
	default:
		return nil, fmt.Errorf("bootstrap: unknown contact store %q", cfg.Contact.Store)
	}
}

func openCache(cfg *config.Config, logger *zap.Logger) (cache.Cache, error) {
	switch cfg.Site.CacheBackend {
	case "none":
		return nil, nil
	case "memory":
		logger.Info("using in-memory page cache")
		return cache.NewMemory(), nil
	case "redis":
		logger.Info("using redis page cache", zap.String("addr", cfg.Site.RedisAddr))
		return cache.NewRedis(cache.RedisConfig{
			Address:   cfg.Site.RedisAddr,
			Password:  cfg.Site.RedisPassword,
			DB:        cfg.Site.RedisDB,
			KeyPrefix: "westmark:pages:",
		})
	default:
		return nil, fmt.Errorf("bootstrap: unknown cache backend %q", cfg.Site.CacheBackend)
	}
}

func loadContent(cfg *config.Config, logger *zap.Logger) (*content.Library, error) {
	if dir := cfg.Site.ContentDir; dir != "" {
		logger.Info("loading posts from directory", zap.String("dir", dir))
		return content.Load(os.DirFS(dir), ".")
	}
	logger.Info("loading embedded posts")
	return content.Load(content.DefaultPosts, content.DefaultPostsDir)
}

func closeBackends(b *Backends, logger *zap.Logger) {
	if b == nil {
		return
	}
	if err := b.Store.Close(); err != nil {
		logger.Warn("close submission store", zap.Error(err))
	}
	if b.Cache != nil {
		if err := b.Cache.Close(); err != nil {
			logger.Warn("close page cache", zap.Error(err))
		}
	}
}

func buildHandler(cfg *config.Config, b *Backends, logger *zap.Logger) (http.Handler, error) {
	r := router.New(cfg, logger)

	svc := contact.NewService(b.Store, logger, serviceOptions(cfg, logger)...)
	contactHandler := contact.NewHandler(svc, logger)

	pages := web.NewPages(b.Library, cfg.Site.SiteName, cfg.Site.BaseURL, logger)

	sitemap, err := content.SitemapHandler(cfg.Site.BaseURL, b.Library)
	if err != nil {
		return nil, err
	}
	feed, err := content.FeedHandler(cfg.Site.BaseURL, cfg.Site.SiteName, b.Library)
	if err != nil {
		return nil, err
	}

	// Public pages, cached when a page cache is configured. Dev runs skip
	// the cache so content edits show up on refresh.
	r.Group(func(r chi.Router) {
		if b.Cache != nil && cfg.Env != "dev" {
			r.Use(cache.Middleware(b.Cache, cache.MiddlewareConfig{
				TTL:       cfg.Site.PageCacheTTL,
				KeyPrefix: "page:",
			}))
		}
		r.Get("/", pages.Home)
		r.Get("/services", pages.Services)
		r.Get("/blog", pages.Blog)
		r.Get("/blog/{slug}", pages.BlogPost(func(req *http.Request) string {
			return chi.URLParam(req, "slug")
		}))
		r.Get("/contact", pages.Contact)
		r.Get("/sitemap.xml", sitemap)
		r.Get("/feed.xml", feed)
	})

	r.Handle("/static/*", web.StaticHandler())
	r.Get("/health", web.Health)

	// API
	r.Route("/api", func(r chi.Router) {
		if cfg.CORS.EnableCORS {
			r.Use(router.CORS(cfg))
		}
		r.With(ratelimit.PerIP(cfg.Contact.RateLimit, cfg.Contact.RateBurst, logger)).
			Post("/contact", contactHandler.Submit)
	})

	// Operator surface, only when a key is configured.
	if cfg.Site.AdminAPIKey != "" {
		admin := contact.NewAdminHandler(svc, logger)
		requireKey := apikey.Require(cfg.Site.AdminAPIKey, apikey.Options{Realm: "westmark-admin"}, logger)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireKey)
			r.Get("/contacts", admin.List)
			r.Get("/contacts/export", admin.Export)
			r.Post("/contacts/{id}/read", admin.MarkRead)
		})
		r.With(requireKey).Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	return r, nil
}

func serviceOptions(cfg *config.Config, logger *zap.Logger) []contact.ServiceOption {
	var opts []contact.ServiceOption

	if cfg.Contact.SMTPHost != "" && cfg.Contact.NotifyTo != "" {
		sender := email.NewSender(email.Config{
			Host:        cfg.Contact.SMTPHost,
			Port:        cfg.Contact.SMTPPort,
			Username:    cfg.Contact.SMTPUsername,
			Password:    cfg.Contact.SMTPPassword,
			FromAddress: cfg.Contact.SMTPFrom,
			FromName:    cfg.Site.SiteName,
		})
		to := splitAddrs(cfg.Contact.NotifyTo)
		logger.Info("submission email notification enabled", zap.Strings("to", to))
		opts = append(opts, contact.WithNotifier(contact.NewEmailNotifier(sender, to)))
	}

	if cfg.Contact.CRMAPIKey != "" {
		logger.Info("CRM forwarding enabled")
		opts = append(opts, contact.WithForwarder(
			contact.NewHubSpotForwarder(cfg.Contact.CRMAPIKey, cfg.Contact.CRMBaseURL, logger)))
	}

	return opts
}

func splitAddrs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
