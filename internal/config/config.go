package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/westmarkadvisory/website/internal/validate"
)

// HTTPConfig groups HTTP/HTTPS port, protocol, and timeout settings.
type HTTPConfig struct {
	HTTPPort  int  `mapstructure:"http_port"`
	HTTPSPort int  `mapstructure:"https_port"`
	UseHTTPS  bool `mapstructure:"use_https"`

	ReadTimeout       time.Duration `mapstructure:"-"`
	ReadHeaderTimeout time.Duration `mapstructure:"-"`
	WriteTimeout      time.Duration `mapstructure:"-"`
	IdleTimeout       time.Duration `mapstructure:"-"`
}

// TLSConfig groups TLS / ACME-related settings. Only the http-01 challenge is
// supported; the ACME responder is mounted on port 80 by the server.
type TLSConfig struct {
	CertFile            string `mapstructure:"cert_file"`
	KeyFile             string `mapstructure:"key_file"`
	UseLetsEncrypt      bool   `mapstructure:"use_lets_encrypt"`
	LetsEncryptEmail    string `mapstructure:"lets_encrypt_email"`
	LetsEncryptCacheDir string `mapstructure:"lets_encrypt_cache_dir"`
	Domain              string `mapstructure:"domain"`
}

// CORSConfig groups CORS behavior for the /api subtree.
type CORSConfig struct {
	EnableCORS         bool     `mapstructure:"enable_cors"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	CORSAllowedMethods []string `mapstructure:"cors_allowed_methods"`
	CORSAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	CORSMaxAge         int      `mapstructure:"cors_max_age"`
}

// ContactConfig groups the contact-submission pipeline settings.
type ContactConfig struct {
	// Store selects the submission store backend: "memory", "sqlite", "postgres".
	Store        string `mapstructure:"contact_store"`
	SQLitePath   string `mapstructure:"contact_sqlite_path"`
	PostgresURI  string `mapstructure:"contact_postgres_uri"`

	// NotifyTo, when non-empty together with SMTPHost, enables an email
	// notification to the firm for each accepted submission.
	NotifyTo     string `mapstructure:"contact_notify_to"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	SMTPFrom     string `mapstructure:"smtp_from"`

	// CRMAPIKey enables the CRM forwarder when non-empty. The forwarder is
	// inert by default; the submission path never depends on it succeeding.
	CRMAPIKey  string `mapstructure:"crm_api_key"`
	CRMBaseURL string `mapstructure:"crm_base_url"`

	// Per-IP rate limit on POST /api/contact.
	RateLimit float64 `mapstructure:"contact_rate_limit"`
	RateBurst int     `mapstructure:"contact_rate_burst"`
}

// SiteConfig groups site identity and content settings.
type SiteConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	SiteName   string `mapstructure:"site_name"`
	ContentDir string `mapstructure:"content_dir"` // empty = embedded posts

	// Page cache for rendered HTML.
	CacheBackend  string        `mapstructure:"cache_backend"` // "memory" | "redis" | "none"
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	PageCacheTTL  time.Duration `mapstructure:"-"`

	// AdminAPIKey protects /admin and /metrics. Empty disables those routes.
	AdminAPIKey string `mapstructure:"admin_api_key"`
}

// Config holds the full configuration for the website process.
type Config struct {
	Env      string `mapstructure:"env"`       // "dev" | "prod"
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error …

	HTTP    HTTPConfig    `mapstructure:",squash"`
	TLS     TLSConfig     `mapstructure:",squash"`
	CORS    CORSConfig    `mapstructure:",squash"`
	Contact ContactConfig `mapstructure:",squash"`
	Site    SiteConfig    `mapstructure:",squash"`

	StoreConnectTimeout time.Duration `mapstructure:"-"`
	MaxRequestBodyBytes int64         `mapstructure:"max_request_body_bytes"`
	EnableCompression   bool          `mapstructure:"enable_compression"`
}

// Dump returns a pretty, redacted JSON string of the config for debugging.
// Never logs secrets; use at debug level only.
func (c Config) Dump() string {
	s := c.redactedCopy()
	b, _ := json.MarshalIndent(s, "", "  ")
	return string(b)
}

func (c Config) redactedCopy() Config {
	cp := c
	if cp.Contact.SMTPPassword != "" {
		cp.Contact.SMTPPassword = "[redacted]"
	}
	if cp.Contact.CRMAPIKey != "" {
		cp.Contact.CRMAPIKey = "[redacted]"
	}
	if cp.Site.AdminAPIKey != "" {
		cp.Site.AdminAPIKey = "[redacted]"
	}
	if cp.Site.RedisPassword != "" {
		cp.Site.RedisPassword = "[redacted]"
	}
	return cp
}

// Load merges defaults → config.* file(s) → env vars → explicit flags into one Config.
// Final precedence (highest wins): flags(explicit) > env > config > defaults.
func Load(logger *zap.Logger) (*Config, error) {
	// 0) Optionally load .env (safe: real env still wins over .env)
	if err := godotenv.Load(); err == nil && logger != nil {
		logger.Info("Loaded .env file")
	}

	// 1) Define flags (only *explicitly set* flags will override)
	pflag.String("env", "dev", `Runtime environment "dev"|"prod"`)
	pflag.String("log_level", "debug", "Log level")

	pflag.Int("http_port", 8080, "HTTP port")
	pflag.Int("https_port", 443, "HTTPS port")
	pflag.Bool("use_https", false, "Serve HTTPS")

	// TLS / Let’s Encrypt
	pflag.Bool("use_lets_encrypt", false, "Use Let's Encrypt (http-01)")
	pflag.String("lets_encrypt_email", "", "ACME account e-mail")
	pflag.String("lets_encrypt_cache_dir", "letsencrypt-cache", "ACME cache dir")
	pflag.String("cert_file", "", "TLS cert file (manual TLS)")
	pflag.String("key_file", "", "TLS key file  (manual TLS)")
	pflag.String("domain", "", "Domain for TLS or ACME")

	// Site
	pflag.String("base_url", "http://localhost:8080", "Canonical base URL for sitemap/feed links")
	pflag.String("site_name", "Westmark Advisory", "Site display name")
	pflag.String("content_dir", "", "Directory of blog posts (empty = embedded)")
	pflag.String("cache_backend", "memory", `Page cache backend: "memory"|"redis"|"none"`)
	pflag.String("redis_addr", "", "Redis address for the page cache")
	pflag.String("redis_password", "", "Redis password")
	pflag.Int("redis_db", 0, "Redis DB number")
	pflag.String("page_cache_ttl", "5m", "Rendered-page cache TTL")
	pflag.String("admin_api_key", "", "Static API key for /admin and /metrics (empty disables)")

	// Contact pipeline
	pflag.String("contact_store", "memory", `Submission store: "memory"|"sqlite"|"postgres"`)
	pflag.String("contact_sqlite_path", "contact.db", "SQLite file for the submission store")
	pflag.String("contact_postgres_uri", "", "Postgres URI for the submission store")
	pflag.String("contact_notify_to", "", "Email address notified of new submissions")
	pflag.String("smtp_host", "", "SMTP host for notifications")
	pflag.Int("smtp_port", 587, "SMTP port")
	pflag.String("smtp_username", "", "SMTP username")
	pflag.String("smtp_password", "", "SMTP password")
	pflag.String("smtp_from", "", "From address for notifications")
	pflag.String("crm_api_key", "", "CRM API key (empty keeps the forwarder inert)")
	pflag.String("crm_base_url", "", "CRM API base URL override")
	pflag.Float64("contact_rate_limit", 1, "Contact submissions allowed per second per IP")
	pflag.Int("contact_rate_burst", 5, "Contact submission burst per IP")

	// Timeouts
	pflag.String("store_connect_timeout", "10s", `Startup timeout for store connection (e.g., "10s", "30s")`)

	// misc / CORS
	pflag.Bool("enable_compression", true, "Enable HTTP compression")
	pflag.Bool("enable_cors", false, "Enable CORS on /api")
	pflag.String("cors_allowed_origins", "", `JSON array of origins, e.g. '["https://a.example"]'`)
	pflag.String("cors_allowed_methods", "", `JSON array of methods, e.g. '["GET","POST"]'`)
	pflag.String("cors_allowed_headers", "", `JSON array of headers, e.g. '["Accept","Content-Type"]'`)
	pflag.Int("cors_max_age", 0, "CORS: max age seconds (0 disables cache)")

	pflag.Int64("max_request_body_bytes", 2<<20, "Max HTTP request body size in bytes (0 = unlimited)")
	pflag.Parse()

	// 2) Viper + env
	v := viper.New()
	v.SetEnvPrefix("WESTMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bind env for all keys so Unmarshal sees them.
	for _, k := range allKeys() {
		_ = v.BindEnv(k)
	}

	// 3) Optional config.* files (yaml|yml|json|toml)
	for _, ext := range [...]string{"yaml", "yml", "json", "toml"} {
		file := "config." + ext
		if _, err := os.Stat(file); err != nil {
			continue
		}
		b, err := os.ReadFile(file)
		if err != nil {
			if logger != nil {
				logger.Warn("cannot read config file", zap.String("file", file), zap.Error(err))
			}
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			if logger != nil {
				logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			}
			continue
		}
		if logger != nil {
			logger.Info("Loaded config file", zap.String("file", file))
		}
	}

	// 4) Defaults (lowest precedence)
	setDefaults(v)

	// 5) Apply *explicit* flags (highest precedence)
	pflag.CommandLine.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = v.BindPFlag(f.Name, f)
		}
	})

	// 6) Normalize list keys (accept JSON strings → []string)
	if err := normalizeListKeys(logger, v,
		"cors_allowed_origins",
		"cors_allowed_methods",
		"cors_allowed_headers",
	); err != nil {
		return nil, err
	}

	// 7) Build struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse durations
	storeDur, err := parseDurationFlexible(v.Get("store_connect_timeout"), 10*time.Second)
	if err != nil && logger != nil {
		logger.Warn("invalid store_connect_timeout; using default 10s",
			zap.Any("value", v.Get("store_connect_timeout")), zap.Error(err))
	}
	cfg.StoreConnectTimeout = storeDur

	ttl, err := parseDurationFlexible(v.Get("page_cache_ttl"), 5*time.Minute)
	if err != nil && logger != nil {
		logger.Warn("invalid page_cache_ttl; using default 5m",
			zap.Any("value", v.Get("page_cache_ttl")), zap.Error(err))
	}
	cfg.Site.PageCacheTTL = ttl

	// Server timeouts are not operator-tunable; these values suit a site that
	// serves small pages and one small JSON endpoint.
	cfg.HTTP.ReadTimeout = 10 * time.Second
	cfg.HTTP.ReadHeaderTimeout = 5 * time.Second
	cfg.HTTP.WriteTimeout = 30 * time.Second
	cfg.HTTP.IdleTimeout = 120 * time.Second

	// 8) Validate
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func allKeys() []string {
	return []string{
		"env", "log_level",
		"http_port", "https_port", "use_https",
		"use_lets_encrypt", "lets_encrypt_email", "lets_encrypt_cache_dir",
		"cert_file", "key_file", "domain",
		"base_url", "site_name", "content_dir",
		"cache_backend", "redis_addr", "redis_password", "redis_db",
		"page_cache_ttl", "admin_api_key",
		"contact_store", "contact_sqlite_path", "contact_postgres_uri",
		"contact_notify_to",
		"smtp_host", "smtp_port", "smtp_username", "smtp_password", "smtp_from",
		"crm_api_key", "crm_base_url",
		"contact_rate_limit", "contact_rate_burst",
		"store_connect_timeout",
		"enable_compression",
		"enable_cors",
		"cors_allowed_origins", "cors_allowed_methods", "cors_allowed_headers",
		"cors_max_age",
		"max_request_body_bytes",
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "debug")

	v.SetDefault("http_port", 8080)
	v.SetDefault("https_port", 443)
	v.SetDefault("use_https", false)

	v.SetDefault("use_lets_encrypt", false)
	v.SetDefault("lets_encrypt_email", "")
	v.SetDefault("lets_encrypt_cache_dir", "letsencrypt-cache")
	v.SetDefault("cert_file", "")
	v.SetDefault("key_file", "")
	v.SetDefault("domain", "")

	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("site_name", "Westmark Advisory")
	v.SetDefault("content_dir", "")
	v.SetDefault("cache_backend", "memory")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("page_cache_ttl", "5m")
	v.SetDefault("admin_api_key", "")

	v.SetDefault("contact_store", "memory")
	v.SetDefault("contact_sqlite_path", "contact.db")
	v.SetDefault("contact_postgres_uri", "")
	v.SetDefault("contact_notify_to", "")
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_username", "")
	v.SetDefault("smtp_password", "")
	v.SetDefault("smtp_from", "")
	v.SetDefault("crm_api_key", "")
	v.SetDefault("crm_base_url", "")
	v.SetDefault("contact_rate_limit", float64(1))
	v.SetDefault("contact_rate_burst", 5)

	v.SetDefault("store_connect_timeout", "10s")

	v.SetDefault("enable_compression", true)

	// Neutral CORS defaults
	v.SetDefault("enable_cors", false)
	v.SetDefault("cors_allowed_origins", []string{})
	v.SetDefault("cors_allowed_methods", []string{})
	v.SetDefault("cors_allowed_headers", []string{})
	v.SetDefault("cors_max_age", 0)

	v.SetDefault("max_request_body_bytes", int64(2<<20))
}

// normalizeListKeys coerces JSON-string values into []string for the given keys.
func normalizeListKeys(logger *zap.Logger, v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		val := v.Get(key)
		switch t := val.(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				continue
			}
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err != nil {
				return fmt.Errorf("config key %q expects a JSON array string, got %q: %w", key, s, err)
			}
			v.Set(key, arr)
		case []interface{}:
			arr := make([]string, 0, len(t))
			for _, e := range t {
				arr = append(arr, fmt.Sprint(e))
			}
			v.Set(key, arr)
		case []string, nil:
			// already correct or unset
		default:
			if logger != nil {
				logger.Warn("unexpected type for list key; expected JSON array/string",
					zap.String("key", key), zap.Any("value", t))
			}
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	var missing []string
	var invalid []string

	// TLS / ACME consistency
	if cfg.TLS.UseLetsEncrypt && !cfg.HTTP.UseHTTPS {
		invalid = append(invalid, "use_lets_encrypt=true requires use_https=true")
	}
	if cfg.TLS.UseLetsEncrypt && (strings.TrimSpace(cfg.TLS.CertFile) != "" || strings.TrimSpace(cfg.TLS.KeyFile) != "") {
		invalid = append(invalid, "use_lets_encrypt=true cannot be combined with cert_file/key_file")
	}
	if cfg.TLS.UseLetsEncrypt {
		if strings.TrimSpace(cfg.TLS.Domain) == "" {
			missing = append(missing, "WESTMARK_DOMAIN (or --domain) for Let's Encrypt")
		}
		if s := strings.TrimSpace(cfg.TLS.LetsEncryptEmail); s == "" {
			missing = append(missing, "WESTMARK_LETS_ENCRYPT_EMAIL (or --lets_encrypt_email)")
		} else if !validate.SimpleEmailValid(s) {
			invalid = append(invalid, "lets_encrypt_email must look like an email address")
		}
	}

	// Manual TLS requirements
	if cfg.HTTP.UseHTTPS && !cfg.TLS.UseLetsEncrypt {
		if strings.TrimSpace(cfg.TLS.CertFile) == "" || strings.TrimSpace(cfg.TLS.KeyFile) == "" {
			missing = append(missing, "WESTMARK_CERT_FILE and WESTMARK_KEY_FILE (or --cert_file/--key_file) for manual TLS")
		}
	}

	// Port sanity
	if cfg.HTTP.HTTPPort <= 0 || cfg.HTTP.HTTPPort > 65535 {
		invalid = append(invalid, "http_port must be in 1..65535")
	}
	if cfg.HTTP.HTTPSPort <= 0 || cfg.HTTP.HTTPSPort > 65535 {
		invalid = append(invalid, "https_port must be in 1..65535")
	}
	if cfg.HTTP.UseHTTPS {
		if cfg.HTTP.HTTPPort == cfg.HTTP.HTTPSPort {
			invalid = append(invalid, "http_port and https_port cannot be equal when use_https=true")
		}
		if cfg.HTTP.HTTPSPort == 80 {
			invalid = append(invalid, "https_port cannot be 80; port 80 is used by the ACME/redirect server")
		}
	}

	// Store selection
	switch cfg.Contact.Store {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(cfg.Contact.SQLitePath) == "" {
			missing = append(missing, "contact_sqlite_path for contact_store=sqlite")
		}
	case "postgres":
		if strings.TrimSpace(cfg.Contact.PostgresURI) == "" {
			missing = append(missing, "WESTMARK_CONTACT_POSTGRES_URI for contact_store=postgres")
		}
	default:
		invalid = append(invalid, `contact_store must be "memory", "sqlite", or "postgres"`)
	}

	// Notification requires a complete SMTP block
	if cfg.Contact.NotifyTo != "" {
		if strings.TrimSpace(cfg.Contact.SMTPHost) == "" {
			missing = append(missing, "smtp_host when contact_notify_to is set")
		}
		if strings.TrimSpace(cfg.Contact.SMTPFrom) == "" {
			missing = append(missing, "smtp_from when contact_notify_to is set")
		} else if !validate.SimpleEmailValid(cfg.Contact.SMTPFrom) {
			invalid = append(invalid, "smtp_from must look like an email address")
		}
		for _, addr := range strings.Split(cfg.Contact.NotifyTo, ",") {
			if a := strings.TrimSpace(addr); a != "" && !validate.SimpleEmailValid(a) {
				invalid = append(invalid, fmt.Sprintf("contact_notify_to entry %q must look like an email address", a))
			}
		}
	}

	// Cache backend
	switch cfg.Site.CacheBackend {
	case "memory", "none":
	case "redis":
		if strings.TrimSpace(cfg.Site.RedisAddr) == "" {
			missing = append(missing, "WESTMARK_REDIS_ADDR for cache_backend=redis")
		}
	default:
		invalid = append(invalid, `cache_backend must be "memory", "redis", or "none"`)
	}

	// Rate limit sanity
	if cfg.Contact.RateLimit <= 0 {
		invalid = append(invalid, "contact_rate_limit must be > 0")
	}
	if cfg.Contact.RateBurst <= 0 {
		invalid = append(invalid, "contact_rate_burst must be > 0")
	}

	// CORS sanity
	if cfg.CORS.EnableCORS {
		if len(cfg.CORS.CORSAllowedOrigins) == 0 {
			missing = append(missing, "CORS: cors_allowed_origins (JSON array) required when enable_cors=true")
		}
		if len(cfg.CORS.CORSAllowedMethods) == 0 {
			missing = append(missing, "CORS: cors_allowed_methods (JSON array) required when enable_cors=true")
		}
		if cfg.CORS.CORSMaxAge < 0 {
			invalid = append(invalid, "CORS: cors_max_age must be >= 0")
		}
	}

	if cfg.StoreConnectTimeout <= 0 {
		invalid = append(invalid, "store_connect_timeout must be > 0")
	}

	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(invalid, ", "))
	}
	return fmt.Errorf("configuration errors: %s", strings.Join(parts, " | "))
}
