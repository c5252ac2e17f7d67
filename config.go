package blog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SiteConfig holds the read-only, site-wide blog settings shared by every page.
type SiteConfig struct {
	Title         string        `yaml:"title"`
	Description   string        `yaml:"description"`
	PublisherName string        `yaml:"publisher_name"` // optional, Title is used when empty
	PublisherURL  string        `yaml:"publisher_url"`
	MediumURL     string        `yaml:"medium_url"` // optional external mirror
	Disqus        DisqusConfig  `yaml:"disqus"`
	SocialSharing SharingConfig `yaml:"social_sharing"`
}

// DisqusConfig enables the Disqus comment widget on post pages.
type DisqusConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Shortname string `yaml:"shortname"`
}

// SharingConfig enables social sharing links on post pages.
type SharingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ServerConfig controls the HTTP listener and URL resolution.
type ServerConfig struct {
	Addr       string `yaml:"addr"`        // default ":3000"
	BaseURL    string `yaml:"base_url"`    // fallback when the request carries no host
	TrustProxy *bool  `yaml:"trust_proxy"` // honour X-Forwarded-* headers (default: true unless base_url is set)
	StaticDir  string `yaml:"static_dir"`  // default "public"
}

// ContentConfig selects where posts come from.
type ContentConfig struct {
	Source   string        `yaml:"source"` // "files" (default) or "database"
	Dir      string        `yaml:"dir"`    // default "content/blog"
	Watch    bool          `yaml:"watch"`
	CacheTTL time.Duration `yaml:"cache_ttl"` // default 5m
}

// DatabaseConfig configures the SQL post store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" (default) or "pgx"
	DSN    string `yaml:"dsn"`    // default "data/blog.db"
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level     string `yaml:"level"`  // debug|info|warn|error
	Format    string `yaml:"format"` // text|json, derived from Env when empty
	SentryDSN string `yaml:"sentry_dsn"`
}

// Config is the full process configuration. It is loaded once at startup
// and never mutated afterwards.
type Config struct {
	Env      string         `yaml:"env"` // development|production
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	Content  ContentConfig  `yaml:"content"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// LoadConfig reads .env (if any), the YAML file at path (if non-empty) and
// environment overrides, then applies defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	envString(&c.Env, "APP_ENV")
	envString(&c.Site.Title, "BLOG_TITLE")
	envString(&c.Site.Description, "BLOG_DESCRIPTION")
	envString(&c.Site.PublisherName, "BLOG_PUBLISHER_NAME")
	envString(&c.Site.PublisherURL, "BLOG_PUBLISHER_URL")
	envString(&c.Site.MediumURL, "BLOG_MEDIUM_URL")
	if v := os.Getenv("BLOG_DISQUS_SHORTNAME"); v != "" {
		c.Site.Disqus.Shortname = v
		c.Site.Disqus.Enabled = true
	}
	envBool(&c.Site.SocialSharing.Enabled, "BLOG_SOCIAL_SHARING")
	envString(&c.Server.Addr, "BLOG_ADDR")
	envString(&c.Server.BaseURL, "BLOG_BASE_URL")
	envString(&c.Content.Source, "BLOG_CONTENT_SOURCE")
	envString(&c.Content.Dir, "BLOG_CONTENT_DIR")
	envString(&c.Database.Driver, "BLOG_DB_DRIVER")
	envString(&c.Database.DSN, "BLOG_DB_DSN")
	envString(&c.Log.Level, "LOG_LEVEL")
	envString(&c.Log.SentryDSN, "SENTRY_DSN")
}

func (c *Config) setDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.TrustProxy == nil {
		// With a configured base URL the app is often exposed directly, where
		// forwarded headers come from clients and would poison cached pages.
		trust := strings.TrimSpace(c.Server.BaseURL) == ""
		c.Server.TrustProxy = &trust
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = "public"
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	if c.Content.Source == "" {
		c.Content.Source = "files"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "content/blog"
	}
	if c.Content.CacheTTL == 0 {
		c.Content.CacheTTL = 5 * time.Minute
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "data/blog.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
		if c.IsProduction() {
			c.Log.Format = "json"
		}
	}
}

// Validate reports configuration values the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.Content.Source {
	case "files", "database":
	default:
		errs = append(errs, fmt.Errorf("content.source must be files or database, got %q", c.Content.Source))
	}
	switch c.Database.Driver {
	case "sqlite", "pgx":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be sqlite or pgx, got %q", c.Database.Driver))
	}
	if c.Site.Disqus.Enabled && c.Site.Disqus.Shortname == "" {
		errs = append(errs, errors.New("site.disqus.shortname is required when disqus is enabled"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// URLBuilder returns the request URL builder configured for this server.
func (c Config) URLBuilder() URLBuilder {
	return URLBuilder{
		TrustProxy:  c.Server.TrustProxy == nil || *c.Server.TrustProxy,
		FallbackURL: c.Server.BaseURL,
	}
}

// publisherName returns the organisation name used in structured data.
func (s SiteConfig) publisherName() string {
	if s.PublisherName != "" {
		return s.PublisherName
	}
	return s.Title
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the directory for static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envBool(dst *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, ignoring", "key", key, "value", v)
		return
	}
	*dst = b
}
