package spacetraveling

import (
	"log/slog"
	"time"
)

// SiteConfig holds all configuration for a spacetraveling site.
type SiteConfig struct {
	PrismicEndpoint    string `mapstructure:"PRISMIC_API_ENDPOINT"` // Required: content API endpoint
	PrismicAccessToken string `mapstructure:"PRISMIC_ACCESS_TOKEN"`

	Name        string `mapstructure:"SITE_NAME"`        // Site name (default "spacetraveling")
	URL         string `mapstructure:"SITE_URL"`         // Canonical URL (default "http://localhost:3000")
	Description string `mapstructure:"SITE_DESCRIPTION"` // Site description for RSS and meta tags
	Locale      string `mapstructure:"SITE_LOCALE"`      // Date and label locale (default "pt-BR")

	Addr         string `mapstructure:"ADDR"`                   // Listen address (default ":3000")
	DatabasePath string `mapstructure:"SNAPSHOT_DATABASE_PATH"` // SQLite path (default "data/pages.db")

	PageSize       int           `mapstructure:"POSTS_PAGE_SIZE"` // Listing page size (default 2)
	Revalidate     time.Duration `mapstructure:"PAGE_REVALIDATE"` // Rendered page freshness (default 30min)
	ContentTimeout time.Duration `mapstructure:"CONTENT_TIMEOUT"` // Content API timeout (default 10s)

	LoadMorePolicy  string `mapstructure:"LOAD_MORE_POLICY"`  // silent, surface or retry (default surface)
	LoadMoreRetries int    `mapstructure:"LOAD_MORE_RETRIES"` // Extra attempts for retry (default 2)

	Environment string `mapstructure:"ENVIRONMENT"` // development or production
	LogLevel    string `mapstructure:"LOG_LEVEL"`   // debug, info, warn, error
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "spacetraveling"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Locale == "" {
		c.Locale = "pt-BR"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pages.db"
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.Revalidate == 0 {
		c.Revalidate = 30 * time.Minute
	}
	if c.ContentTimeout == 0 {
		c.ContentTimeout = 10 * time.Second
	}
	if c.LoadMorePolicy == "" {
		c.LoadMorePolicy = FailSurface.String()
	}
	if c.LoadMoreRetries < 0 {
		c.LoadMoreRetries = 0
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithStaticDir serves user-owned static assets from dir under /static.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithContentClient replaces the content client built from the endpoint.
func WithContentClient(client ContentClient) Option {
	return func(a *App) {
		a.client = client
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.Logger = logger
	}
}

// WithClock overrides the time source used by the page cache.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
