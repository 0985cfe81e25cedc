// Package spacetraveling is a server-rendered blog front-end for a headless
// content repository, built with Go, Echo, and templ.
//
// It renders a paginated listing with load-more, article pages with a
// reading-time estimate, and keeps rendered article pages fresh with a
// stale-while-revalidate page cache backed by SQLite snapshots.
package spacetraveling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/marcelafreire/desafio-spacetraveling/prismic"
	"github.com/marcelafreire/desafio-spacetraveling/views"
)

const (
	rateLimitMax    = 60
	rateLimitWindow = time.Minute
)

// App is the central spacetraveling application. It wires together the
// content repository, page cache, snapshot store, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Repo   *Repository
	Cache  *PageCache
	Store  *Store
	Logger *slog.Logger

	client    ContentClient
	policy    LoadMorePolicy
	locale    language.Tag
	limiter   *RateLimiter
	staticDir string
	now       func() time.Time
}

// New creates an App from cfg. Routes and middleware are registered, so the
// returned App can serve requests through Echo right away; Start adds the
// snapshot store and begins listening.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = NewLogger(cfg.Environment, cfg.LogLevel)
	}

	mode, err := ParseFailureMode(cfg.LoadMorePolicy)
	if err != nil {
		return nil, fmt.Errorf("spacetraveling: %w", err)
	}
	a.policy = LoadMorePolicy{Mode: mode, Retries: cfg.LoadMoreRetries, Backoff: 200 * time.Millisecond}

	if a.client == nil {
		if cfg.PrismicEndpoint == "" {
			return nil, errors.New("spacetraveling: PrismicEndpoint is required")
		}
		client, err := prismic.New(cfg.PrismicEndpoint,
			prismic.WithAccessToken(cfg.PrismicAccessToken),
			prismic.WithTimeout(cfg.ContentTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("spacetraveling: %w", err)
		}
		a.client = client
	}

	a.locale = MatchLocale(cfg.Locale)
	a.Config.Locale = a.locale.String()
	a.Repo = NewRepository(a.client, cfg.PageSize)
	a.Cache = NewPageCache(a.renderPost, nil, cfg.Revalidate, a.Logger)
	a.Cache.timeout = cfg.ContentTimeout
	a.Cache.now = a.now
	a.limiter = NewRateLimiter(rateLimitMax, rateLimitWindow)

	a.Echo.HideBanner = true
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// Start opens the snapshot store, warms the page cache, pre-renders the
// static paths that have no snapshot and serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("spacetraveling: init store: %w", err)
	}
	a.Store = store
	a.Cache.store = store

	n, err := a.Cache.Warm(ctx)
	if err != nil {
		return fmt.Errorf("spacetraveling: warm page cache: %w", err)
	}
	a.Logger.InfoContext(ctx, "page cache warmed", "snapshots", n)

	if err := a.Prerender(ctx); err != nil {
		// Pages still render on demand through the fallback route.
		a.Logger.ErrorContext(ctx, "pre-render failed", "error", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("shutdown failed", "error", err)
		}
	}()

	a.Logger.InfoContext(ctx, "listening", "addr", a.Config.Addr, "policy", a.policy.Mode.String())
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Prerender renders every static path that the cache does not hold yet.
// A malformed document stops the pass and is returned.
func (a *App) Prerender(ctx context.Context) error {
	uids, err := a.Repo.StaticPaths(ctx)
	if err != nil {
		return err
	}
	rendered := 0
	for _, uid := range uids {
		if a.Cache.Has(uid) {
			continue
		}
		if _, err := a.Cache.Render(ctx, uid); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}
		rendered++
	}
	a.Logger.InfoContext(ctx, "static paths pre-rendered", "paths", len(uids), "rendered", rendered)
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets (app.js, app.css, logo.svg) under /public/.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.StaticFS("/public", embeddedFS)

	// User's static assets
	if a.staticDir != "" {
		e.Static("/static", a.staticDir)
	}
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/healthz", handleHealth)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/posts/more", a.handleMore, a.limiter.Middleware)
	e.GET("/post/:uid", a.handlePost, a.limitFallback)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	a.limiter.Stop()
	a.Cache.Wait()
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Locale:      a.Config.Locale,
	}
}

// Listing starts a listing session from the first page, using the
// configured load-more policy.
func (a *App) Listing(ctx context.Context) (*Listing, error) {
	first, err := a.Repo.HomePage(ctx)
	if err != nil {
		return nil, err
	}
	return NewListing(first, a.Repo, a.policy, a.Logger), nil
}
