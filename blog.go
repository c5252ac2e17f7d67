// Package blog serves a blog index and individual post pages built with
// Echo and templ. Every page carries SEO metadata: canonical URLs, Open
// Graph properties and Schema.org JSON-LD.
//
// Callers provide their own templ components through ViewFuncs and a
// PostSource for content; the package owns routing, middleware and the
// metadata derived for each request.
package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the handlers render. Each receives
// the Page for the response; Page.Attributes gives the flattened values.
type ViewFuncs struct {
	Index       func(p Page) templ.Component
	Post        func(p Page) templ.Component
	NotFound    func(p Page) templ.Component
	ServerError func(p Page) templ.Component
}

// App wires the configuration, post source, views and Echo server.
type App struct {
	Config Config
	Echo   *echo.Echo
	Posts  PostSource
	Views  ViewFuncs
	URLs   URLBuilder

	log          *slog.Logger
	customRoutes []func(*App)
	staticDir    string
}

// New creates an App with middleware and routes registered. The server is
// not started until Start is called, so a.Echo can serve httptest requests.
func New(cfg Config, posts PostSource, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Posts:     posts,
		Views:     views,
		URLs:      cfg.URLBuilder(),
		log:       slog.Default(),
		staticDir: cfg.Server.StaticDir,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a
}

// Start listens on Config.Server.Addr until the server is shut down.
func (a *App) Start() error {
	a.log.Info("server starting", "addr", a.Config.Server.Addr, "env", a.Config.Env)
	if err := a.Echo.Start(a.Config.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("blog: start server: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", handleHealth)

	e.GET("/", handleRootRedirect)
	e.GET("/blog", a.handleIndex)
	e.GET("/blog/:slug", a.handlePost)
}
