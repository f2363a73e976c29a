// Package server serves the documentation site over HTTP. Page routes come from
// the bootstrapped application; every request mounts a fresh page instance,
// lets it settle and highlight, and answers either with the full layout or,
// for htmx navigation, with the page fragment and an out-of-band sidebar.
//
// In development mode the server also watches the samples override directory
// and pushes reload and navigation events to browsers over a websocket.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/conneroisu/bifrostdocs/internal/config"
	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/logging"
	"github.com/conneroisu/bifrostdocs/internal/routing"
	"github.com/conneroisu/bifrostdocs/internal/shell"
	"github.com/conneroisu/bifrostdocs/internal/watcher"
)

// DocsServer serves the documentation application
type DocsServer struct {
	app     *shell.App
	config  *config.Config
	logger  logging.Logger
	router  chi.Router
	hub     *Hub
	limiter *RateLimiter
	errors  *errors.ErrorCollector
	watcher *watcher.FileWatcher

	mounts atomic.Int64

	httpServer   *http.Server
	serverMutex  sync.RWMutex
	shutdownOnce sync.Once
}

// New creates a server for a bootstrapped application.
func New(app *shell.App) *DocsServer {
	s := &DocsServer{
		app:    app,
		config: app.Config,
		logger: app.Logger.WithComponent("server"),
		hub:    NewHub(app.Logger),
		errors: errors.NewErrorCollector(50),
	}
	if rl := app.Config.Server.RateLimit; rl.Enabled {
		s.limiter = NewRateLimiter(rl.RequestsPerSecond, rl.Burst)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving the site.
func (s *DocsServer) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *DocsServer) Hub() *Hub {
	return s.hub
}

func (s *DocsServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.config.Server.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.securityHeaders)
	r.Use(s.cors)
	if s.limiter != nil {
		r.Use(RateLimitMiddleware(s.limiter))
	}

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Route("/api", func(r chi.Router) {
		r.Get("/nav", s.handleNav)
		r.Get("/pages", s.handlePages)
		r.Get("/stats", s.handleStats)
		r.Get("/errors", s.handleErrors)
	})
	r.Get("/static/highlight.css", s.handleHighlightCSS)
	r.Get("/static/{library}.css", s.handleLibraryCSS)

	for _, module := range s.app.Module.Routing {
		routing.Mount(r, module, s.pageHandler)
	}
	r.NotFound(s.handleNotFound)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *DocsServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *DocsServer) Serve(ctx context.Context, ln net.Listener) error {
	go s.hub.Run(ctx)
	go s.forwardNavEvents(ctx, s.app.Nav.Watch())

	if s.config.Docs.Dev && s.config.Docs.SamplesDir != "" {
		if err := s.watchSamples(ctx); err != nil {
			s.logger.Warn(ctx, err, "Sample watching disabled")
		}
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()
	s.logger.Info(ctx, "Documentation server listening",
		"addr", ln.Addr().String(),
		"dev", s.config.Docs.Dev,
		"routes", len(s.app.Routes()))

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server and cleans up resources
func (s *DocsServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Stopping sample watcher")
			}
		}
		if s.limiter != nil {
			s.limiter.Stop()
		}
		s.hub.CloseAll()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()
		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}
	})

	return shutdownErr
}
