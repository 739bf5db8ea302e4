// Package web provides the HTTP API and summary page for job listing insights.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/jobinsights/internal/config"
	"github.com/JonMunkholm/jobinsights/internal/jobs"
	"github.com/JonMunkholm/jobinsights/internal/source"
	webmw "github.com/JonMunkholm/jobinsights/internal/web/middleware"
)

// Server is the HTTP server over a single record source.
type Server struct {
	source  jobs.Source
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *webmw.RateLimiter

	drained   chan struct{}
	drainOnce sync.Once
}

// NewServer creates a Server reading from src. Requests without a path
// parameter use cfg.Source.Path; for postgres and s3 sources the path must
// also be on cfg.Source.AllowedPaths.
func NewServer(src jobs.Source, cfg *config.Config) *Server {
	s := &Server{
		source:  source.Restrict(src, cfg.Source),
		cfg:     cfg,
		router:  chi.NewRouter(),
		drained: make(chan struct{}),
	}
	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	if cfg.Rate.Enabled {
		s.limiter = webmw.NewRateLimiter(cfg.Rate.RequestsPerMinute, time.Minute)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if len(s.cfg.Security.TrustedProxies) > 0 {
		s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	}
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(webmw.SecurityHeaders(s.cfg.Security.EnableCSP))

	if s.limiter != nil {
		s.router.Use(s.limiter.Middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/jobs", s.handleJobsPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(webmw.APIKeyAuth(s.cfg.Security))

		r.Get("/industries", s.handleIndustries)
		r.Get("/salary/max", s.handleMaxSalary)
		r.Get("/salary/min", s.handleMinSalary)
		r.Get("/jobs", s.handleJobs)
	})
}

// Start listens on the configured address until Shutdown is called. It
// returns once in-flight requests have drained.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.server.RegisterOnShutdown(cancel)
	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}

	slog.Info("server listening", "addr", ln.Addr().String())
	err := s.server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-s.drained
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.drainOnce.Do(func() { close(s.drained) })
	return err
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
