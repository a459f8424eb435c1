// Package server exposes a read-only status API over the job queue manager:
// current queue contents, the persisted job history, health, and Prometheus
// metrics.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/slurmq/internal/journal"
	"github.com/me/slurmq/internal/metrics"
	"github.com/me/slurmq/internal/queue"
)

// Server is the slurmq status API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	manager   *queue.Manager
	history   journal.Store      // optional; /history 404s without it
	collector *metrics.Collector // optional; /metrics 404s without it
	startTime time.Time
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithHistory exposes the persisted job journal under /history.
func WithHistory(store journal.Store) Option {
	return func(s *Server) { s.history = store }
}

// WithMetrics exposes the Prometheus collector under /metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.collector = c }
}

// New creates a Server with all routes registered.
func New(mgr *queue.Manager, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		manager:   mgr,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves the API on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("status API listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handleListJobs)
			r.Get("/{id}", s.handleGetJob)
		})

		if s.history != nil {
			r.Route("/history", func(r chi.Router) {
				r.Get("/", s.handleListHistory)
				r.Get("/{id}", s.handleGetHistory)
			})
		}
	})

	if s.collector != nil {
		r.Handle("/metrics", s.collector.Handler())
	}
}
