// Package server exposes the render pipeline over HTTP.
//
// The API is deliberately narrower than the CLI: logo options are not
// accepted, so the server never reads local files or fetches URLs on a
// client's behalf. Rendering is deterministic, which makes GET responses
// safely cacheable by clients and proxies.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/qrforge/qrforge/pkg/pipeline"
)

// Server wires the pipeline runner, the optional history store, and the
// router together.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	logger  *log.Logger
	history *HistoryStore
	router  chi.Router
}

// New creates a server around an existing runner. history may be nil, which
// disables the /v1/history endpoint.
func New(cfg Config, runner *pipeline.Runner, history *HistoryStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:     cfg,
		runner:  runner,
		logger:  logger,
		history: history,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// routes builds the router with middleware and all endpoints.
func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/qr", s.handleRenderQuery)
		r.Post("/qr", s.handleRenderJSON)
		r.Post("/verify", s.handleVerify)
		r.Get("/history", s.handleHistory)
	})

	return r
}
