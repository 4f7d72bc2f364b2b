package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sandevgo/musage/internal/config"
	"github.com/sandevgo/musage/internal/core"
	"github.com/sandevgo/musage/pkg/log"
)

// Server exposes the dialogue as a small JSON API.
type Server struct {
	cfg      *config.HTTPConfig
	dialogue core.Dialogue
	router   core.CmdRouter
	stats    core.StatsProvider
	mux      *chi.Mux
	srv      *http.Server
}

func NewServer(
	cfg *config.HTTPConfig,
	dialogue core.Dialogue,
	router core.CmdRouter,
	stats core.StatsProvider,
) *Server {
	s := &Server{
		cfg:      cfg,
		dialogue: dialogue,
		router:   router,
		stats:    stats,
		mux:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Use(middleware.RequestID, middleware.Recoverer)

	s.mux.Get("/healthz", s.handleHealth)
	s.mux.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Post("/{id}/messages", s.handleMessage)
		r.Get("/{id}/stats", s.handleStats)
		r.Delete("/{id}", s.handleReset)
	})
}

// Handler returns the routed handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(ctx context.Context) error {
	ctx = log.WithComponent(ctx, "http")
	logger := log.FromCtx(ctx)

	s.srv = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      withLogger(ctx, s.mux),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	logger.Info().Str("addr", s.cfg.Addr).Msg("starting http server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve http: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// withLogger puts a request-scoped logger carrying the request id into the
// request context.
func withLogger(base context.Context, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := log.FromCtx(base).With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}
