// Package server exposes the palette service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"monochrome/internal/auth"
	"monochrome/internal/config"
	"monochrome/internal/service"
	"monochrome/internal/ui"
)

// Server serves the palette API for authenticated users.
type Server struct {
	Config *config.Config
	svc    *service.Service
	users  *auth.UserStore
	router chi.Router
	stats  *Stats
}

// NewServer wires the routes for svc behind the users store.
func NewServer(cfg *config.Config, svc *service.Service, users *auth.UserStore) *Server {
	s := &Server{Config: cfg, svc: svc, users: users, stats: newStats()}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	allowedOrigin := ""
	if s.Config.Env != nil {
		allowedOrigin = s.Config.Env.AllowedOrigin
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.stats))

	r.Get("/healthz", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(corsMiddleware(allowedOrigin))

		r.Get("/picker.css", s.handlePickerStyles)
		r.Get("/stats", s.handleStats)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(s.users))

			r.Get("/palette", s.handleGetPalette)
			r.Post("/palette", s.handleSetBase)
			r.Delete("/palette", s.handleReset)
			r.Get("/palette.css", s.handleStylesheet)
			r.Post("/palette/randomize", s.handleRandomize)
		})
	})

	return r
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on Config.Listen and blocks until ctx is cancelled or the
// listener fails. In-flight requests get the configured timeout to finish.
func (s *Server) Start(ctx context.Context) error {
	timeout := time.Duration(s.Config.TimeoutSec) * time.Second

	srv := &http.Server{
		Addr:              s.Config.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       4 * timeout,
	}

	addr := s.Config.Listen
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	ui.LogStatus("success", "Palette API listening on http://"+addr+"/api")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	ui.LogStatus("success", "Palette API stopped")
	return nil
}
