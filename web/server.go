// ABOUTME: HTTP API for the automata catalog: upload descriptions, evaluate words, lint, render, and report.
// ABOUTME: Routes live behind a single chi router with request-ID logging and panic recovery.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/2389-research/automata/render"
	"github.com/2389-research/automata/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes caps request bodies for uploads and word lists.
const maxBodyBytes = 4 << 20

// Server is the automata HTTP server.
type Server struct {
	store   *store.Store
	cache   *render.RenderCache
	workers int
	router  chi.Router
	addr    string
}

// ServerConfig holds the configuration for the web server.
type ServerConfig struct {
	Addr     string        // listen address (default: "127.0.0.1:2390")
	Store    *store.Store  // catalog; required
	CacheTTL time.Duration // render cache TTL (default: 10m)
	Workers  int           // word evaluation parallelism (default: 4)
}

// NewServer creates a Server with the given configuration.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("Store must not be nil")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:2390"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	s := &Server{
		store:   cfg.Store,
		cache:   render.NewRenderCache(render.RenderDOTSource, cfg.CacheTTL),
		workers: cfg.Workers,
		addr:    cfg.Addr,
	}
	s.router = s.buildRouter()
	return s, nil
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	stop := s.startCachePurge(time.Minute)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("web listening addr=%s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// startCachePurge drops expired renders periodically and returns a stop function.
func (s *Server) startCachePurge(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if n := s.cache.Purge(); n > 0 {
					log.Printf("render cache purged entries=%d", n)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(webRequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/process", s.handleProcessInline)

		r.Route("/automata", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)

			r.Route("/{automatonID}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Get("/lint", s.handleLint)
				r.Post("/process", s.handleProcess)
				r.Get("/runs", s.handleRuns)
				r.Get("/render", s.handleRender)
				r.Get("/report", s.handleReport)
			})
		})

		r.Get("/runs/{runID}", s.handleRun)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
