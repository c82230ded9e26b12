// Package api serves DevPulse data over HTTP.
//
// Routes:
//
//	GET /health                      liveness probe
//	GET /api/languages               language popularity ranking
//	GET /api/languages/history       recorded rankings, newest first
//	GET /api/languages/latest        most recent recorded ranking
//	GET /api/trending                most-starred repositories
//	GET /api/developers/{login}      developer profile
//
// Every /api response is a JSON envelope {success, data} or
// {success: false, message, code}.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/devpulse/pkg/config"
	"github.com/matzehuels/devpulse/pkg/integrations/github"
	"github.com/matzehuels/devpulse/pkg/popularity"
	"github.com/matzehuels/devpulse/pkg/store"
)

// Source is the upstream the API reads from, normally a *github.Client.
type Source interface {
	popularity.Counter
	SearchTrending(ctx context.Context, q github.TrendingQuery) ([]github.Repository, error)
	FetchUser(ctx context.Context, login string) (*github.Developer, error)
}

// Options configures a [Server].
type Options struct {
	Source Source
	Store  store.Store    // snapshot history; nil keeps an in-memory history
	Config *config.Config // nil uses config.Default()
	Logger *log.Logger    // nil uses log.Default()
}

// Server handles API requests.
type Server struct {
	src    Source
	store  store.Store
	cfg    *config.Config
	agg    *popularity.Aggregator
	logger *log.Logger
}

// NewServer creates a server.
func NewServer(opts Options) (*Server, error) {
	if opts.Source == nil {
		return nil, errors.New("api: source is required")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore(opts.Config.Server.HistoryLimit)
	}
	return &Server{
		src:    opts.Source,
		store:  opts.Store,
		cfg:    opts.Config,
		agg:    popularity.NewAggregator(opts.Logger),
		logger: opts.Logger,
	}, nil
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(2 * time.Minute))
		r.Get("/languages", s.handleLanguages)
		r.Get("/languages/history", s.handleHistory)
		r.Get("/languages/latest", s.handleLatest)
		r.Get("/trending", s.handleTrending)
		r.Get("/developers/{login}", s.handleDeveloper)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		sendMessage(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
