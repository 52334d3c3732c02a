// Package server exposes treemaps over HTTP.
//
// A Server loads one dataset at startup and serves:
//
//	GET    /health                       liveness probe
//	GET    /                             browser client
//	GET    /api/tree                     the raw hierarchy as {"data": ...}
//	GET    /api/render.{format}          stateless render (?focus=&width=&height=)
//	POST   /api/views                    create an interactive view
//	GET    /api/views/{id}               view snapshot
//	DELETE /api/views/{id}               drop a view
//	GET    /api/views/{id}/render.{format}
//	GET    /api/views/{id}/ws            zoom event channel
//
// Views settle immediately on the server; each zoom answers with the
// transition plan so the browser can animate it.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/zoomtree/pkg/hierarchy"
	"github.com/matzehuels/zoomtree/pkg/pipeline"
	"github.com/matzehuels/zoomtree/pkg/session"
)

// Defaults for [Config].
const (
	DefaultAddr            = "127.0.0.1:8080"
	DefaultCleanupInterval = time.Minute
	shutdownTimeout        = 5 * time.Second
)

// Config configures a [Server].
type Config struct {
	// Runner loads the dataset and caches rendered artifacts.
	Runner *pipeline.Runner

	// Options are the base pipeline options. Source is required; requests
	// override Focus, Width, Height and Formats.
	Options pipeline.Options

	Logger *log.Logger

	// SessionTTL and MaxSessions bound the view store. Zero selects the
	// session package defaults.
	SessionTTL  time.Duration
	MaxSessions int
}

// Server serves one dataset.
type Server struct {
	runner   *pipeline.Runner
	base     pipeline.Options
	raw      hierarchy.RawNode
	tree     *hierarchy.Node // read-only; views build their own
	hash     string
	sessions *session.MemoryStore
	logger   *log.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// New loads the dataset named by cfg.Options.Source and returns a ready
// server.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	opts := cfg.Options
	opts.Logger = cfg.Logger
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	tree, ds, err := cfg.Runner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	raw, err := ds.Decode(opts.DataPath)
	if err != nil {
		return nil, err
	}
	stats := tree.Stats()
	cfg.Logger.Info("dataset loaded", "source", opts.Source, "nodes", stats.Nodes, "leaves", stats.Leaves)

	s := &Server{
		runner:   cfg.Runner,
		base:     opts,
		raw:      raw,
		tree:     tree,
		hash:     ds.Hash(),
		sessions: session.NewMemoryStore(cfg.SessionTTL, cfg.MaxSessions),
		logger:   cfg.Logger,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Sessions returns the view store.
func (s *Server) Sessions() *session.MemoryStore { return s.sessions }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(Gzip)
		r.Get("/", s.handleIndex)
		r.Get("/api/tree", s.handleTree)
		r.Get("/api/render.{format}", s.handleRender)
		r.Post("/api/views", s.handleCreateView)
		r.Get("/api/views/{id}", s.handleGetView)
		r.Delete("/api/views/{id}", s.handleDeleteView)
		r.Get("/api/views/{id}/render.{format}", s.handleRenderView)
	})

	// Hijacked connections bypass compression.
	r.Get("/api/views/{id}/ws", s.handleEvents)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired views are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.sessions.Run(ctx, DefaultCleanupInterval)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", "http://"+addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
