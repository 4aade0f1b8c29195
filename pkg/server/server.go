// Package server exposes a snapshot workspace over HTTP.
//
// The API serves the graph to browser clients (history listings, the
// computed layout as JSON, rendered SVG) next to the mutation endpoints an
// editor frontend needs: commit, restore, activate, preview, fork. Graph
// responses carry an ETag derived from the workspace revision stamp, so
// polling clients get 304s until something actually changes.
//
// # Usage
//
//	store, err := history.Open(path)
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(c, nil, logger)
//	srv, err := server.New(store, runner, pipeline.Options{}, logger)
//	if err != nil {
//	    return err
//	}
//	return srv.ListenAndServe(ctx, ":8080")
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lanewise/snapgraph/pkg/errors"
	"github.com/lanewise/snapgraph/pkg/history"
	"github.com/lanewise/snapgraph/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "localhost:8080"

// shutdownTimeout bounds the drain of in-flight requests on shutdown.
const shutdownTimeout = 5 * time.Second

// Server serves one workspace over HTTP.
type Server struct {
	store  *history.Store
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
	router chi.Router
}

// New builds a server for the given store. The options are the base for
// every graph request; handlers override per-request knobs (engine, labels)
// from query parameters. A nil runner gets a cacheless default.
func New(store *history.Store, runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) (*Server, error) {
	if store == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "store is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}

	opts.Workspace = store.Path()
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "server options")
	}
	// Resolve the theme once here so a bad theme path fails at startup, not
	// on the first graph request.
	if err := opts.ValidateForRender(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "server options")
	}

	s := &Server{
		store:  store,
		runner: runner,
		opts:   opts,
		logger: logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/workspace", s.handleWorkspace)
		r.Post("/workspace/dirty", s.handleDirty)
		r.Get("/history", s.handleHistory)
		r.Get("/graph", s.handleGraph)
		r.Get("/graph.svg", s.handleGraphSVG)
		r.Post("/commit", s.handleCommit)
		r.Get("/snapshots/{id}", s.handleSnapshot)
		r.Post("/snapshots/{id}/activate", s.handleActivate)
		r.Post("/snapshots/{id}/restore", s.handleRestore)
		r.Post("/snapshots/{id}/preview", s.handlePreview)
		r.Delete("/preview", s.handleClearPreview)
		r.Post("/timelines", s.handleFork)
	})

	return r
}

// ServeHTTP implements http.Handler, so the server can be mounted or driven
// directly by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server until ctx is cancelled, then drains
// in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "workspace", s.store.Path())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger logs one line per request, tagged with the chi request id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
