// Package api exposes the panel layout engine over HTTP.
//
// The server wraps a pipeline Runner and a wallstate Store behind a chi
// router. Stateless endpoints compute schedules and placements from request
// bodies; the /v1/walls endpoints manage named wall records, applying edits
// through read-modify-write store updates so a failed edit never leaves a
// record half-changed.
//
// # Endpoints
//
//   - POST /v1/layout: compute a panel schedule from a manifest, a stored
//     wall, or inline parameters
//   - POST /v1/anchor: place objects against a computed schedule
//   - /v1/walls: create, list, fetch, and delete stored walls
//   - /v1/walls/{id}/layout: compute the schedule for a stored wall
//   - /v1/walls/{id}/split, /overrides, /edits: apply and clear edits
//   - /v1/walls/{id}/objects: persist anchored objects on a wall
//   - GET /healthz: liveness probe with build version
//
// # Errors
//
// Handlers return JSON error bodies carrying the structured code from
// pkg/errors. Validation failures map to 400, constraint violations to 422,
// missing resources to 404, and everything else to 500.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wrightline/panelplan/pkg/buildinfo"
	"github.com/wrightline/panelplan/pkg/pipeline"
	"github.com/wrightline/panelplan/pkg/wallstate"
)

// shutdownTimeout bounds how long an exiting server waits for in-flight
// requests.
const shutdownTimeout = 5 * time.Second

// Server routes HTTP requests to the layout pipeline and the wall store.
type Server struct {
	runner *pipeline.Runner
	store  wallstate.Store
	logger *log.Logger
	mux    *chi.Mux
}

// New creates a server around the given runner and store. A nil runner gets
// a cacheless default, a nil store falls back to in-memory records, and a
// nil logger discards output.
func New(runner *pipeline.Runner, store wallstate.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if store == nil {
		store = wallstate.NewMemoryStore()
	}
	s := &Server{runner: runner, store: store, logger: logger}
	s.mux = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// routes assembles the router. The request logger wraps the recoverer so
// panics are logged with the 500 status they produce.
func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/anchor", s.handleAnchor)

		r.Route("/walls", func(r chi.Router) {
			r.Post("/", s.handleWallCreate)
			r.Get("/", s.handleWallList)

			r.Route("/{wallID}", func(r chi.Router) {
				r.Get("/", s.handleWallGet)
				r.Delete("/", s.handleWallDelete)
				r.Get("/layout", s.handleWallLayout)
				r.Post("/split", s.handleWallSplit)
				r.Post("/overrides", s.handleOverrideSet)
				r.Delete("/overrides/{panelID}", s.handleOverrideClear)
				r.Delete("/edits", s.handleEditsClear)
				r.Post("/objects", s.handleObjectsAdd)
				r.Delete("/objects/{objectID}", s.handleObjectDelete)
			})
		})
	})

	return r
}

// ListenAndServe runs the server on addr until ctx is canceled or the
// listener fails. Cancellation drains in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("Listening", "addr", addr, "version", buildinfo.Version)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: buildinfo.Version})
}
