package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sqlpeek/sqlpeek/internal/analysis"
	"github.com/sqlpeek/sqlpeek/internal/api/handlers"
	"github.com/sqlpeek/sqlpeek/internal/meta"
	"github.com/sqlpeek/sqlpeek/internal/scheduler"
)

// Server holds the HTTP server and all handler dependencies.
type Server struct {
	addr string
	srv  *http.Server
}

// New wires all routes and returns a Server ready to Run.
func New(
	addr string,
	store *meta.Store,
	mgr *analysis.Manager,
	broker *analysis.Broker,
	sched *scheduler.Scheduler,
) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	databasesH := &handlers.DatabasesHandler{Store: store}
	browseH := &handlers.BrowseHandler{Store: store}
	analysisH := &handlers.AnalysisHandler{Manager: mgr, Broker: broker, Store: store}
	statusH := &handlers.StatusHandler{Sched: sched}

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", statusH.ServeHTTP)

		r.Post("/databases", databasesH.Create)
		r.Get("/databases", databasesH.List)
		r.Delete("/databases/{id}", databasesH.Delete)

		r.Get("/browse/tables", browseH.Tables)
		r.Get("/browse/rows", browseH.Rows)
		r.Get("/browse/stats", browseH.Stats)

		r.Post("/analysis", analysisH.Start)
		r.Delete("/analysis", analysisH.Stop)
		r.Get("/analysis/result", analysisH.Result)
		r.Get("/analysis/events", analysisH.Events)
	})

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: r},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		return s.srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
