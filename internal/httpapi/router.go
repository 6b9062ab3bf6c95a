// Package httpapi exposes annotations over JSON HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jask/annotate/internal/annotation"
)

// WelcomeText is served from /static/welcome.
const WelcomeText = "Welcome to the annotations service"

const defaultShutdownTimeout = 10 * time.Second

// Service is the annotation backend behind the API.
type Service interface {
	Search(ctx context.Context, index, q string, seekPosition int) ([]annotation.Annotation, error)
	Get(ctx context.Context, index, id string) (annotation.Annotation, error)
	History(ctx context.Context, index, id string) ([]annotation.HistoryEntry, error)
	Create(ctx context.Context, index, id string) (annotation.Annotation, error)
	Update(ctx context.Context, index, id string, upd annotation.Annotation) (annotation.Annotation, error)
	Remove(ctx context.Context, index, id string) error
}

// NewRouter registers every annotation route under /annotations/v1 and the
// health checks under /health.
func NewRouter(svc Service, logger *slog.Logger, checkers ...HealthChecker) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &handler{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	hh := &healthHandler{checkers: checkers}
	r.Get("/health/live", hh.live)
	r.Get("/health/ready", hh.ready)

	r.Route("/annotations/v1", func(r chi.Router) {
		r.Get("/static/welcome", h.welcome)
		r.Get("/static/statusValues", h.statusValues)
		r.Get("/search/{index}", h.search)

		r.Get("/single/{index}/{id}", h.get)
		r.Post("/single/{index}/{id}", h.create)
		r.Put("/single/{index}/{id}", h.update)
		r.Delete("/single/{index}/{id}", h.remove)
		r.Get("/single/{index}/{id}/history", h.history)
	})
	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("elapsed", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// Server wraps http.Server with graceful shutdown support.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks until the server stops. Returns nil on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", slog.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight requests, bounded by ctx or a default timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
		defer cancel()
	}
	s.logger.Info("shutting down HTTP server")
	return s.srv.Shutdown(ctx)
}
