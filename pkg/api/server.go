// Package api serves flame renders over HTTP.
//
// The service is a thin layer over [pipeline.Runner]: a client posts a TOML
// flame document and receives the encoded image. Renders are cached by the
// runner, so the same document and options are only rendered once per
// cache.
//
// # Endpoints
//
//	GET  /healthz      liveness probe, answers "ok"
//	GET  /variations   registered variations with their parameter defaults
//	POST /render       TOML flame body, image response
//
// /render accepts the query parameters format, width, height, seed, and
// quality with the meaning of the matching [pipeline.Options] fields. The
// response carries X-Run-ID, X-Flame-Hash, and X-Cache (hit or miss)
// headers. Errors are JSON objects with "code" and "error" fields.
package api

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flamekit/pkg/errors"
	"github.com/matzehuels/flamekit/pkg/observability"
	"github.com/matzehuels/flamekit/pkg/pipeline"
)

const (
	// DefaultRenderTimeout bounds a single /render request.
	DefaultRenderTimeout = 2 * time.Minute

	// DefaultMaxBodyBytes bounds the size of a posted flame document.
	DefaultMaxBodyBytes = 1 << 20

	// shutdownTimeout is how long ListenAndServe waits for in-flight
	// requests after its context is cancelled.
	shutdownTimeout = 10 * time.Second
)

// Server is the flamekit HTTP service. It implements http.Handler.
type Server struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	RenderTimeout time.Duration
	MaxBodyBytes  int64

	router chi.Router
}

// NewServer builds a server around runner. A nil logger uses the runner's.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		Runner:        runner,
		Logger:        logger,
		RenderTimeout: DefaultRenderTimeout,
		MaxBodyBytes:  DefaultMaxBodyBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/variations", s.handleVariations)
	r.Post("/render", s.handleRender)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})

	s.router = r
	return s
}

// ServeHTTP dispatches to the server's routes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests logs every request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, duration)
		s.Logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", duration)
	})
}
