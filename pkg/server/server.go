// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness probe
//	GET  /version            build information
//	GET  /formats            supported output formats
//	GET  /stats              event counters, when Config.Counters is set
//	POST /render?format=svg  render a scene document (JSON body)
//	POST /replay?format=svg  replay a script (YAML body) and render the result
//	GET  /scenes/{hash}      scene document of an earlier render, by X-Scene-Hash
//
// Render options are query parameters: format, theme, width, height,
// grid, minimap and scale. Unset parameters take the server defaults.
// Responses carry the artifact bytes with X-Scene-Hash and X-Cache headers.
// Errors are JSON objects {"error", "code"}.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/visualnotes/visualnotes/pkg/cache"
	"github.com/visualnotes/visualnotes/pkg/observability"
	"github.com/visualnotes/visualnotes/pkg/pipeline"
)

const (
	// DefaultMaxBody bounds request bodies.
	DefaultMaxBody = 4 << 20

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr        string
	ReadTimeout time.Duration
	MaxBody     int64

	// Defaults are the render options applied before query parameters.
	Defaults pipeline.Options

	// Counters, if set, is served at GET /stats.
	Counters *observability.Counters

	Logger *log.Logger
}

// Server serves renders over HTTP. It is safe for concurrent use.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server rendering through runner. The runner's keys are
// scoped so a cache shared with the CLI does not mix entries.
func New(runner *pipeline.Runner, cfg Config) *Server {
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	scoped := *runner
	scoped.Keyer = cache.NewScopedKeyer(runner.Keyer, "server:")
	return &Server{cfg: cfg, runner: &scoped, logger: cfg.Logger}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/formats", s.handleFormats)
	r.Get("/scenes/{hash}", s.handleScene)
	if s.cfg.Counters != nil {
		r.Get("/stats", s.handleStats)
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(s.cfg.MaxBody))
		r.Post("/render", s.handleRender)
		r.Post("/replay", s.handleReplay)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != http.ErrServerClosed {
		return err
	}
	return nil
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}
