// Package http serves the pages plus health, readiness and metrics endpoints.
package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/asteroid-impact-web/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// ReadyFunc adapts a function to sharedobs.ReadinessChecker.
type ReadyFunc func(ctx context.Context) error

func (f ReadyFunc) CheckReadiness(ctx context.Context) error {
	return f(ctx)
}

// AlwaysReady is used when no background component gates readiness.
var AlwaysReady = ReadyFunc(func(context.Context) error { return nil })

// Options wires the page sources into the server.
type Options struct {
	Addr             string
	Feed             FeedLoader
	Impact           ImpactSimulator
	Renderer         PageRenderer
	Static           fs.FS // served under /static/ when set
	Ready            sharedobs.ReadinessChecker
	GeocodingEnabled bool

	// Per-client limit on the impact page.
	RateLimit rate.Limit
	RateBurst int
}

// Server exposes the pages and the health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	opts       Options
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with page routes plus /healthz, /readyz,
// and /metrics.
func NewServer(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Server {
	if opts.Ready == nil {
		opts.Ready = AlwaysReady
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         opts.Addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second, // the map page waits on two upstream calls
			IdleTimeout:  60 * time.Second,
		},
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}

	limiter := NewIPRateLimiter(opts.RateLimit, opts.RateBurst)

	mux.HandleFunc("GET /{$}", s.handleFeed)
	mux.HandleFunc("GET /asteroid", s.handleDetail)
	mux.Handle("GET /impact", s.rateLimit(limiter, http.HandlerFunc(s.handleImpact)))
	if opts.Static != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(opts.Static)))
	}
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(opts.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
