package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"mercator-hq/scribe/pkg/config"
	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/preflight"
	"mercator-hq/scribe/pkg/telemetry/health"
	"mercator-hq/scribe/pkg/telemetry/metrics"
	"mercator-hq/scribe/pkg/telemetry/tracing"
	"mercator-hq/scribe/pkg/usage"
)

// Backend is the part of the orchestrator the HTTP layer depends on.
type Backend interface {
	Generate(ctx context.Context, req content.Request) (*content.Result, error)
	Preflight(ctx context.Context) preflight.Report
	UsageReport() map[string]usage.Record
}

// Server is the HTTP front end for content generation.
type Server struct {
	config       *config.ServerConfig
	telemetry    *config.TelemetryConfig
	backend      Backend
	health       *health.Checker
	metrics      *metrics.Collector
	tracer       *tracing.Tracer
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	stopOnce     sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Option configures a Server.
type Option func(*Server)

// WithHealth mounts the checker's liveness and readiness endpoints.
func WithHealth(c *health.Checker) Option {
	return func(s *Server) { s.health = c }
}

// WithMetrics mounts the Prometheus endpoint.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTracer enables trace context extraction on incoming requests.
func WithTracer(t *tracing.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a server for backend. cfg supplies the listener
// settings and the telemetry endpoint paths.
func NewServer(cfg *config.Config, backend Backend, opts ...Option) *Server {
	s := &Server{
		config:       &cfg.Server,
		telemetry:    &cfg.Telemetry,
		backend:      backend,
		logger:       slog.Default(),
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "server")
	return s
}

// Start serves until ctx is canceled, Stop is called, or the listener
// fails. It then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Stop asks a running Start to shut down.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.shutdownChan) })
}

// Shutdown gracefully shuts down the server, waiting at most
// ShutdownTimeout for in-flight generations.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/generate", s.handleGenerate)
	mux.HandleFunc("GET /v1/preflight", s.handlePreflight)
	mux.HandleFunc("GET /v1/usage", s.handleUsage)

	if s.health != nil {
		s.health.Register(mux, s.telemetry.Health.LivenessPath, s.telemetry.Health.ReadinessPath)
	}
	if s.metrics != nil && s.telemetry.Metrics.Enabled {
		mux.Handle("GET "+s.telemetry.Metrics.Path, s.metrics.Handler())
	}

	var handler http.Handler = mux
	if s.tracer.Enabled() {
		handler = tracing.HTTPMiddleware(handler)
	}
	handler = requestIDMiddleware(handler)
	handler = loggingMiddleware(s.logger)(handler)
	handler = recoveryMiddleware(s.logger)(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
