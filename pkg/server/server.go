package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"nx-gov/canister-metrics/pkg/config"
	"nx-gov/canister-metrics/pkg/response"
	"nx-gov/canister-metrics/pkg/server/middleware"
	"nx-gov/canister-metrics/pkg/telemetry/health"
	"nx-gov/canister-metrics/pkg/telemetry/metrics"
)

// ErrServerStopped is returned by Start after the server has been shut down.
var ErrServerStopped = errors.New("server has been shut down")

// MetricsBuilder produces the canister metrics response.
type MetricsBuilder interface {
	BuildMetricsResponse() response.Response
}

// BuildInfo identifies the running binary on /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Server is the HTTP shell around the metrics pipeline.
type Server struct {
	config      *config.ServerConfig
	selfMetrics *config.SelfMetricsConfig

	builder   MetricsBuilder
	collector *metrics.Collector
	checker   *health.Checker
	build     BuildInfo
	logger    *slog.Logger

	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	stopped      bool
}

// NewServer creates a server. collector and checker may be nil.
func NewServer(cfg *config.Config, builder MetricsBuilder, collector *metrics.Collector, checker *health.Checker, build BuildInfo) *Server {
	if checker == nil {
		checker = health.New(0)
	}

	return &Server{
		config:      &cfg.Server,
		selfMetrics: &cfg.Telemetry.SelfMetrics,
		builder:     builder,
		collector:   collector,
		checker:     checker,
		build:       build,
		logger:      slog.Default().With("component", "server"),
	}
}

// Start listens on the configured address and serves until ctx is done, a
// shutdown signal arrives, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	if s.stopped {
		s.mu.Unlock()
		return ErrServerStopped
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting metrics server",
			"address", ln.Addr().String(),
			"metrics_path", s.config.MetricsPath,
		)

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	}
}

// Shutdown stops accepting scrapes and waits for in-flight ones up to the
// configured shutdown timeout. A server that was shut down cannot be
// started again.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		running := s.isRunning
		s.stopped = true
		s.mu.Unlock()
		if !running {
			return
		}

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

		s.logger.Info("metrics server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(s.logger))
	r.Use(chimw.GetHead)

	r.Group(func(r chi.Router) {
		if s.config.RateLimitPerSecond > 0 {
			r.Use(httprate.Limit(
				s.config.RateLimitPerSecond,
				time.Second,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(s.rateLimited),
			))
		}
		r.Get(s.config.MetricsPath, s.serveMetrics)
	})

	if s.selfMetrics.IsEnabled() && s.collector != nil {
		r.Method(http.MethodGet, s.selfMetrics.Path, s.collector.Handler())
	}

	r.Get("/health", s.checker.LivenessHandler())
	r.Get("/ready", s.checker.ReadinessHandler())
	r.Get("/version", health.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildTime))

	return r
}

// serveMetrics builds one response per request; nothing is cached.
func (s *Server) serveMetrics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp := s.builder.BuildMetricsResponse()
	s.collector.RecordScrape(resp.StatusCode, time.Since(start), len(resp.Body))

	if resp.StatusCode != http.StatusOK {
		s.logger.ErrorContext(r.Context(), "metrics encoding failed", "body", string(resp.Body))
	}

	if err := resp.WriteHTTP(w); err != nil {
		s.logger.DebugContext(r.Context(), "failed to write metrics response", "error", err)
	}
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	s.collector.RecordRateLimited()
	http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}
