// Package server provides the operational HTTP server for purgebot.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"

	"chatops-hq/purgebot/pkg/bot"
	"chatops-hq/purgebot/pkg/config"
	"chatops-hq/purgebot/pkg/telemetry/health"
	"chatops-hq/purgebot/pkg/telemetry/metrics"
)

// GroupLister supplies the group listing served on /groups. *bot.Bot
// satisfies it.
type GroupLister interface {
	Snapshot(ctx context.Context) ([]bot.GroupInfo, error)
}

// BuildInfo identifies the running binary on the /version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Server is the operational HTTP server. It exposes health, metrics,
// version, and group inspection endpoints on a separate listener so the
// bot's update loop never serves HTTP itself.
type Server struct {
	config       *config.ServerConfig
	metricsCfg   *config.MetricsConfig
	checker      *health.Checker
	collector    *metrics.Collector
	groups       GroupLister
	build        BuildInfo
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new operational server. The collector may be nil,
// in which case no metrics endpoint is mounted.
func NewServer(cfg *config.ServerConfig, metricsCfg *config.MetricsConfig, checker *health.Checker, collector *metrics.Collector, groups GroupLister, build BuildInfo) *Server {
	return &Server{
		config:       cfg,
		metricsCfg:   metricsCfg,
		checker:      checker,
		collector:    collector,
		groups:       groups,
		build:        build,
		shutdownChan: make(chan struct{}),
	}
}

// Start serves until the context is cancelled or Shutdown is called,
// then drains and returns.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("operational server already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting operational server",
			"address", s.config.ListenAddress,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("operational server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, stopping operational server")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown drains active connections up to the configured timeout and
// stops the server. Safe to call from any goroutine; later calls are
// no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("stopping operational server", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("operational server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.checker.HealthzHandler())
	mux.HandleFunc("/version", health.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildTime))
	mux.HandleFunc("/groups", s.handleGroups)

	if s.collector != nil && s.metricsCfg != nil && s.metricsCfg.Enabled {
		path := s.metricsCfg.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle(path, s.collector.Handler())
	}

	// Recovery wraps logging so a panic in the log path is caught too.
	return recoveryMiddleware(loggingMiddleware(mux))
}

// handleGroups serves the current group listing as JSON.
func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.groups == nil {
		http.Error(w, "group listing unavailable", http.StatusServiceUnavailable)
		return
	}

	infos, err := s.groups.Snapshot(r.Context())
	if err != nil {
		slog.Error("failed to build group listing", "error", err)
		http.Error(w, "failed to list groups", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(groupListing{
		Groups: infos,
		Count:  len(infos),
	})
}

// groupListing is the /groups response envelope.
type groupListing struct {
	Groups []bot.GroupInfo `json:"groups"`
	Count  int             `json:"count"`
}

// IsRunning reports whether Start has been called and Shutdown has not
// completed.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler exposes the route table with its middleware for tests that
// drive requests without a listener.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// Health reports whether the server itself is serving.
func (s *Server) Health() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return fmt.Errorf("operational server not running")
	}

	return nil
}

// loggingMiddleware logs each request at debug level.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("ops request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware converts handler panics into 500 responses.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic in ops handler",
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
