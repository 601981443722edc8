package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chatops-hq/purgebot/pkg/bot"
	"chatops-hq/purgebot/pkg/config"
	"chatops-hq/purgebot/pkg/telemetry/health"
	"chatops-hq/purgebot/pkg/telemetry/metrics"
)

// fakeLister returns a canned group listing.
type fakeLister struct {
	infos []bot.GroupInfo
	err   error
}

func (f *fakeLister) Snapshot(ctx context.Context) ([]bot.GroupInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.infos, nil
}

// panicLister panics on Snapshot, for exercising the recovery middleware.
type panicLister struct{}

func (panicLister) Snapshot(ctx context.Context) ([]bot.GroupInfo, error) {
	panic("snapshot exploded")
}

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Enabled:         true,
		ListenAddress:   "127.0.0.1:0",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 2 * time.Second,
	}
}

func testMetricsConfig(enabled bool) *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   enabled,
		Path:      "/metrics",
		Namespace: "purgebot",
	}
}

func newTestServer(t *testing.T, groups GroupLister, metricsEnabled bool) *Server {
	t.Helper()

	metricsCfg := testMetricsConfig(metricsEnabled)
	var collector *metrics.Collector
	if metricsEnabled {
		collector = metrics.NewCollector(metricsCfg, nil)
	}

	checker := health.New(time.Second)
	checker.RegisterCheck("store", func(ctx context.Context) error { return nil })

	build := BuildInfo{Version: "1.0.0", Commit: "abc123", BuildTime: "2026-08-20"}
	return NewServer(testServerConfig(), metricsCfg, checker, collector, groups, build)
}

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, &fakeLister{}, true)

	if srv == nil {
		t.Fatal("expected non-nil server")
	}

	if srv.IsRunning() {
		t.Error("expected server to not be running initially")
	}
}

func TestServer_Healthz(t *testing.T) {
	srv := newTestServer(t, &fakeLister{}, true)
	handler := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var status health.HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if status.Status != "ok" {
		t.Errorf("expected ok status, got %q", status.Status)
	}
}

func TestServer_Healthz_Degraded(t *testing.T) {
	metricsCfg := testMetricsConfig(false)

	checker := health.New(time.Second)
	checker.RegisterCheck("store", func(ctx context.Context) error {
		return errors.New("database is closed")
	})

	srv := NewServer(testServerConfig(), metricsCfg, checker, nil, &fakeLister{}, BuildInfo{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}

func TestServer_Version(t *testing.T) {
	srv := newTestServer(t, &fakeLister{}, true)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var info health.VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", info.Version)
	}
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t, &fakeLister{}, true)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestServer_Metrics_Disabled(t *testing.T) {
	srv := newTestServer(t, &fakeLister{}, false)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 when metrics disabled, got %d", rec.Code)
	}
}

func TestServer_Groups(t *testing.T) {
	lister := &fakeLister{
		infos: []bot.GroupInfo{
			{ChatID: -1001, Lifetime: "7d", TrackedMessages: 3},
			{ChatID: -1002, Lifetime: "30d", TrackedMessages: 0},
		},
	}
	srv := newTestServer(t, lister, true)

	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var listing groupListing
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if listing.Count != 2 {
		t.Errorf("expected count 2, got %d", listing.Count)
	}

	if len(listing.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(listing.Groups))
	}

	if listing.Groups[0].ChatID != -1001 {
		t.Errorf("expected chat -1001 first, got %d", listing.Groups[0].ChatID)
	}

	if listing.Groups[0].Lifetime != "7d" {
		t.Errorf("expected lifetime 7d, got %q", listing.Groups[0].Lifetime)
	}
}

func TestServer_Groups_Errors(t *testing.T) {
	tests := []struct {
		name           string
		groups         GroupLister
		method         string
		expectedStatus int
	}{
		{
			name:           "method not allowed",
			groups:         &fakeLister{},
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "lister failure",
			groups:         &fakeLister{err: errors.New("store unavailable")},
			method:         http.MethodGet,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "no lister wired",
			groups:         nil,
			method:         http.MethodGet,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.groups, false)

			req := httptest.NewRequest(tt.method, "/groups", nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestServer_RecoveryMiddleware(t *testing.T) {
	srv := newTestServer(t, panicLister{}, false)

	req := httptest.NewRequest(http.MethodGet, "/groups", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 after panic, got %d", rec.Code)
	}
}

func TestServer_StartShutdown(t *testing.T) {
	srv := newTestServer(t, &fakeLister{}, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	waitFor(t, 2*time.Second, srv.IsRunning)

	if err := srv.Health(); err != nil {
		t.Errorf("expected healthy running server, got %v", err)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after shutdown")
	}

	if srv.IsRunning() {
		t.Error("expected server to be stopped")
	}

	if err := srv.Health(); err == nil {
		t.Error("expected health error after shutdown")
	}
}

func TestServer_StartTwice(t *testing.T) {
	srv := newTestServer(t, &fakeLister{}, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	waitFor(t, 2*time.Second, srv.IsRunning)

	if err := srv.Start(ctx); err == nil {
		t.Error("expected error starting a running server")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	<-done
}
