package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	checker := New(10 * time.Second)

	if checker.checkTimeout != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", checker.checkTimeout)
	}
	if n := len(checker.ListChecks()); n != 0 {
		t.Errorf("fresh checker lists %d checks, want none", n)
	}
}

func TestNewDefaultTimeout(t *testing.T) {
	checker := New(0)

	if checker.checkTimeout != 5*time.Second {
		t.Errorf("timeout = %v, want the 5s default", checker.checkTimeout)
	}
}

func TestRegisterCheck(t *testing.T) {
	checker := New(5 * time.Second)

	checker.RegisterCheck("store", func(ctx context.Context) error { return nil })

	if n := len(checker.ListChecks()); n != 1 {
		t.Errorf("registered checks = %d, want 1", n)
	}

	// Registering under the same name replaces, not duplicates.
	checker.RegisterCheck("store", func(ctx context.Context) error {
		return errors.New("replaced")
	})

	if n := len(checker.ListChecks()); n != 1 {
		t.Errorf("checks after replacement = %d, want 1", n)
	}

	status := checker.CheckHealth(context.Background())
	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded from the replacement check", status.Status)
	}
}

func TestUnregisterCheck(t *testing.T) {
	checker := New(5 * time.Second)

	checker.RegisterCheck("store", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("scheduler", func(ctx context.Context) error { return nil })

	checker.UnregisterCheck("store")

	names := checker.ListChecks()
	if len(names) != 1 || names[0] != "scheduler" {
		t.Errorf("remaining checks = %v, want only scheduler", names)
	}
}

func TestListChecks(t *testing.T) {
	checker := New(5 * time.Second)

	checker.RegisterCheck("store", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("scheduler", func(ctx context.Context) error { return nil })

	names := checker.ListChecks()
	sort.Strings(names)

	want := []string{"scheduler", "store"}
	if len(names) != len(want) {
		t.Fatalf("ListChecks() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ListChecks()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks registered",
			checks:     nil,
			wantStatus: "ok",
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"store":     func(ctx context.Context) error { return nil },
				"scheduler": func(ctx context.Context) error { return nil },
			},
			wantStatus: "ok",
		},
		{
			name: "one unhealthy",
			checks: map[string]CheckFunc{
				"store":     func(ctx context.Context) error { return errors.New("database is closed") },
				"scheduler": func(ctx context.Context) error { return nil },
			},
			wantStatus: "degraded",
		},
		{
			name: "all unhealthy",
			checks: map[string]CheckFunc{
				"store":     func(ctx context.Context) error { return errors.New("database is closed") },
				"scheduler": func(ctx context.Context) error { return errors.New("not running") },
			},
			wantStatus: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(5 * time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckHealth(context.Background())

			if status.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("results = %d, want one per registered check (%d)", len(status.Checks), len(tt.checks))
			}
			if status.Timestamp.IsZero() {
				t.Error("timestamp is zero")
			}
			if status.UptimeSeconds < 0 {
				t.Errorf("uptime = %f, want non-negative", status.UptimeSeconds)
			}
		})
	}
}

func TestCheckHealthFailureMessage(t *testing.T) {
	checker := New(5 * time.Second)
	checker.RegisterCheck("store", func(ctx context.Context) error {
		return errors.New("database is closed")
	})

	status := checker.CheckHealth(context.Background())

	result, ok := status.Checks["store"]
	if !ok {
		t.Fatal("no result recorded for the store check")
	}
	if result.Status != "unhealthy" {
		t.Errorf("result status = %q, want unhealthy", result.Status)
	}
	if result.Message != "database is closed" {
		t.Errorf("result message = %q, want the check error text", result.Message)
	}
}

func TestCheckHealthTimeout(t *testing.T) {
	checker := New(50 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	start := time.Now()
	status := checker.CheckHealth(context.Background())
	elapsed := time.Since(start)

	if status.Status != "degraded" {
		t.Errorf("status = %q, want degraded", status.Status)
	}
	if elapsed > 2*time.Second {
		t.Errorf("CheckHealth took %v, the 50ms per-check timeout did not apply", elapsed)
	}
}

func TestUptime(t *testing.T) {
	checker := New(5 * time.Second)

	time.Sleep(10 * time.Millisecond)

	if checker.Uptime() <= 0 {
		t.Errorf("uptime = %v, want positive", checker.Uptime())
	}
}

func TestHealthzHandler(t *testing.T) {
	tests := []struct {
		name     string
		check    CheckFunc
		method   string
		wantCode int
	}{
		{
			name:     "healthy",
			check:    func(ctx context.Context) error { return nil },
			method:   http.MethodGet,
			wantCode: http.StatusOK,
		},
		{
			name:     "degraded",
			check:    func(ctx context.Context) error { return errors.New("down") },
			method:   http.MethodGet,
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "head request",
			check:    func(ctx context.Context) error { return nil },
			method:   http.MethodHead,
			wantCode: http.StatusOK,
		},
		{
			name:     "method not allowed",
			check:    func(ctx context.Context) error { return nil },
			method:   http.MethodPost,
			wantCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(5 * time.Second)
			checker.RegisterCheck("store", tt.check)

			req := httptest.NewRequest(tt.method, "/healthz", nil)
			rec := httptest.NewRecorder()

			checker.HealthzHandler()(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestHealthzHandlerBody(t *testing.T) {
	checker := New(5 * time.Second)
	checker.RegisterCheck("store", func(ctx context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	checker.HealthzHandler()(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var status HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if status.Status != "ok" {
		t.Errorf("status = %q, want ok", status.Status)
	}
	if _, ok := status.Checks["store"]; !ok {
		t.Error("store check missing from response body")
	}
}

func TestVersionHandler(t *testing.T) {
	handler := VersionHandler("1.0.0", "abc123", "2026-08-20T00:00:00Z")

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if info.Version != "1.0.0" {
		t.Errorf("version = %q, want 1.0.0", info.Version)
	}
	if info.Commit != "abc123" {
		t.Errorf("commit = %q, want abc123", info.Commit)
	}
	if info.GoVersion == "" {
		t.Error("go version is empty")
	}
}

func TestVersionHandlerMethodNotAllowed(t *testing.T) {
	handler := VersionHandler("1.0.0", "abc123", "2026-08-20T00:00:00Z")

	req := httptest.NewRequest(http.MethodPost, "/version", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status code = %d, want 405", rec.Code)
	}
}
