package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func passingCheck(ctx context.Context) error { return nil }

// Benchmark_CheckHealth measures a full health pass for the check counts the
// bot actually runs with: none during startup, and the store/scheduler pair
// once the components are wired.
func BenchmarkCheckHealth(b *testing.B) {
	cases := []struct {
		name   string
		checks map[string]CheckFunc
	}{
		{name: "no_checks", checks: nil},
		{name: "store_and_scheduler", checks: map[string]CheckFunc{
			"store":     passingCheck,
			"scheduler": passingCheck,
		}},
		{name: "failing_store", checks: map[string]CheckFunc{
			"store": func(ctx context.Context) error {
				return errors.New("snapshot not writable")
			},
			"scheduler": passingCheck,
		}},
	}

	for _, bc := range cases {
		b.Run(bc.name, func(b *testing.B) {
			checker := New(5 * time.Second)
			for name, fn := range bc.checks {
				checker.RegisterCheck(name, fn)
			}
			ctx := context.Background()

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = checker.CheckHealth(ctx)
			}
		})
	}
}

// Benchmark_CheckHealth_Parallel exercises concurrent health requests, the
// shape a scraping load balancer produces.
func BenchmarkCheckHealth_Parallel(b *testing.B) {
	checker := New(5 * time.Second)
	checker.RegisterCheck("store", passingCheck)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = checker.CheckHealth(ctx)
		}
	})
}

// Benchmark_RegisterCheck measures check registration, which the bot does a
// handful of times at startup.
func BenchmarkRegisterCheck(b *testing.B) {
	checker := New(5 * time.Second)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		checker.RegisterCheck("store", passingCheck)
	}
}

// Benchmark_Handlers measures the two HTTP endpoints end to end, recorder
// included, since that is the cost a probe actually pays.
func BenchmarkHandlers(b *testing.B) {
	checker := New(5 * time.Second)
	checker.RegisterCheck("store", passingCheck)

	endpoints := []struct {
		name    string
		path    string
		handler http.HandlerFunc
	}{
		{name: "healthz", path: "/healthz", handler: checker.HealthzHandler()},
		{name: "version", path: "/version", handler: VersionHandler("1.0.0", "abc123", "2026-08-20")},
	}

	for _, ep := range endpoints {
		b.Run(ep.name, func(b *testing.B) {
			req := httptest.NewRequest(http.MethodGet, ep.path, nil)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				rec := httptest.NewRecorder()
				ep.handler(rec, req)
			}
		})
	}
}
