// Package health backs the /healthz and /version endpoints of the
// operational HTTP server.
//
// A Checker runs registered component checks on every /healthz request
// and aggregates them with process uptime. Each check runs under a
// per-check timeout; one that exceeds it counts as unhealthy. The
// endpoint answers 200 while every component is healthy and 503 once
// any reports a problem, so external monitors can alert on the status
// code alone.
//
// The bot registers a check per long-lived component:
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("store", func(ctx context.Context) error {
//	    _, err := st.Len(ctx)
//	    return err
//	})
//	checker.RegisterCheck("scheduler", func(ctx context.Context) error {
//	    if !sched.IsRunning() {
//	        return errors.New("sweep scheduler not running")
//	    }
//	    return nil
//	})
//
//	mux.HandleFunc("/healthz", checker.HealthzHandler())
//	mux.HandleFunc("/version", health.VersionHandler("1.0.0", "abc123", "2026-08-20"))
//
// A healthy response:
//
//	{
//	    "status": "ok",
//	    "uptime_seconds": 4215.8,
//	    "checks": {
//	        "store": {"status": "ok"},
//	        "scheduler": {"status": "ok"}
//	    },
//	    "timestamp": "2026-08-20T10:30:00Z"
//	}
//
// and a degraded one, answered with 503:
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "store": {"status": "unhealthy", "message": "database is closed"},
//	        "scheduler": {"status": "ok"}
//	    },
//	    "timestamp": "2026-08-20T10:30:00Z"
//	}
//
// /version reports the build stamped in at link time plus the Go
// toolchain version, marshaled once at startup:
//
//	{
//	    "version": "1.0.0",
//	    "commit": "abc123def456",
//	    "build_time": "2026-08-20T00:00:00Z",
//	    "go_version": "go1.25.0"
//	}
package health
