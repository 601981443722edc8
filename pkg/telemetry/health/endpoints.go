package health

import (
	"encoding/json"
	"net/http"
	"runtime"
)

// VersionInfo is the /version payload, stamped from ldflags at build
// time plus the toolchain that compiled the binary.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// HealthzHandler returns the aggregated health endpoint. Every request
// runs all registered checks: 200 when healthy, 503 when any component
// is down. HEAD requests get the status code without a body.
//
//	{
//	    "status": "ok",
//	    "uptime_seconds": 4215.8,
//	    "checks": {
//	        "store": {"status": "ok", "duration_ms": 93600},
//	        "scheduler": {"status": "ok"}
//	    },
//	    "timestamp": "2026-08-20T10:30:00Z"
//	}
func (c *Checker) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := c.CheckHealth(r.Context())

		code := http.StatusOK
		if status.Status == StatusDegraded {
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(status)
	}
}

// VersionHandler returns the build information endpoint. The payload
// is fixed at startup, so it is marshaled once.
func VersionHandler(version, commit, buildTime string) http.HandlerFunc {
	payload, _ := json.Marshal(VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	})

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(payload)
	}
}
