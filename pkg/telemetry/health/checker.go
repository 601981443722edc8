package health

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Component and aggregate status values.
const (
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

// ErrCheckTimeout is the failure recorded for a check that does not
// return within the checker's timeout.
var ErrCheckTimeout = errors.New("health check timeout")

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of a single component check.
type CheckResult struct {
	// Status is StatusOK or StatusUnhealthy
	Status string `json:"status"`

	// Message carries the failure, empty when healthy
	Message string `json:"message,omitempty"`

	// Duration is the wall time the check spent
	Duration time.Duration `json:"duration_ms,omitempty"`
}

// HealthStatus aggregates all component checks for one probe.
type HealthStatus struct {
	// Status is StatusOK, or StatusDegraded when any component failed
	Status string `json:"status"`

	// UptimeSeconds is how long the process has been running
	UptimeSeconds float64 `json:"uptime_seconds"`

	// Checks holds the per-component outcomes
	Checks map[string]CheckResult `json:"checks,omitempty"`

	// Timestamp is when the probe ran
	Timestamp time.Time `json:"timestamp"`
}

// Checker runs named component checks. Registering a name again
// replaces its check.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc

	checkTimeout time.Duration
	started      time.Time
}

// New creates a checker. A zero checkTimeout means 5 seconds per check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout == 0 {
		checkTimeout = 5 * time.Second
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
		started:      time.Now(),
	}
}

// RegisterCheck adds or replaces the check for a named component.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// UnregisterCheck removes a named component's check.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// ListChecks returns the registered component names.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	return names
}

// Uptime returns how long the process has been running.
func (c *Checker) Uptime() time.Duration {
	return time.Since(c.started)
}

// CheckHealth probes every registered component concurrently and
// aggregates the outcomes. A process with no registered checks is
// healthy by definition.
func (c *Checker) CheckHealth(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	type namedResult struct {
		name   string
		result CheckResult
	}

	outcomes := make(chan namedResult, len(checks))
	for name, check := range checks {
		go func(name string, check CheckFunc) {
			outcomes <- namedResult{name: name, result: c.runCheck(ctx, check)}
		}(name, check)
	}

	overall := StatusOK
	results := make(map[string]CheckResult, len(checks))
	for range checks {
		r := <-outcomes
		results[r.name] = r.result
		if r.result.Status == StatusUnhealthy {
			overall = StatusDegraded
		}
	}

	return HealthStatus{
		Status:        overall,
		UptimeSeconds: c.Uptime().Seconds(),
		Checks:        results,
		Timestamp:     time.Now(),
	}
}

// runCheck executes one check under the timeout. The goroutine lets a
// check that ignores its context still time out from the caller's
// point of view.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	done := make(chan error, 1)
	go func() { done <- check(ctx) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ErrCheckTimeout
	}

	result := CheckResult{Status: StatusOK, Duration: time.Since(start)}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
	}
	return result
}
