package purge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler requests periodic sweep passes on a cron schedule.
//
// It never runs passes itself. Each tick invokes the sweep callback,
// which hands the request to the bot's event loop so sweeps serialize
// with update handling. Idle groups whose messages age out between
// updates are drained this way.
type Scheduler struct {
	schedule string
	sweep    func()
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	added   bool
	running bool
}

// NewScheduler creates a sweep scheduler. The schedule accepts
// five-field cron expressions and descriptors such as "@every 5m".
// An empty schedule disables sweeping.
func NewScheduler(schedule string, sweep func(), logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		schedule: schedule,
		sweep:    sweep,
		cron:     cron.New(),
		logger:   logger.With("component", "purge.scheduler"),
	}
}

// Start begins scheduled sweeping and stops again when ctx is
// cancelled. With an empty schedule it logs and returns nil. Starting
// an already-running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("no sweep schedule, periodic sweeps disabled")
		return nil
	}
	if s.running {
		return nil
	}

	// AddFunc parses the expression, so a bad schedule surfaces here.
	if !s.added {
		if _, err := s.cron.AddFunc(s.schedule, s.tick); err != nil {
			return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
		}
		s.added = true
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("sweep scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// tick requests one sweep from the event loop.
func (s *Scheduler) tick() {
	s.logger.Debug("sweep tick")
	s.sweep()
}

// Stop halts scheduling and waits for an in-flight tick to finish.
// Stopping an idle scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("sweep scheduler stopped")
}

// IsRunning reports whether the scheduler is started.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when nothing
// is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
