package metrics

import (
	"time"

	"chatops-hq/purgebot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PurgeMetrics records pass counts, durations and deletion totals for
// purge passes.
type PurgeMetrics struct {
	// Pass count by trigger and outcome
	passesTotal *prometheus.CounterVec

	// Pass duration histogram by trigger
	passDuration *prometheus.HistogramVec

	// Messages actually deleted
	deletedTotal prometheus.Counter

	// Deletions that failed because the message was already gone
	toleratedTotal prometheus.Counter
}

// NewPurgeMetrics creates the purge pass metrics and registers them on
// registry.
func NewPurgeMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PurgeMetrics {
	pm := &PurgeMetrics{
		passesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "purge_passes_total",
				Help:      "Total number of purge passes executed",
			},
			[]string{"trigger", "status"},
		),

		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "purge_pass_duration_seconds",
				Help:      "Duration of purge passes in seconds",
				Buckets:   cfg.PassDurationBuckets,
			},
			[]string{"trigger"},
		),

		deletedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "purge_deleted_messages_total",
				Help:      "Total number of messages deleted by purge passes",
			},
		),

		toleratedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "purge_tolerated_failures_total",
				Help:      "Total number of deletions skipped because the message was already gone",
			},
		),
	}

	registry.MustRegister(
		pm.passesTotal,
		pm.passDuration,
		pm.deletedTotal,
		pm.toleratedTotal,
	)

	return pm
}

// RecordPass records one completed pass. The trigger is "message",
// "command" or "sweep" and status is "success" or "error". Deleted
// counts messages actually removed; tolerated counts deletions skipped
// because the message was already gone.
func (pm *PurgeMetrics) RecordPass(trigger, status string, duration time.Duration, deleted, tolerated int) {
	pm.passesTotal.WithLabelValues(trigger, status).Inc()
	pm.passDuration.WithLabelValues(trigger).Observe(duration.Seconds())

	if deleted > 0 {
		pm.deletedTotal.Add(float64(deleted))
	}
	if tolerated > 0 {
		pm.toleratedTotal.Add(float64(tolerated))
	}
}
