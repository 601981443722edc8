package metrics

import (
	"time"

	"chatops-hq/purgebot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric purgebot exports and hands the
// bot, the purge engine and the sweep scheduler one place to record
// them. Recording methods are safe for concurrent use; with metrics
// disabled in the configuration they are no-ops, so callers never guard
// their own calls.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	updateMetrics *UpdateMetrics // received updates and handled commands
	purgeMetrics  *PurgeMetrics  // purge pass outcomes and volumes
	groupMetrics  *GroupMetrics  // gauges over tracked state
}

// NewCollector builds a collector on the given registry, creating a
// fresh private registry when nil. Namespace and histogram buckets
// missing from cfg are filled with purgebot defaults.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "purgebot"
	}
	if len(cfg.PassDurationBuckets) == 0 {
		// A pass is a sequence of Bot API calls, from a handful of
		// milliseconds for an empty pass to tens of seconds for a
		// large backlog.
		cfg.PassDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		updateMetrics: NewUpdateMetrics(cfg, registry),
		purgeMetrics:  NewPurgeMetrics(cfg, registry),
		groupMetrics:  NewGroupMetrics(cfg, registry),
	}
}

// RecordUpdate counts a received update by how the event loop classified
// it: "command", "message" or "ignored".
func (c *Collector) RecordUpdate(result string) {
	if !c.config.Enabled {
		return
	}
	c.updateMetrics.RecordUpdate(result)
}

// RecordCommand counts a handled bot command. The command label carries
// the name without the slash and status one of "ok", "denied",
// "rejected" or "error".
func (c *Collector) RecordCommand(command, status string) {
	if !c.config.Enabled {
		return
	}
	c.updateMetrics.RecordCommand(command, status)
}

// RecordPurgePass records a completed purge pass: what triggered it
// ("message", "command" or "sweep"), whether it succeeded, how long the
// walk took, and how many messages were deleted outright versus already
// gone when the delete call reached Telegram.
func (c *Collector) RecordPurgePass(trigger, status string, duration time.Duration, deleted, tolerated int) {
	if !c.config.Enabled {
		return
	}
	c.purgeMetrics.RecordPass(trigger, status, duration, deleted, tolerated)
}

// SetTrackedGroups updates the gauge of groups with purging activated.
func (c *Collector) SetTrackedGroups(count int) {
	if !c.config.Enabled {
		return
	}
	c.groupMetrics.SetGroups(count)
}

// SetTrackedMessages updates the per-group gauge of tracked messages.
func (c *Collector) SetTrackedMessages(chatID int64, count int) {
	if !c.config.Enabled {
		return
	}
	c.groupMetrics.SetMessages(chatID, count)
}

// RemoveTrackedMessages drops the per-group gauge once a group is
// deactivated, so stale series do not linger in scrapes.
func (c *Collector) RemoveTrackedMessages(chatID int64) {
	if !c.config.Enabled {
		return
	}
	c.groupMetrics.RemoveMessages(chatID)
}

// Registry exposes the underlying registry for callers that need to
// register their own metrics next to the collector's. Most callers want
// Handler instead.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
