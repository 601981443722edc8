package metrics

import (
	"strconv"

	"chatops-hq/purgebot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GroupMetrics exposes gauges for the bot's tracked state: how many
// groups have purging switched on, and how many messages each of them
// still holds.
//
// The per-group gauge is labeled by chat id, so its cardinality stays
// bounded by the number of groups the bot administers.
type GroupMetrics struct {
	groups   prometheus.Gauge     // groups with purging activated
	messages *prometheus.GaugeVec // tracked messages per group
}

// NewGroupMetrics creates and registers the group state gauges.
func NewGroupMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GroupMetrics {
	gm := &GroupMetrics{
		groups: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "tracked_groups",
				Help:      "Number of groups with auto purging activated",
			},
		),

		messages: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "tracked_messages",
				Help:      "Number of messages currently tracked per group",
			},
			[]string{"chat_id"},
		),
	}

	registry.MustRegister(
		gm.groups,
		gm.messages,
	)

	return gm
}

// SetGroups updates the tracked group count.
func (gm *GroupMetrics) SetGroups(count int) {
	gm.groups.Set(float64(count))
}

// SetMessages updates the tracked message count for a group.
func (gm *GroupMetrics) SetMessages(chatID int64, count int) {
	gm.messages.WithLabelValues(strconv.FormatInt(chatID, 10)).Set(float64(count))
}

// RemoveMessages drops the message gauge for a group that is no longer
// tracked.
func (gm *GroupMetrics) RemoveMessages(chatID int64) {
	gm.messages.DeleteLabelValues(strconv.FormatInt(chatID, 10))
}
