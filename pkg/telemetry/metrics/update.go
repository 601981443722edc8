package metrics

import (
	"chatops-hq/purgebot/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpdateMetrics counts incoming Telegram updates and the commands
// handled from them.
type UpdateMetrics struct {
	updatesTotal  *prometheus.CounterVec // by classification
	commandsTotal *prometheus.CounterVec // by command name and outcome
}

// NewUpdateMetrics registers the update counters on registry.
func NewUpdateMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpdateMetrics {
	um := &UpdateMetrics{
		updatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "updates_total",
				Help:      "Total number of Telegram updates received",
			},
			[]string{"result"},
		),

		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "commands_total",
				Help:      "Total number of bot commands handled",
			},
			[]string{"command", "status"},
		),
	}

	registry.MustRegister(
		um.updatesTotal,
		um.commandsTotal,
	)

	return um
}

// RecordUpdate counts one received update, classified as "command",
// "message" or "ignored".
func (um *UpdateMetrics) RecordUpdate(result string) {
	um.updatesTotal.WithLabelValues(result).Inc()
}

// RecordCommand counts one handled command. The command name carries
// no slash; status is "ok", "denied", "rejected" or "error".
func (um *UpdateMetrics) RecordCommand(command, status string) {
	um.commandsTotal.WithLabelValues(command, status).Inc()
}
