// Package metrics provides Prometheus instrumentation for purgebot.
//
// The Collector owns a private Prometheus registry and groups the
// bot's metric families:
//
//   - Update metrics: updates received and commands handled
//   - Purge metrics: pass counts, durations, deleted and tolerated
//     message counts
//   - Group metrics: gauges for tracked groups and per-group tracked
//     messages
//
// All metric names share the configured namespace (default "purgebot").
// Recording methods are cheap no-ops when metrics are disabled, so
// callers never need to guard call sites.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordPurgePass("sweep", "success", elapsed, deleted, tolerated)
//
//	// Expose on the ops server:
//	mux.Handle("/metrics", collector.Handler())
package metrics
