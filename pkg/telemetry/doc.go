// Package telemetry provides observability for purgebot.
//
// # Components
//
//   - logging: structured slog logging with bot token redaction
//   - metrics: Prometheus metrics collection on a private registry
//   - health: liveness and readiness checks for the ops server
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//		Level:        cfg.Telemetry.Logging.Level,
//		Format:       cfg.Telemetry.Logging.Format,
//		RedactTokens: cfg.Telemetry.Logging.RedactTokens,
//	})
//	slog.SetDefault(logger)
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordPurgePass("sweep", "success", elapsed, deleted, tolerated)
//
//	checker := health.New(0)
//	checker.RegisterCheck("store", func(ctx context.Context) error {
//		_, err := st.Len(ctx)
//		return err
//	})
//
// # Token redaction
//
// Telegram bot tokens authenticate every API call, and the update
// stream embeds them in request URLs. When redaction is enabled the
// logging handler masks anything shaped like a token before it reaches
// a sink:
//
//	123456789:AAHn3k2v... becomes ***:***
//
// Redaction applies to message text and attribute values alike.
package telemetry
