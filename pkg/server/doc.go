// Package server runs purgebot's operational HTTP server.
//
// The server sits next to the bot's update loop and exists solely for
// operators and monitoring systems. Telegram traffic never touches it;
// the Bot API is consumed over long polling, so there is no inbound
// webhook listener to secure.
//
// Four endpoints are mounted:
//
//   - GET /healthz, aggregated component health, 200 healthy and 503 degraded
//   - GET /metrics, Prometheus metrics, present only when metrics are enabled
//   - GET /version, the build stamped into the binary
//   - GET /groups, the groups with purging activated
//
// Every request is wrapped in panic recovery and debug-level request
// logging. /groups reads the state store directly and never touches
// the update loop, so a slow scrape cannot stall message handling.
//
// Wiring happens once at startup:
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("store", storeCheck)
//
//	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, checker,
//	    collector, theBot, server.BuildInfo{Version: "1.0.0"})
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until the context is cancelled or Shutdown is called.
// Shutdown stops accepting connections, drains active ones up to the
// configured timeout, then forces closure; calling it twice is
// harmless.
package server
