package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"chatops-hq/purgebot/pkg/bot"
	"chatops-hq/purgebot/pkg/cli"
	"chatops-hq/purgebot/pkg/config"
	"chatops-hq/purgebot/pkg/platform/telegram"
	"chatops-hq/purgebot/pkg/purge"
	"chatops-hq/purgebot/pkg/server"
	"chatops-hq/purgebot/pkg/store"
	"chatops-hq/purgebot/pkg/telemetry/health"
	"chatops-hq/purgebot/pkg/telemetry/logging"
	"chatops-hq/purgebot/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Purgebot event loop",
	Long: `Start Purgebot with the specified configuration.

The bot long-polls the Telegram Bot API for updates, tracks messages in
activated groups, and deletes messages older than each group's lifetime
window. An operational HTTP server exposes health, version, metrics and
group listing endpoints.

Examples:
  # Start with default config
  purgebot run

  # Start with custom config
  purgebot run --config /etc/purgebot/purgebot.yaml

  # Override the operational server listen address
  purgebot run --listen 0.0.0.0:8080

  # Validate config without starting the bot
  purgebot run --dry-run`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override operational server listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the bot")
}

func runBot(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	// Initialize logging based on config
	logger, err := logging.New(logging.Config{
		Level:        cfg.Telemetry.Logging.Level,
		Format:       cfg.Telemetry.Logging.Format,
		AddSource:    cfg.Telemetry.Logging.AddSource,
		RedactTokens: cfg.Telemetry.Logging.RedactTokens,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	// Parse the default lifetime up front so a bad window fails before
	// anything opens.
	lifetime, err := cfg.Purge.Lifetime()
	if err != nil {
		return cli.NewConfigError("purge.default_lifetime", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	// Print startup banner
	printBanner(cfg)

	// Resolve the bot token
	token, err := cfg.Bot.ResolveToken()
	if err != nil {
		return cli.NewConfigError("bot.token", err.Error())
	}

	// Open the group state store
	slog.Info("opening store", "backend", cfg.Store.Backend)
	st, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("open store: %w", err))
	}
	defer st.Close()

	fmt.Printf("✓ Store opened (%s backend)\n", cfg.Store.Backend)

	// Connect the Telegram client
	messenger, err := telegram.NewClient(telegram.Config{
		Token:          token,
		PollTimeout:    cfg.Bot.PollTimeout,
		RequestTimeout: cfg.Bot.RequestTimeout,
		Debug:          cfg.Bot.Debug,
	})
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("connect to telegram: %w", err))
	}
	defer messenger.Close()

	fmt.Println("✓ Telegram client connected")

	// Metrics collector (nil runs the bot uninstrumented)
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	// Purge engine and event loop
	engine := purge.NewEngine(st, messenger, collector, logger)
	b := bot.New(bot.Config{DefaultLifetime: lifetime}, messenger, st, engine, collector, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := b.Run(ctx); err != nil {
			errChan <- fmt.Errorf("bot error: %w", err)
		}
	}()

	fmt.Println("✓ Event loop started")

	// Scheduled sweeps over idle groups
	var scheduler *purge.Scheduler
	if cfg.Purge.Sweep.Enabled {
		scheduler = purge.NewScheduler(cfg.Purge.Sweep.Schedule, b.RequestSweep, logger)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("run", fmt.Errorf("start sweep scheduler: %w", err))
		}
		defer scheduler.Stop()

		if next := scheduler.NextRun(); next != nil {
			slog.Debug("sweep scheduler started", "next_run", next)
		}
		fmt.Printf("✓ Sweep scheduler started (%s)\n", cfg.Purge.Sweep.Schedule)
	}

	// Operational HTTP server
	var srv *server.Server
	if cfg.Server.Enabled {
		checker := health.New(0)
		checker.RegisterCheck("store", func(ctx context.Context) error {
			_, err := st.Len(ctx)
			return err
		})
		if scheduler != nil {
			checker.RegisterCheck("scheduler", func(ctx context.Context) error {
				if !scheduler.IsRunning() {
					return fmt.Errorf("sweep scheduler not running")
				}
				return nil
			})
		}

		build := server.BuildInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate}
		srv = server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, checker, collector, b, build)

		go func() {
			slog.Info("starting operational server", "address", cfg.Server.ListenAddress)
			if err := srv.Start(ctx); err != nil {
				errChan <- fmt.Errorf("server error: %w", err)
			}
		}()

		fmt.Println()
		fmt.Printf("✓ Operational server listening on %s\n", cfg.Server.ListenAddress)
		fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Server.ListenAddress)
		if cfg.Telemetry.Metrics.Enabled {
			fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
		}
	}

	// Config file watcher for hot reload
	if cfg.Watcher.Enabled {
		watcher, err := config.NewWatcher(cfgFile, cfg.Watcher.DebounceInterval, logger)
		if err != nil {
			slog.Warn("failed to create config watcher", "error", err)
		} else {
			defer watcher.Stop()
			go func() {
				err := watcher.Watch(ctx, func() error {
					if err := config.ReloadConfig(cfgFile); err != nil {
						return err
					}
					slog.Info("configuration reloaded")
					return nil
				})
				if err != nil {
					slog.Warn("config watcher exited", "error", err)
				}
			}()
			fmt.Println("✓ Config watcher started")
		}
	}

	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for shutdown signal or component failure
	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		if scheduler != nil {
			scheduler.Stop()
		}

		if srv != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("server shutdown failed", "error", err)
			}
		}

		// Flush before the deferred Close so persistence failures are
		// surfaced as a command error instead of vanishing.
		flushCtx, flushCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer flushCancel()

		if err := st.Flush(flushCtx); err != nil {
			slog.Error("store flush failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Bot stopped")
		return nil
	}
}

// openStore opens the group state store named by the configuration.
func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "snapshot":
		return store.OpenSnapshotStore(cfg.Store.Snapshot.Path)
	case "bolt":
		return store.OpenBoltStore(cfg.Store.Bolt.Path)
	case "sqlite":
		return store.OpenSQLiteStoreWithConfig(store.SQLiteStoreConfig{
			DBPath:             cfg.Store.SQLite.Path,
			BusyTimeout:        cfg.Store.SQLite.BusyTimeout,
			CheckpointInterval: cfg.Store.SQLite.CheckpointInterval,
		})
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Purgebot v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	slog.Debug("store configured", "backend", cfg.Store.Backend)

	if cfg.Purge.Sweep.Enabled {
		slog.Debug("sweep configured", "schedule", cfg.Purge.Sweep.Schedule)
	}

	if cfg.Telemetry.Metrics.Enabled {
		slog.Debug("metrics enabled", "path", cfg.Telemetry.Metrics.Path)
	}
}
