package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"chatops-hq/purgebot/pkg/timewindow"
)

// FieldError names one bad configuration value by its dotted path,
// such as "store.backend".
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found in a configuration,
// so an operator fixing a config file sees all problems in one run
// instead of one per restart.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "configuration validation failed"
	case 1:
		return "configuration validation failed: " + e.Errors[0].Error()
	}

	lines := make([]string, 0, len(e.Errors)+1)
	lines = append(lines, fmt.Sprintf("configuration validation failed with %d errors:", len(e.Errors)))
	for _, err := range e.Errors {
		lines = append(lines, "  - "+err.Error())
	}
	return strings.Join(lines, "\n") + "\n"
}

// Validate checks every section of the configuration and returns a
// ValidationError carrying all failures, or nil when the configuration
// is usable.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateBot(&cfg.Bot)...)
	errs = append(errs, validateStore(&cfg.Store)...)
	errs = append(errs, validatePurge(&cfg.Purge)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateWatcher(&cfg.Watcher)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateBot validates Telegram connection configuration. The token
// itself is a runtime concern (it may arrive via file or environment)
// and is resolved separately by ResolveToken.
func validateBot(cfg *BotConfig) []FieldError {
	var errs []FieldError

	if cfg.PollTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "bot.poll_timeout",
			Message: "poll timeout must be positive",
		})
	}
	if cfg.PollTimeout > 120*time.Second {
		errs = append(errs, FieldError{
			Field:   "bot.poll_timeout",
			Message: "poll timeout exceeds reasonable limit (120s)",
		})
	}
	if cfg.RequestTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "bot.request_timeout",
			Message: "request timeout must be positive",
		})
	}

	return errs
}

// validateStore checks the backend choice and whatever settings that
// backend needs.
func validateStore(cfg *StoreConfig) []FieldError {
	var errs []FieldError

	validBackends := map[string]bool{"memory": true, "snapshot": true, "bolt": true, "sqlite": true}
	if cfg.Backend == "" {
		errs = append(errs, FieldError{
			Field:   "store.backend",
			Message: "backend is required",
		})
	} else if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "store.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory', 'snapshot', 'bolt', or 'sqlite'", cfg.Backend),
		})
	}

	switch cfg.Backend {
	case "snapshot":
		if cfg.Snapshot.Path == "" {
			errs = append(errs, FieldError{
				Field:   "store.snapshot.path",
				Message: "snapshot path is required when backend is 'snapshot'",
			})
		}
	case "bolt":
		if cfg.Bolt.Path == "" {
			errs = append(errs, FieldError{
				Field:   "store.bolt.path",
				Message: "bolt path is required when backend is 'bolt'",
			})
		}
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "store.sqlite.path",
				Message: "SQLite path is required when backend is 'sqlite'",
			})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "store.sqlite.busy_timeout",
				Message: "busy timeout must be positive",
			})
		}
		if cfg.SQLite.CheckpointInterval < 0 {
			errs = append(errs, FieldError{
				Field:   "store.sqlite.checkpoint_interval",
				Message: "checkpoint interval must be positive",
			})
		}
	}

	return errs
}

// validatePurge checks the lifetime window grammar and, when sweeps
// are on, the cron schedule.
func validatePurge(cfg *PurgeConfig) []FieldError {
	var errs []FieldError

	if cfg.DefaultLifetime == "" {
		errs = append(errs, FieldError{
			Field:   "purge.default_lifetime",
			Message: "default lifetime is required",
		})
	} else if lifetime, err := timewindow.Parse(cfg.DefaultLifetime); err != nil {
		errs = append(errs, FieldError{
			Field:   "purge.default_lifetime",
			Message: fmt.Sprintf("invalid window %q: combine day, hour, minute, and second segments such as \"30d\" or \"1d12hr\"", cfg.DefaultLifetime),
		})
	} else if lifetime == 0 {
		errs = append(errs, FieldError{
			Field:   "purge.default_lifetime",
			Message: "default lifetime must be greater than zero",
		})
	}

	if cfg.Sweep.Enabled {
		if cfg.Sweep.Schedule == "" {
			errs = append(errs, FieldError{
				Field:   "purge.sweep.schedule",
				Message: "schedule is required when sweeps are enabled",
			})
		} else if _, err := cron.ParseStandard(cfg.Sweep.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "purge.sweep.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Sweep.Schedule, err),
			})
		}
	}

	return errs
}

// validateTelemetry checks logging and metrics settings.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'text' or 'json'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}

		// Histogram buckets must be positive and strictly increasing
		for i, bucket := range cfg.Metrics.PassDurationBuckets {
			if bucket <= 0 {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.pass_duration_buckets",
					Message: fmt.Sprintf("bucket %d must be positive", i),
				})
			}
			if i > 0 && bucket <= cfg.Metrics.PassDurationBuckets[i-1] {
				errs = append(errs, FieldError{
					Field:   "telemetry.metrics.pass_duration_buckets",
					Message: fmt.Sprintf("bucket %d must be greater than bucket %d", i, i-1),
				})
			}
		}
	}

	return errs
}

// validateServer checks listen and timeout settings. A disabled
// server skips them all.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required when the server is enabled",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}

	return errs
}

// validateWatcher checks hot-reload settings when the watcher is on.
func validateWatcher(cfg *WatcherConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "watcher.debounce_interval",
			Message: "debounce interval must be positive",
		})
	}

	return errs
}
