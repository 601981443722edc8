package config

import "time"

// Default values for configuration fields.
const (
	// Bot defaults
	DefaultTokenFile      = "token.txt"
	DefaultPollTimeout    = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Second

	// Store defaults
	DefaultStoreBackend             = "snapshot"
	DefaultSnapshotPath             = "data/groups.gob"
	DefaultBoltPath                 = "data/groups.bolt"
	DefaultSQLitePath               = "data/groups.db"
	DefaultSQLiteBusyTimeout        = 5 * time.Second
	DefaultSQLiteCheckpointInterval = 5 * time.Minute

	// Purge defaults
	DefaultLifetimeWindow = "36500d"
	DefaultSweepEnabled   = true
	DefaultSweepSchedule  = "@every 5m"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultRedactTokens     = true
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "purgebot"

	// Server defaults
	DefaultServerEnabled   = true
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	// Watcher defaults
	DefaultWatcherEnabled   = false
	DefaultDebounceInterval = 500 * time.Millisecond
)

// DefaultPassDurationBuckets are the default histogram buckets for purge
// pass duration, in seconds.
var DefaultPassDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}

// DefaultConfig returns a configuration populated with every default,
// including the booleans that default to true. Loading unmarshals YAML
// on top of this value, so omitted fields keep their defaults while an
// explicit "enabled: false" still takes effect.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Purge.Sweep.Enabled = DefaultSweepEnabled
	cfg.Telemetry.Logging.RedactTokens = DefaultRedactTokens
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Server.Enabled = DefaultServerEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct. It fills in
// any fields that have zero values but leaves booleans alone: false is a
// meaningful setting, and DefaultConfig covers the booleans whose default
// is true. This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Bot defaults
	if cfg.Bot.TokenFile == "" {
		cfg.Bot.TokenFile = DefaultTokenFile
	}
	if cfg.Bot.PollTimeout == 0 {
		cfg.Bot.PollTimeout = DefaultPollTimeout
	}
	if cfg.Bot.RequestTimeout == 0 {
		cfg.Bot.RequestTimeout = DefaultRequestTimeout
	}

	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.Snapshot.Path == "" {
		cfg.Store.Snapshot.Path = DefaultSnapshotPath
	}
	if cfg.Store.Bolt.Path == "" {
		cfg.Store.Bolt.Path = DefaultBoltPath
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Store.SQLite.BusyTimeout == 0 {
		cfg.Store.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Store.SQLite.CheckpointInterval == 0 {
		cfg.Store.SQLite.CheckpointInterval = DefaultSQLiteCheckpointInterval
	}

	// Purge defaults
	if cfg.Purge.DefaultLifetime == "" {
		cfg.Purge.DefaultLifetime = DefaultLifetimeWindow
	}
	if cfg.Purge.Sweep.Schedule == "" {
		cfg.Purge.Sweep.Schedule = DefaultSweepSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.PassDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.PassDurationBuckets = append([]float64(nil), DefaultPassDurationBuckets...)
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Watcher defaults
	if cfg.Watcher.DebounceInterval == 0 {
		cfg.Watcher.DebounceInterval = DefaultDebounceInterval
	}
}
