package config

import (
	"time"

	"chatops-hq/purgebot/pkg/timewindow"
)

// Config is the root configuration structure for purgebot.
// It contains all configuration sections for the Telegram connection,
// group state storage, purge behaviour, telemetry, the ops HTTP server,
// and configuration hot reload.
type Config struct {
	// Bot contains Telegram connection configuration including the token
	// source, polling behaviour, and API timeouts.
	Bot BotConfig `yaml:"bot"`

	// Store contains group state storage configuration including backend
	// selection and backend-specific settings.
	Store StoreConfig `yaml:"store"`

	// Purge contains purge behaviour configuration including the default
	// message lifetime and the periodic sweep.
	Purge PurgeConfig `yaml:"purge"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Server contains configuration for the ops HTTP server exposing
	// health, metrics, version, and group listing endpoints.
	Server ServerConfig `yaml:"server"`

	// Watcher contains configuration for hot reloading this file.
	Watcher WatcherConfig `yaml:"watcher"`
}

// BotConfig contains Telegram connection configuration.
type BotConfig struct {
	// Token is the bot API token. Prefer TokenFile or the
	// PURGEBOT_BOT_TOKEN environment variable over embedding the token
	// in the configuration file.
	Token string `yaml:"token"`

	// TokenFile is the path to a file whose first line is the bot API
	// token. When the file exists it takes precedence over Token and
	// the environment variable.
	// Default: "token.txt"
	TokenFile string `yaml:"token_file"`

	// PollTimeout is the long-poll timeout for update requests. Longer
	// timeouts mean fewer idle requests against the Bot API.
	// Default: 30s
	PollTimeout time.Duration `yaml:"poll_timeout"`

	// RequestTimeout bounds ordinary API calls such as deletions,
	// replies, and chat lookups.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Debug enables verbose request logging inside the Bot API library.
	// The raw output includes the token, so keep this off in production.
	// Default: false
	Debug bool `yaml:"debug"`
}

// StoreConfig contains group state storage configuration.
type StoreConfig struct {
	// Backend specifies the storage backend for group state.
	// Options: "memory", "snapshot", "bolt", "sqlite"
	// Default: "snapshot"
	Backend string `yaml:"backend"`

	// Snapshot contains snapshot backend configuration.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Bolt contains bolt backend configuration.
	Bolt BoltConfig `yaml:"bolt"`

	// SQLite contains SQLite backend configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SnapshotConfig contains snapshot backend configuration. The snapshot
// backend keeps all state in memory and writes the whole group mapping
// to a single gob file on flush.
type SnapshotConfig struct {
	// Path is the snapshot file path.
	// Default: "data/groups.gob"
	Path string `yaml:"path"`
}

// BoltConfig contains bolt backend configuration.
type BoltConfig struct {
	// Path is the bolt database file path.
	// Default: "data/groups.bolt"
	Path string `yaml:"path"`
}

// SQLiteConfig contains SQLite backend configuration.
type SQLiteConfig struct {
	// Path is the SQLite database file path.
	// Default: "data/groups.db"
	Path string `yaml:"path"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// CheckpointInterval is how often the write-ahead log is checkpointed.
	// Default: 5m
	CheckpointInterval time.Duration `yaml:"checkpoint_interval"`
}

// PurgeConfig contains purge behaviour configuration.
type PurgeConfig struct {
	// DefaultLifetime is the message lifetime assigned to newly activated
	// groups, in window notation combining days, hours, minutes, and
	// seconds (e.g. "30d", "1d12hr", "90s").
	// Default: "36500d"
	DefaultLifetime string `yaml:"default_lifetime"`

	// Sweep contains periodic sweep configuration.
	Sweep SweepConfig `yaml:"sweep"`
}

// Lifetime parses DefaultLifetime into a duration.
func (c *PurgeConfig) Lifetime() (time.Duration, error) {
	return timewindow.Parse(c.DefaultLifetime)
}

// SweepConfig contains periodic sweep configuration. Sweeps purge groups
// that receive no traffic of their own.
type SweepConfig struct {
	// Enabled controls whether periodic sweeps run.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression for sweep scheduling. Standard
	// five-field expressions and @every intervals are both accepted.
	// Default: "@every 5m"
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "text", "json"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactTokens masks bot tokens and other credentials wherever they
	// appear in log messages or attributes.
	// Default: true
	RedactTokens bool `yaml:"redact_tokens"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint on the
	// ops server.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "purgebot"
	Namespace string `yaml:"namespace"`

	// PassDurationBuckets defines histogram buckets for purge pass
	// duration in seconds.
	// Default: [0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0]
	PassDurationBuckets []float64 `yaml:"pass_duration_buckets"`
}

// ServerConfig contains configuration for the ops HTTP server.
type ServerConfig struct {
	// Enabled controls whether the ops server runs.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address and port for the ops server.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out a response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// WatcherConfig contains configuration for configuration hot reload.
type WatcherConfig struct {
	// Enabled controls whether the configuration file is watched for
	// changes. Only safe fields (log level, sweep toggle) take effect
	// without a restart.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// DebounceInterval is the quiet period after a file change before
	// the configuration is reloaded. Editors often emit several events
	// per save.
	// Default: 500ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}
