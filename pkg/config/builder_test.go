package config

import "time"

// ConfigBuilder assembles Config values for tests, starting from the
// package defaults so the result always validates.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig returns a builder seeded with defaults and an inline
// bot token, so tests never read token files or the environment.
func NewTestConfig() *ConfigBuilder {
	cfg := Config{}
	cfg.Purge.Sweep.Enabled = DefaultSweepEnabled
	cfg.Telemetry.Logging.RedactTokens = DefaultRedactTokens
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	cfg.Server.Enabled = DefaultServerEnabled
	ApplyDefaults(&cfg)

	cfg.Bot.Token = "123456789:test-token"

	return &ConfigBuilder{cfg: cfg}
}

// Build hands out the assembled configuration.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

func (b *ConfigBuilder) WithToken(token string) *ConfigBuilder {
	b.cfg.Bot.Token = token
	return b
}

// WithTokenFile points token resolution at a file, clearing the inline
// token so the file is actually consulted.
func (b *ConfigBuilder) WithTokenFile(path string) *ConfigBuilder {
	b.cfg.Bot.TokenFile = path
	b.cfg.Bot.Token = ""
	return b
}

func (b *ConfigBuilder) WithPollTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Bot.PollTimeout = d
	return b
}

func (b *ConfigBuilder) WithStoreBackend(backend string) *ConfigBuilder {
	b.cfg.Store.Backend = backend
	return b
}

// WithSnapshotPath sets the snapshot file path and selects the snapshot
// backend.
func (b *ConfigBuilder) WithSnapshotPath(path string) *ConfigBuilder {
	b.cfg.Store.Snapshot.Path = path
	b.cfg.Store.Backend = "snapshot"
	return b
}

// WithBoltPath sets the bbolt database path and selects the bolt backend.
func (b *ConfigBuilder) WithBoltPath(path string) *ConfigBuilder {
	b.cfg.Store.Bolt.Path = path
	b.cfg.Store.Backend = "bolt"
	return b
}

// WithSQLitePath sets the SQLite database path and selects the sqlite
// backend.
func (b *ConfigBuilder) WithSQLitePath(path string) *ConfigBuilder {
	b.cfg.Store.SQLite.Path = path
	b.cfg.Store.Backend = "sqlite"
	return b
}

func (b *ConfigBuilder) WithDefaultLifetime(window string) *ConfigBuilder {
	b.cfg.Purge.DefaultLifetime = window
	return b
}

func (b *ConfigBuilder) WithSweepEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Purge.Sweep.Enabled = enabled
	return b
}

// WithSweepSchedule sets the sweep cron schedule and turns the sweep on.
func (b *ConfigBuilder) WithSweepSchedule(schedule string) *ConfigBuilder {
	b.cfg.Purge.Sweep.Schedule = schedule
	b.cfg.Purge.Sweep.Enabled = true
	return b
}

func (b *ConfigBuilder) WithLoggingLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

func (b *ConfigBuilder) WithLoggingFormat(format string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Format = format
	return b
}

func (b *ConfigBuilder) WithMetricsEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = enabled
	return b
}

func (b *ConfigBuilder) WithServerEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Server.Enabled = enabled
	return b
}

func (b *ConfigBuilder) WithListenAddress(addr string) *ConfigBuilder {
	b.cfg.Server.ListenAddress = addr
	return b
}

// WithWatcherEnabled toggles the config file watcher, backfilling the
// debounce interval the validator insists on.
func (b *ConfigBuilder) WithWatcherEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Watcher.Enabled = enabled
	if b.cfg.Watcher.DebounceInterval == 0 {
		b.cfg.Watcher.DebounceInterval = DefaultDebounceInterval
	}
	return b
}

// MinimalConfig is shorthand for tests that only need a valid Config
// and do not care what is in it.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
