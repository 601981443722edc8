package config

import (
	"testing"
	"time"
)

func TestNewTestConfig(t *testing.T) {
	cfg := NewTestConfig().Build()

	if cfg.Store.Backend != DefaultStoreBackend {
		t.Errorf("store backend = %q, want default %q", cfg.Store.Backend, DefaultStoreBackend)
	}
	if cfg.Bot.PollTimeout != DefaultPollTimeout {
		t.Errorf("poll timeout = %v, want default %v", cfg.Bot.PollTimeout, DefaultPollTimeout)
	}
	if cfg.Purge.DefaultLifetime != DefaultLifetimeWindow {
		t.Errorf("default lifetime = %q, want %q", cfg.Purge.DefaultLifetime, DefaultLifetimeWindow)
	}
	if !cfg.Purge.Sweep.Enabled {
		t.Error("sweep is disabled in the test config")
	}

	// The builder seeds an inline token so tests never touch token
	// files or the environment.
	token, err := cfg.Bot.ResolveToken()
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if token == "" || token != cfg.Bot.Token {
		t.Errorf("resolved token = %q, want the inline token %q", token, cfg.Bot.Token)
	}
}

func TestConfigBuilder_WithListenAddress(t *testing.T) {
	cfg := NewTestConfig().
		WithListenAddress("127.0.0.1:9100").
		Build()

	if cfg.Server.ListenAddress != "127.0.0.1:9100" {
		t.Errorf("listen address = %q, want 127.0.0.1:9100", cfg.Server.ListenAddress)
	}
}

func TestConfigBuilder_WithTokenFile(t *testing.T) {
	cfg := NewTestConfig().
		WithTokenFile("/etc/purgebot/token.txt").
		Build()

	if cfg.Bot.TokenFile != "/etc/purgebot/token.txt" {
		t.Errorf("expected token file %q, got %q", "/etc/purgebot/token.txt", cfg.Bot.TokenFile)
	}
	if cfg.Bot.Token != "" {
		t.Errorf("expected inline token to be cleared, got %q", cfg.Bot.Token)
	}
}

func TestConfigBuilder_WithSweepSchedule(t *testing.T) {
	cfg := NewTestConfig().
		WithSweepEnabled(false).
		WithSweepSchedule("@every 30s").
		Build()

	if cfg.Purge.Sweep.Schedule != "@every 30s" {
		t.Errorf("expected sweep schedule %q, got %q", "@every 30s", cfg.Purge.Sweep.Schedule)
	}
	if !cfg.Purge.Sweep.Enabled {
		t.Error("expected sweep to be enabled when schedule is set")
	}
}

func TestConfigBuilder_WithStoreBackends(t *testing.T) {
	tests := []struct {
		name    string
		builder func() *ConfigBuilder
		want    string
	}{
		{
			name: "snapshot",
			builder: func() *ConfigBuilder {
				return NewTestConfig().WithSnapshotPath("/tmp/groups.gob")
			},
			want: "snapshot",
		},
		{
			name: "bolt",
			builder: func() *ConfigBuilder {
				return NewTestConfig().WithBoltPath("/tmp/groups.bolt")
			},
			want: "bolt",
		},
		{
			name: "sqlite",
			builder: func() *ConfigBuilder {
				return NewTestConfig().WithSQLitePath("/tmp/groups.db")
			},
			want: "sqlite",
		},
		{
			name: "memory",
			builder: func() *ConfigBuilder {
				return NewTestConfig().WithStoreBackend("memory")
			},
			want: "memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.builder().Build()
			if cfg.Store.Backend != tt.want {
				t.Errorf("expected backend %q, got %q", tt.want, cfg.Store.Backend)
			}
			if err := Validate(cfg); err != nil {
				t.Errorf("expected %s config to be valid, got error: %v", tt.name, err)
			}
		})
	}
}

func TestConfigBuilder_WithWatcherEnabled(t *testing.T) {
	cfg := NewTestConfig().
		WithWatcherEnabled(true).
		Build()

	if !cfg.Watcher.Enabled {
		t.Error("expected watcher to be enabled")
	}
	if cfg.Watcher.DebounceInterval == 0 {
		t.Error("expected debounce interval to be set")
	}
}

func TestConfigBuilder_ChainedCalls(t *testing.T) {
	cfg := NewTestConfig().
		WithDefaultLifetime("2d").
		WithPollTimeout(10 * time.Second).
		WithListenAddress("127.0.0.1:8081").
		WithLoggingLevel("debug").
		WithMetricsEnabled(false).
		Build()

	if got := cfg.Purge.DefaultLifetime; got != "2d" {
		t.Errorf("default lifetime = %q, want 2d", got)
	}
	if got := cfg.Bot.PollTimeout; got != 10*time.Second {
		t.Errorf("poll timeout = %v, want 10s", got)
	}
	if got := cfg.Server.ListenAddress; got != "127.0.0.1:8081" {
		t.Errorf("listen address = %q, want 127.0.0.1:8081", got)
	}
	if got := cfg.Telemetry.Logging.Level; got != "debug" {
		t.Errorf("logging level = %q, want debug", got)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("metrics still enabled after WithMetricsEnabled(false)")
	}
}

func TestMinimalConfig(t *testing.T) {
	if err := Validate(MinimalConfig()); err != nil {
		t.Errorf("MinimalConfig does not validate: %v", err)
	}
}

func TestPurgeConfig_Lifetime(t *testing.T) {
	tests := []struct {
		name    string
		window  string
		want    time.Duration
		wantErr bool
	}{
		{name: "hours", window: "48hr", want: 48 * time.Hour},
		{name: "days", window: "7d", want: 7 * 24 * time.Hour},
		{name: "combined", window: "1d12hr", want: 36 * time.Hour},
		{name: "seconds", window: "90s", want: 90 * time.Second},
		{name: "go duration syntax rejected", window: "48h", wantErr: true},
		{name: "words rejected", window: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := PurgeConfig{DefaultLifetime: tt.window}
			got, err := cfg.Lifetime()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for window %q, got none", tt.window)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected lifetime %v, got %v", tt.want, got)
			}
		})
	}
}
