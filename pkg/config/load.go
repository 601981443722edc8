package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// Defaults are applied before parsing, so omitted fields, including the
// booleans that default to true, keep their default values while explicit
// settings always win. The result is validated before it is returned.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Refill anything the file explicitly blanked out.
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention PURGEBOT_SECTION_FIELD (e.g.,
// PURGEBOT_STORE_BACKEND). Environment variables always take precedence
// over file-based configuration.
//
// The loading sequence is:
//  1. Apply default values
//  2. Load YAML from file
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	// An override can break a configuration the file check passed.
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format
// PURGEBOT_SECTION_FIELD. PURGEBOT_BOT_TOKEN is deliberately absent:
// token resolution, including the environment fallback, lives in
// BotConfig.ResolveToken.
func applyEnvOverrides(cfg *Config) {
	// Bot overrides
	if val := os.Getenv("PURGEBOT_BOT_TOKEN_FILE"); val != "" {
		cfg.Bot.TokenFile = val
	}
	if val := os.Getenv("PURGEBOT_BOT_POLL_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Bot.PollTimeout = d
		}
	}
	if val := os.Getenv("PURGEBOT_BOT_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Bot.RequestTimeout = d
		}
	}
	if val := os.Getenv("PURGEBOT_BOT_DEBUG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Bot.Debug = b
		}
	}

	// Store overrides
	if val := os.Getenv("PURGEBOT_STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("PURGEBOT_STORE_SNAPSHOT_PATH"); val != "" {
		cfg.Store.Snapshot.Path = val
	}
	if val := os.Getenv("PURGEBOT_STORE_BOLT_PATH"); val != "" {
		cfg.Store.Bolt.Path = val
	}
	if val := os.Getenv("PURGEBOT_STORE_SQLITE_PATH"); val != "" {
		cfg.Store.SQLite.Path = val
	}
	if val := os.Getenv("PURGEBOT_STORE_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Store.SQLite.BusyTimeout = d
		}
	}

	// Purge overrides
	if val := os.Getenv("PURGEBOT_PURGE_DEFAULT_LIFETIME"); val != "" {
		cfg.Purge.DefaultLifetime = val
	}
	if val := os.Getenv("PURGEBOT_PURGE_SWEEP_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Purge.Sweep.Enabled = b
		}
	}
	if val := os.Getenv("PURGEBOT_PURGE_SWEEP_SCHEDULE"); val != "" {
		cfg.Purge.Sweep.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("PURGEBOT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PURGEBOT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PURGEBOT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("PURGEBOT_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}

	// Server overrides
	if val := os.Getenv("PURGEBOT_SERVER_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.Enabled = b
		}
	}
	if val := os.Getenv("PURGEBOT_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}

	// Watcher overrides
	if val := os.Getenv("PURGEBOT_WATCHER_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watcher.Enabled = b
		}
	}
}

// ResolveToken returns the bot API token. Sources are checked in order:
// the first line of TokenFile when the file exists, then the Token field,
// then the PURGEBOT_BOT_TOKEN environment variable. The file wins when
// several sources are set. A missing token file is not an error; any
// other read failure is.
func (c *BotConfig) ResolveToken() (string, error) {
	if c.TokenFile != "" {
		token, err := readTokenFile(c.TokenFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to read token file %q: %w", c.TokenFile, err)
		}
		if token != "" {
			return token, nil
		}
	}

	if c.Token != "" {
		return c.Token, nil
	}

	if token := os.Getenv("PURGEBOT_BOT_TOKEN"); token != "" {
		return token, nil
	}

	return "", fmt.Errorf("no bot token found: provide %q, bot.token, or PURGEBOT_BOT_TOKEN", c.TokenFile)
}

// readTokenFile reads the first line of the token file. Trailing
// whitespace, including the newline most editors append, is stripped.
func readTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}
