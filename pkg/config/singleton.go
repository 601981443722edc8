package config

import (
	"fmt"
	"sync"
)

// The process-wide configuration. Startup installs it once through
// Initialize; the file watcher swaps it through ReloadConfig.
var (
	global   *Config
	globalMu sync.RWMutex
	loadOnce sync.Once
)

// Initialize loads the configuration file, applies PURGEBOT_* overrides,
// and installs the result as the process-wide configuration. Only the
// first call does anything; later calls return nil without reloading.
func Initialize(path string) error {
	var initErr error

	loadOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}
		SetConfig(cfg)
	})

	return initErr
}

// ReloadConfig loads the file again and swaps the process-wide
// configuration, so a changed log level or sweep toggle lands without
// a restart. On a load or validation error the previous configuration
// stays installed.
func ReloadConfig(path string) error {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return fmt.Errorf("reload configuration: %w", err)
	}

	SetConfig(cfg)
	return nil
}

// GetConfig returns the process-wide configuration, or nil before a
// successful Initialize.
func GetConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// MustGetConfig is GetConfig for paths that run strictly after startup
// succeeded. It panics when no configuration is installed.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("config: MustGetConfig before Initialize")
	}
	return cfg
}

// SetConfig installs cfg as the process-wide configuration, bypassing
// loading and validation. Tests use it to inject built configs.
func SetConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = cfg
}
