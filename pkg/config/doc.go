// Package config loads, validates and serves purgebot's configuration.
//
// Configuration lives in a YAML file, with defaults filled in for
// anything the file omits and PURGEBOT_* environment variables applied
// on top. Later sources win: defaults, then the file, then the
// environment. The merged result is validated before anything runs
// with it.
//
//	cfg, err := config.LoadConfigWithEnvOverrides("purgebot.yaml")
//
// LoadConfig does the same without consulting the environment, which
// keeps tests hermetic.
//
// # Environment Variables
//
// Override names follow PURGEBOT_SECTION_FIELD:
//
//   - PURGEBOT_STORE_BACKEND overrides store.backend
//   - PURGEBOT_PURGE_DEFAULT_LIFETIME overrides purge.default_lifetime
//   - PURGEBOT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Bot Token
//
// The bot token is resolved by BotConfig.ResolveToken rather than
// during loading, so validation never requires credentials. Sources are
// checked in order: the first line of the token file (default
// "token.txt"), the bot.token field, and the PURGEBOT_BOT_TOKEN
// environment variable. The file wins when several sources are set.
//
// # Process-Wide Access
//
// The purgebot binary installs the loaded configuration once at startup
// and reads it through the package singleton:
//
//	if err := config.Initialize("purgebot.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// Tests should pass explicit *Config values instead of going through
// the singleton.
//
// # Hot Reload
//
// When watcher.enabled is set, a fsnotify-based Watcher observes the
// configuration file and calls ReloadConfig after a debounced change.
// Only fields that are safe to change at runtime take effect without a
// restart: the log level and the sweep toggle. Everything else requires
// a restart and the watcher makes no attempt to hide that.
//
// # Validation
//
// Validation collects every problem instead of stopping at the first,
// and names each offending field by its dotted path:
//
//	configuration validation failed with 2 errors:
//	  - store.backend: invalid backend "redis": must be 'memory', 'snapshot', 'bolt', or 'sqlite'
//	  - purge.default_lifetime: invalid window "soon": combine day, hour, minute, and second segments such as "30d" or "1d12hr"
//
// Checks cover backend and level enumerations, timeout ranges, lifetime
// windows and cron schedules.
//
// # Example
//
// A minimal configuration file:
//
//	bot:
//	  token_file: "token.txt"
//	  poll_timeout: "30s"
//
//	store:
//	  backend: "snapshot"
//	  snapshot:
//	    path: "data/groups.gob"
//
//	purge:
//	  default_lifetime: "36500d"
//	  sweep:
//	    schedule: "@every 5m"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "text"
package config
