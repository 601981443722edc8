// Purgebot is a Telegram group chat moderation bot that deletes messages
// once they outlive a per-group retention window.
//
// It long-polls the Telegram Bot API and tracks every message it can see
// in its activated groups, providing:
//   - Automatic deletion of messages older than a configurable lifetime
//   - Per-group lifetime windows set by group administrators
//   - Pluggable state persistence (memory, snapshot, bbolt, SQLite)
//   - Scheduled sweep passes over idle groups
//   - Prometheus metrics and health endpoints
//
// Usage:
//
//	# Start the bot with default configuration
//	purgebot run
//
//	# Start with custom configuration file
//	purgebot run --config /path/to/purgebot.yaml
//
//	# Show version information
//	purgebot version
//
//	# Validate a configuration file
//	purgebot validate --config purgebot.yaml
//
//	# Inspect tracked group state offline
//	purgebot state list --format json
//
// For complete documentation, see: https://github.com/chatops-hq/purgebot
package main

func main() {
	Execute()
}
