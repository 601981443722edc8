// Package logging builds the structured logger shared by all purgebot
// components.
//
// The package wraps log/slog: New parses a level and format from
// configuration and returns a *slog.Logger. Components derive scoped
// loggers with With("component", ...).
//
// # Token Redaction
//
// When Config.RedactTokens is set, the handler chain includes a
// RedactingHandler that masks Telegram bot tokens, bearer tokens, and
// password-shaped values in messages and string attributes. Attribute
// keys that name credentials ("token", "secret", and similar) have
// their values masked regardless of shape. This keeps the bot token
// out of logs even when a Bot API error echoes the request URL.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//		Level:        "info",
//		Format:       "text",
//		RedactTokens: true,
//	})
//	if err != nil {
//		return err
//	}
//	slog.SetDefault(logger)
package logging
