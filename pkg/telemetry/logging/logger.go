package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config describes the process logger. The zero value produces a text
// logger at info level writing to stderr.
type Config struct {
	Level        string    // minimum level: debug, info, warn, error
	Format       string    // output encoding: text, json
	AddSource    bool      // annotate records with file:line
	RedactTokens bool      // mask bot tokens before records reach the handler
	Writer       io.Writer // destination, stderr when nil
}

// New builds a *slog.Logger from cfg.
//
// With RedactTokens set, Telegram bot tokens and other credential-shaped
// values are masked before the output handler sees them, so a token
// embedded in an API URL or an error string never reaches the log.
// Components derive their own loggers from the result with
// With("component", ...).
func New(cfg Config) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	}
	if cfg.RedactTokens {
		handler = NewRedactingHandler(handler, NewRedactor())
	}
	return slog.New(handler), nil
}

// LogFormat names a log output encoding.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
}

func parseFormat(s string) (LogFormat, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format: %s", s)
}
