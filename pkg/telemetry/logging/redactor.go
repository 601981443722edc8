package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Pattern describes a custom redaction pattern.
type Pattern struct {
	Name        string
	Pattern     string
	Replacement string
}

// Names of the built-in patterns.
const (
	PatternBotToken    = "bot_token"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
)

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// The built-ins cover the credentials purgebot actually handles. The
// bot token pattern also matches tokens embedded in Bot API request
// URLs, which is where they most often leak.
var defaultPatterns = map[string]redactPattern{
	PatternBotToken:    {regexp.MustCompile(`\b\d{6,}:[a-zA-Z0-9_-]{30,}`), "***:***"},
	PatternBearerToken: {regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`), "Bearer ***"},
	PatternPassword:    {regexp.MustCompile(`(password|passwd|pwd)[:=]\s*[^\s]+`), "$1: ***"},
}

// Substrings that mark an attribute key as carrying a credential.
var sensitiveKeySubstrings = []string{
	"password", "passwd", "pwd",
	"secret", "token",
	"auth", "authorization",
	"private_key", "privatekey",
}

// Redactor masks credential-shaped values in log output.
type Redactor struct {
	patterns map[string]redactPattern
}

// NewRedactor builds a Redactor with the built-in patterns plus any
// custom ones. A custom pattern that does not compile is dropped.
func NewRedactor(customPatterns ...Pattern) *Redactor {
	patterns := make(map[string]redactPattern, len(defaultPatterns)+len(customPatterns))
	for name, p := range defaultPatterns {
		patterns[name] = p
	}
	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		patterns[p.Name] = redactPattern{regex, p.Replacement}
	}
	return &Redactor{patterns: patterns}
}

// RedactString masks credential-shaped substrings in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

func (r *Redactor) isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeySubstrings {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// redactValue masks a sensitive value, keeping a short prefix for
// identification.
func (r *Redactor) redactValue(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "***"
	}
	return value[:4] + "***"
}

// RedactingHandler is a slog.Handler middleware that applies a Redactor
// to record messages and string attribute values before delegating to
// the wrapped handler.
type RedactingHandler struct {
	inner    slog.Handler
	redactor *Redactor
}

// NewRedactingHandler wraps handler with redaction via redactor.
func NewRedactingHandler(handler slog.Handler, redactor *Redactor) *RedactingHandler {
	return &RedactingHandler{
		inner:    handler,
		redactor: redactor,
	}
}

// Enabled reports whether the wrapped handler handles records at the
// given level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts the record and passes it to the wrapped handler.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	redacted := slog.NewRecord(record.Time, record.Level, h.redactor.RedactString(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the redacted attributes added.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		redacted[i] = h.redactAttr(attr)
	}
	return &RedactingHandler{
		inner:    h.inner.WithAttrs(redacted),
		redactor: h.redactor,
	}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{
		inner:    h.inner.WithGroup(name),
		redactor: h.redactor,
	}
}

// redactAttr redacts a single attribute. String values under sensitive
// keys are masked entirely; other string values are pattern-scanned.
// Groups are redacted recursively.
func (h *RedactingHandler) redactAttr(attr slog.Attr) slog.Attr {
	switch attr.Value.Kind() {
	case slog.KindString:
		value := attr.Value.String()
		if h.redactor.isSensitiveKey(attr.Key) {
			return slog.String(attr.Key, h.redactor.redactValue(value))
		}
		return slog.String(attr.Key, h.redactor.RedactString(value))
	case slog.KindGroup:
		group := attr.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, member := range group {
			redacted[i] = h.redactAttr(member)
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(redacted...)}
	default:
		return attr
	}
}
