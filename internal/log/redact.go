package log

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute and header names whose values are never logged.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,

	// Authentication
	"password":     true,
	"secret":       true,
	"token":        true,
	"api_key":      true,
	"apikey":       true,
	"api-key":      true,
	"access_token": true,

	// Session
	"session":    true,
	"session_id": true,
	"sessionid":  true,
	"sid":        true,
}

// sensitiveKeywords are substrings that mark a key as sensitive.
// The bare "key" is left out: it matches "cache_key" and friends.
var sensitiveKeywords = []string{
	"password", "secret", "token", "auth", "cookie", "session", "credential",
}

// sensitivePatterns match values that look like credentials whatever their key.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),

	// EDSM API keys are 40 hex characters.
	regexp.MustCompile(`^[a-fA-F0-9]{40}$`),
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// RedactHandler wraps an slog.Handler and masks sensitive attribute values
// before passing records on. Header maps (map[string]string and
// http.Header) are masked per entry so the non-secret headers stay readable.
type RedactHandler struct {
	handler slog.Handler
}

// NewRedactHandler creates a new RedactHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactHandler(handler slog.Handler) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying handler.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes masked and added.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			redacted[i] = redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case slog.KindString:
		if IsSensitiveKey(a.Key) || isSensitiveValue(a.Value.String()) {
			return slog.String(a.Key, MaskValue)
		}
		return a
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]string:
			return slog.Any(a.Key, RedactHeaders(v))
		case http.Header:
			return slog.Any(a.Key, redactHTTPHeader(v))
		}
	}

	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// IsSensitiveKey reports whether values stored under key must not be logged.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if sensitiveKeys[k] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// RedactHeaders returns a copy of headers with sensitive values masked.
func RedactHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if IsSensitiveKey(k) || isSensitiveValue(v) {
			v = MaskValue
		}
		out[k] = v
	}
	return out
}

func redactHTTPHeader(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, vs := range h {
		if IsSensitiveKey(k) {
			out[k] = []string{MaskValue}
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// NewLogger creates a slog.Logger writing to w with redaction enabled.
//
// verbose sets the level to Debug, otherwise Warn. jsonFormat selects the
// JSON handler instead of the text handler.
func NewLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewRedactHandler(handler))
}
