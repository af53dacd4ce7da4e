package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

// MaskValue replaces every value the handler considers a secret.
const MaskValue = "***REDACTED***"

// secretHeaders are header names masked only on an exact (case-insensitive)
// key match.
var secretHeaders = []string{
	"authorization",
	"proxy-authorization",
	"cookie",
	"set-cookie",
	"x-api-key",
}

// secretFragments mask any key that contains them. A bare "key" is not a
// fragment, so names like "cache_key" are logged as is.
var secretFragments = []string{
	"password", "passwd", "secret", "token", "auth",
	"credential", "private", "api_key", "apikey", "api-key", "session",
}

// credentialValue matches values that carry a credential whatever their
// key: bearer and basic authorization values, and JWTs.
var credentialValue = regexp.MustCompile(
	`(?i)^(?:bearer\s+\S.*|basic\s+[a-z0-9+/=]+|eyJ[\w-]*\.eyJ[\w-]*\.[\w-]*)$`,
)

// isSensitiveKey reports whether values logged under key must be masked.
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if slices.Contains(secretHeaders, key) {
		return true
	}
	for _, fragment := range secretFragments {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}

// SecureHandler wraps an slog.Handler and masks credentials before records
// reach it. URLs in messages, string values and errors have their query
// secrets and userinfo passwords redacted.
//
// Design decision: a handler wrapper rather than a custom logger, so every
// package keeps using plain *slog.Logger.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next. A nil next falls back to slog's default handler.
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

// Enabled defers to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle forwards a sanitized copy of r.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, redactURLsIn(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(sanitize(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

// WithAttrs sanitizes attrs once, when they are bound.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SecureHandler{next: h.next.WithAttrs(sanitizeAll(attrs))}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

func sanitizeAll(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, sanitize(a))
	}
	return out
}

func sanitize(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	switch {
	case v.Kind() == slog.KindGroup:
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizeAll(v.Group())...)}
	case isSensitiveKey(a.Key):
		return slog.String(a.Key, MaskValue)
	case v.Kind() == slog.KindString:
		s := v.String()
		if credentialValue.MatchString(s) {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, redactURLsIn(s))
	case v.Kind() == slog.KindAny:
		// Fetch errors embed the requested URL in their message.
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, redactURLsIn(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewSecureLogger creates a text logger that sanitizes all output.
// verbose selects Debug level; otherwise only warnings and errors are
// written.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelFor(verbose)})))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, for the HTTP
// service where logs are usually shipped to an aggregator.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelFor(verbose)})))
}
