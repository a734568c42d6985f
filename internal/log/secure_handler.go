package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces every redacted attribute value.
const MaskValue = "***REDACTED***"

// exportFields are clear-text fields of a raw export. They identify the
// account owner or the people they talk to.
var exportFields = []string{
	"username", "full_name", "bio", "caption", "text", "message_text",
	"sender_username", "recipient_username", "author_username",
	"conversation_id", "hashtag", "hashtags", "location", "email",
}

// secretFields hold key material or credentials.
var secretFields = []string{
	"encryption_key", "passphrase", "authorization", "password", "passwd",
	"secret", "token", "api_key", "apikey", "api-key", "access_token",
	"refresh_token", "private_key", "secret_key", "credential",
	"credentials", "auth",
}

// derivedFields carry digests or content identifiers. They look like long
// random strings but reveal nothing, so value patterns are not applied.
var derivedFields = []string{
	"cid", "run_id", "username_hash", "profile_hash", "posts_hash",
	"stories_hash", "comments_hash", "dms_hash", "hashtag_hash",
}

// secretKeywords mark a key as secret wherever they appear in it.
// The bare word "key" is left out: "primary_key" and "partition_key" are not
// secrets, and the real key names are listed in secretFields.
var secretKeywords = []string{
	"password", "passwd", "passphrase", "secret", "token", "auth",
	"credential", "private", "username", "full_name",
}

// secretValues are redacted whatever key they are logged under.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`), // API keys, raw digests
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
	regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`), // e-mail
}

type keyClass int

const (
	classPlain keyClass = iota
	classDerived
	classMasked
)

var keyClasses = buildKeyClasses()

func buildKeyClasses() map[string]keyClass {
	m := make(map[string]keyClass, len(exportFields)+len(secretFields)+len(derivedFields))
	for _, k := range exportFields {
		m[k] = classMasked
	}
	for _, k := range secretFields {
		m[k] = classMasked
	}
	// Derived wins: "username_hash" contains "username" but is a digest.
	for _, k := range derivedFields {
		m[k] = classDerived
	}
	return m
}

func classify(key string) keyClass {
	key = strings.ToLower(key)
	if c, ok := keyClasses[key]; ok {
		return c
	}
	if containsSensitiveKeyword(key) {
		return classMasked
	}
	return classPlain
}

// SecureHandler wraps an slog.Handler and masks attribute values that could
// carry export content or secrets before the record reaches the inner handler.
//
// Design decision: redaction lives in the handler, not at call sites. A stray
// logger.Debug("...", "caption", post.Caption) anywhere in the module is
// still masked, and the wrapper works with any inner handler.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler wraps handler. A nil handler means slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the inner handler handles records at level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and forwards it.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs masks attrs before binding them to the inner handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = redact(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(masked)}
}

// WithGroup returns a handler that nests later attributes under name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// redact masks a single attribute, descending into groups. LogValuer values
// are resolved first so a type cannot smuggle content past the key check.
func redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = redact(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	switch classify(a.Key) {
	case classDerived:
		return a
	case classMasked:
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && isSecretValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// containsSensitiveKeyword reports whether key contains one of secretKeywords.
func containsSensitiveKeyword(key string) bool {
	for _, kw := range secretKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

func isSecretValue(value string) bool {
	for _, re := range secretValues {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}

// NewSecureLogger returns a text logger writing to w through a SecureHandler.
// verbose lowers the level from Warn to Debug.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger is NewSecureLogger with JSON output.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
