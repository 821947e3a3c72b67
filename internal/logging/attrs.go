package logging

import (
	"context"
	"log/slog"
	"time"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Fixture tags a line with the fixture name; the console handler hoists it
// into the line header.
func Fixture(name string) Attr { return slog.String(FieldFixture, name) }

func Path(path string) Attr { return slog.String(FieldPath, path) }

func RunID(id string) Attr { return slog.String(FieldRunID, id) }

func Recovery(tier string) Attr { return slog.String(FieldRecovery, tier) }

func Hint(hint string) Attr { return slog.String(FieldErrorHint, hint) }

func Impact(impact string) Attr { return slog.String(FieldImpact, impact) }

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger creates a logger with a standardized component attribute.
// If logger is nil, a no-op logger is used as the base.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

const (
	defaultHint        = "check logs for details"
	defaultWarnImpact  = "fingerprint computed with corrections"
	defaultErrorImpact = "fixture skipped; remaining fixtures still processed"
)

// WarnWithContext logs a warning with enforced event_type, error_hint, and
// impact fields. Missing fields get defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	logWithContext(logger, slog.LevelWarn, msg, eventType, defaultWarnImpact, attrs)
}

// ErrorWithContext logs an error with the same enforced fields as
// WarnWithContext.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	logWithContext(logger, slog.LevelError, msg, eventType, defaultErrorImpact, attrs)
}

func logWithContext(logger *slog.Logger, level slog.Level, msg, eventType, impact string, attrs []Attr) {
	if logger == nil {
		return
	}
	var hasEvent, hasHint, hasImpact bool
	for _, attr := range attrs {
		switch attr.Key {
		case FieldEventType:
			hasEvent = true
		case FieldErrorHint:
			hasHint = true
		case FieldImpact:
			hasImpact = true
		}
	}
	if !hasEvent {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	if !hasHint {
		attrs = append(attrs, Hint(defaultHint))
	}
	if !hasImpact {
		attrs = append(attrs, Impact(impact))
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
