// Package logging assembles structured slog loggers and formatting helpers used
// across goldenhash.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes helpers that enforce event_type, error_hint, and impact
// fields on warnings so salvage and normalization corrections are always
// visible. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
package logging
