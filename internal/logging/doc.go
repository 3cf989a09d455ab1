// Package logging assembles the slog loggers used by misettings.
//
// It owns the console and JSON handlers, level and output plumbing, the
// session tagging handler, and log retention. Components derive their own
// logger with NewComponentLogger so every line carries a component field.
// NewNop serves tests and wiring code that cannot fail.
package logging
