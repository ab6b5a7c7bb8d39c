// Package logging assembles structured slog loggers and formatting helpers used
// across issuereel.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code can tag log lines
// with run IDs and stage names. When a log directory is configured every
// record is also appended as JSON to issuereel.log. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
