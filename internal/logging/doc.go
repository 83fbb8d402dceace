// Package logging assembles structured slog loggers used across dailies.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so dispatcher and adapter code
// can automatically tag log lines with job IDs, engines, and states. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape as the rest of the system.
package logging
