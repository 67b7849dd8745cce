// Package logging assembles the structured slog loggers used across QMTG.
//
// It owns the console and JSON handlers and centralizes level and output
// plumbing so every component logs with the same shape. Loggers are passed
// into components explicitly; nothing in this package holds process-wide
// mutable state. NewNop returns a logger for tests and wiring code that must
// not emit output.
package logging
