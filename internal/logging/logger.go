// Package logging provides the structured logger used across the core,
// grounded on the teacher's pkg/logger/logger.go: a log/slog logger with a
// configurable level and a package-scoped named child logger per
// component, rather than a broader logging framework.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a string log level to slog.Level, defaulting to Warn
// on anything unrecognized.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New builds the root JSON logger at the given level.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// Component returns a child logger tagged with "component", matching the
// teacher's convention of naming the subsystem on every log line.
func Component(base *slog.Logger, name string) *slog.Logger {
	return base.With("component", name)
}
