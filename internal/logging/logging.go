// Package logging configures structured logging for venvdoctor.
//
// venvdoctor is a short-lived diagnostic process, so logs go to stderr
// as JSON; there is no file logging or rotation. Diagnostic output for
// humans goes to stdout through the check printer, never through the
// logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// Output is the log destination. Nil means stderr.
	Output io.Writer
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// DebugConfig returns configuration for debug mode.
func DebugConfig() Config {
	return Config{Level: "debug"}
}

// Setup builds a JSON slog logger from the configuration.
func Setup(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	return slog.New(handler)
}

// SetupDefault installs a logger with the given level as the default.
func SetupDefault(level string) {
	slog.SetDefault(Setup(Config{Level: level}))
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
