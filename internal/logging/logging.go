// Package logging provides a shared, structured logger for the carbon-blueprint
// application.
//
// It wraps the standard library's [log/slog] package and provides a single
// initialization point so all components share the same output handler and
// log level. The log level can be controlled at startup via the
// CARBON_BLUEPRINT_LOG_LEVEL environment variable (debug, info, warn, error).
// If unset, the default level is INFO.
//
// Usage:
//
//	log := logging.New("analysis")     // creates a logger tagged with component="analysis"
//	log.Info("upload finished", "status", code)
//	log.Error("upload failed", "error", err)
//
// Entries are appended to ~/.carbon-blueprint/carbon-blueprint.log, or to
// the file named by CARBON_BLUEPRINT_LOG_FILE. The terminal UI owns the
// alternate screen, so stderr is only used when CARBON_BLUEPRINT_LOG_FILE is
// "stderr". A log file that cannot be opened discards entries.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	levelEnv = "CARBON_BLUEPRINT_LOG_LEVEL"
	fileEnv  = "CARBON_BLUEPRINT_LOG_FILE"

	// StderrTarget as CARBON_BLUEPRINT_LOG_FILE sends entries to stderr.
	StderrTarget = "stderr"

	logDirName  = ".carbon-blueprint"
	logFileName = "carbon-blueprint.log"
)

var (
	// initLogger ensures the base logger is created exactly once across all
	// goroutines, even if multiple components call New concurrently.
	initLogger sync.Once

	// baseLogger is the singleton logger instance shared by all components.
	// Component-specific loggers are derived from this via With().
	baseLogger *slog.Logger
)

// New returns a structured logger scoped to the given component name.
//
// The component name is added as a "component" attribute to every log entry
// produced by the returned logger. If component is empty, the base logger is
// returned without any additional attributes.
func New(component string) *slog.Logger {
	initLogger.Do(func() {
		baseLogger = slog.New(slog.NewTextHandler(openOutput(os.Getenv(fileEnv)), &slog.HandlerOptions{
			Level: parseLevel(os.Getenv(levelEnv)),
		}))
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With("component", component)
}

// DefaultLogPath returns the log file used when CARBON_BLUEPRINT_LOG_FILE is
// unset.
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, logDirName, logFileName), nil
}

// openOutput resolves the log destination. A log file that cannot be opened
// discards entries; there is no logger yet to report the failure to, and
// stderr would draw over the UI.
func openOutput(target string) io.Writer {
	target = strings.TrimSpace(target)
	if strings.EqualFold(target, StderrTarget) {
		return os.Stderr
	}
	if target == "" {
		path, err := DefaultLogPath()
		if err != nil {
			return io.Discard
		}
		target = path
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return io.Discard
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return io.Discard
	}
	return f
}

// parseLevel converts a human-readable log level string to a [slog.Level].
//
// Recognized values (case-insensitive, whitespace-trimmed):
//   - "debug"           → slog.LevelDebug
//   - "warn", "warning" → slog.LevelWarn
//   - "error"           → slog.LevelError
//   - anything else     → slog.LevelInfo (the default)
func parseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
