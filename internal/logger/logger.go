// Package logger provides a simple wrapper around slog for structured logging.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the global logger instance.
var Logger = New(os.Stderr, false)

// New returns a slog logger writing through a charmbracelet/log handler.
func New(w io.Writer, debug bool) *slog.Logger {
	level := charmlog.InfoLevel
	if debug {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		Prefix:          "pkgstats",
		ReportTimestamp: true,
	})
	return slog.New(handler)
}

// SetDebug replaces the global logger, enabling debug output when debug is true.
func SetDebug(debug bool) {
	Logger = New(os.Stderr, debug)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
