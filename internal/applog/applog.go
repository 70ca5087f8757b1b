// Package applog initialises the global slog logger for the application.
// Call Init once at startup; all other packages use log/slog directly.
package applog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var debugMode bool

// Init sets up the global slog logger.
// It writes structured text logs to stderr and to a log file in the temp
// directory, keeping stdout free for command output.
// If debug is true, the minimum log level is Debug; otherwise Info.
func Init(debug bool) {
	InitWriter(debug, os.Stderr)
}

// InitWriter is Init with an explicit console writer.
func InitWriter(debug bool, console io.Writer) {
	debugMode = debug

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	writers := []io.Writer{console}
	if f, err := os.OpenFile(LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		writers = append(writers, f)
	}

	h := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

// IsDebug reports whether debug mode is active.
func IsDebug() bool {
	return debugMode
}

// LogPath is the file every log line is appended to.
func LogPath() string {
	return filepath.Join(os.TempDir(), "ace-analytics.log")
}
