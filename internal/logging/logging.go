// Package logging configures the file-backed debug log. The TUI owns the
// terminal, so diagnostics go to a rotated file under the state dir instead
// of stdout/stderr.
package logging

import (
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const logFile = "jshop.log"

// New returns a logger writing JSON lines to <dir>/jshop.log with size-based
// rotation. The file is created lazily on first write.
func New(dir string, level slog.Level) *slog.Logger {
	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFile),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     30, // days
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
