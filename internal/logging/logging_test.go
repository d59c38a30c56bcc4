package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"Warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, c := range cases {
		if got := ParseLevel(c.in); got != c.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir, slog.LevelInfo)
	logger.Warn("corrupt persisted user record", "err", "unexpected end of JSON input")

	data, err := os.ReadFile(filepath.Join(dir, "jshop.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "corrupt persisted user record") {
		t.Errorf("log file missing entry, got: %s", data)
	}
}

func TestNewDropsBelowLevel(t *testing.T) {
	dir := t.TempDir()
	logger := New(dir, slog.LevelWarn)
	logger.Info("should not appear")
	logger.Warn("should appear")

	data, err := os.ReadFile(filepath.Join(dir, "jshop.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "should not appear") {
		t.Error("info entry written despite warn level")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("warn entry missing")
	}
}
