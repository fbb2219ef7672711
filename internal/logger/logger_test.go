package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/polkiloo/p2pdesk/internal/config"
)

func TestNewProvidesJSONLogger(t *testing.T) {
	l := New(&config.Config{})
	if l == nil {
		t.Fatal("expected logger, got nil")
	}

	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Errorf("expected info level to be enabled")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("did not expect debug level to be enabled")
	}

	if _, ok := l.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("expected JSON handler, got %T", l.Handler())
	}
}

func TestNewHonoursLevel(t *testing.T) {
	l := New(&config.Config{LogLevel: "debug"})
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("expected debug level to be enabled")
	}
	l = New(&config.Config{LogLevel: "error"})
	if l.Enabled(context.Background(), slog.LevelWarn) {
		t.Errorf("did not expect warn level with error threshold")
	}
}

func TestNewWritesRotatingFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "desk.log")
	l := New(&config.Config{LogFile: file})
	l.Info("hello")

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("expected log file to be written: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log content")
	}
}
