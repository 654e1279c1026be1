// Package logger provides a package-level slog logger for the terminal client.
//
// Stdout belongs to the TUI, so records only ever go to a file. Without a
// file every record is discarded.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Config describes logger settings.
type Config struct {
	File  string
	Level string
}

var (
	mu   sync.RWMutex
	base = slog.New(slog.NewTextHandler(io.Discard, nil))
	file *os.File
)

// Init opens the configured log file and rebuilds the handler. Calling Init
// again closes the previous file.
func Init(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		base = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("logger: create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("logger: open log file: %w", err)
	}
	file = f
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: parseLevel(cfg.Level)}))
	return nil
}

// Close releases the log file, if any, and discards further records.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	err := closeLocked()
	base = slog.New(slog.NewTextHandler(io.Discard, nil))
	return err
}

// Must be called with mu held.
func closeLocked() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	log(slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	log(slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	log(slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	log(slog.LevelError, msg, args...)
}

func log(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := base
	mu.RUnlock()
	l.Log(context.Background(), level, msg, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
