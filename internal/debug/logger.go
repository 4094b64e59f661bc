package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

var (
	mu     sync.Mutex
	writer io.Writer = io.Discard
	level            = new(slog.LevelVar)
	logger           = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func init() {
	level.Set(slog.LevelDebug)
}

// SetOutput sets the debug output destination
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		w = io.Discard
	}
	writer = w
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLevel accepts "debug", "info", "warn" or "error"; anything else means debug
func SetLevel(name string) {
	switch strings.ToLower(name) {
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelDebug)
	}
}

// Log writes a debug message
func Log(format string, args ...interface{}) {
	emit(slog.LevelDebug, format, args...)
}

// Warn writes a warning that should reach the log even at reduced verbosity
func Warn(format string, args ...interface{}) {
	emit(slog.LevelWarn, format, args...)
}

func emit(lvl slog.Level, format string, args ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()

	if !l.Enabled(context.Background(), lvl) {
		return
	}
	l.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return writer != io.Discard && level.Level() <= slog.LevelDebug
}
