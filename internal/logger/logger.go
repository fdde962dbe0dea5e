// Package logger owns the process-wide slog logger. Level and format come
// from LOG_LEVEL (debug|info|warn|error) and LOG_FORMAT (text|json).
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	current  atomic.Pointer[slog.Logger]
	initOnce sync.Once
)

// New builds a logger writing to w. Unknown levels mean info, unknown
// formats mean text.
func New(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup (re)builds the default logger from the environment, writing to stderr.
func Setup() *slog.Logger {
	l := New(os.Stderr, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	current.Store(l)
	return l
}

// L returns the default logger. The first call builds it from the
// environment unless Setup already ran.
func L() *slog.Logger {
	initOnce.Do(func() {
		if current.Load() == nil {
			Setup()
		}
	})
	return current.Load()
}
