// Package log holds the process-wide structured logger used by the updater.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger *slog.Logger
	mu     sync.RWMutex
)

func init() {
	logger = newLogger(Options{Level: LevelWarn})
}

// Level represents logging levels.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Options configures the logger.
type Options struct {
	Level   Level
	JSON    bool
	Output  io.Writer
	Verbose bool // forces LevelDebug
}

// Configure replaces the global logger.
func Configure(opts Options) {
	l := newLogger(opts)

	mu.Lock()
	logger = l
	mu.Unlock()
}

func newLogger(opts Options) *slog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	level := opts.Level
	if opts.Verbose {
		level = LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(output, handlerOpts))
	}

	return slog.New(slog.NewTextHandler(output, handlerOpts))
}

// ParseLevel maps a level name ("debug", "info", "warn", "error") to a Level.
// Unknown names fall back to LevelWarn.
func ParseLevel(name string) Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return LevelWarn
	}

	return l
}

// Logger returns the global logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return logger
}

// With returns a logger with additional attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// DebugContext logs at debug level with context.
func DebugContext(ctx context.Context, msg string, args ...any) {
	Logger().DebugContext(ctx, msg, args...)
}

// InfoContext logs at info level with context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	Logger().InfoContext(ctx, msg, args...)
}

// Err is a helper for logging errors.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}

// Tag is a helper for logging release tags.
func Tag(tag string) slog.Attr {
	return slog.String("tag", tag)
}

// Asset is a helper for logging asset names.
func Asset(name string) slog.Attr {
	return slog.String("asset", name)
}

// Path is a helper for logging filesystem paths.
func Path(p string) slog.Attr {
	return slog.String("path", p)
}
