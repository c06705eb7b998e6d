// Package logger provides structured logging for the poller.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures a Logger.
type Options struct {
	Output io.Writer
	Level  string
	Format string
}

// Logger provides structured logging functionality.
type Logger struct {
	internal *slog.Logger
	level    *slog.LevelVar
}

// NewLogger creates a text logger on stderr with the specified level.
func NewLogger(level string) *Logger {
	return New(Options{Level: level})
}

// New creates a logger from options. Missing fields fall back to stderr,
// info level and text output.
func New(opts Options) *Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(ParseLevel(opts.Level))

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, FormatJSON) {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	return &Logger{
		internal: slog.New(handler),
		level:    lvl,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Options{Output: io.Discard, Level: "error"})
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the level of this logger and every logger derived from it.
func (l *Logger) SetLevel(level string) {
	l.level.Set(ParseLevel(level))
}

// Enabled reports whether the logger emits records at level.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.internal.Enabled(context.Background(), level)
}

// Info logs an info level message.
func (l *Logger) Info(msg string, args ...any) {
	l.internal.Info(msg, args...)
}

// Error logs an error level message.
func (l *Logger) Error(msg string, args ...any) {
	l.internal.Error(msg, args...)
}

// Debug logs a debug level message.
func (l *Logger) Debug(msg string, args ...any) {
	l.internal.Debug(msg, args...)
}

// Warn logs a warning level message.
func (l *Logger) Warn(msg string, args ...any) {
	l.internal.Warn(msg, args...)
}

// With creates a child logger with the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		internal: l.internal.With(args...),
		level:    l.level,
	}
}

// Log logs a message with the given level and attributes.
func (l *Logger) Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	l.internal.Log(ctx, level, msg, args...)
}
