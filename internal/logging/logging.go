// Package logging provides a simple leveled logger.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		// above every level we emit
		return slog.LevelError + 4
	}
}

// ParseLevel parses a log level string.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// syncWriter lets SetOutput swap the destination under loggers derived
// with With.
type syncWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Write(p)
}

func (w *syncWriter) set(out io.Writer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.out = out
}

// Logger is a leveled logger with printf-style methods on top of a
// log/slog text handler.
type Logger struct {
	level *slog.LevelVar
	w     *syncWriter
	sl    *slog.Logger
}

// New creates a new logger writing to stderr.
func New(level Level) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level.slog())
	w := &syncWriter{out: os.Stderr}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lv,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format("15:04:05.000"))
			}
			return a
		},
	})
	return &Logger{level: lv, w: w, sl: slog.New(h)}
}

// SetOutput sets the log output destination. It affects every logger
// derived from l.
func (l *Logger) SetOutput(w io.Writer) {
	l.w.set(w)
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level.slog())
}

// With returns a logger that adds key=value to every record.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{level: l.level, w: l.w, sl: l.sl.With(key, value)}
}

// Slog returns the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	return l.sl
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	ctx := context.Background()
	sl := level.slog()
	if !l.sl.Enabled(ctx, sl) {
		return
	}
	l.sl.Log(ctx, sl, fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	l := New(LevelError + 1) // Higher than any level
	l.SetOutput(io.Discard)
	return l
}
