// Package logging is a small subsystem logger over log/slog. Batch and worker
// context travels as structured attributes.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
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

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, LevelWarn)
)

func newLogger(w io.Writer, level LogLevel) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.slogLevel()}))
}

// Init replaces the package logger. The CLI calls it once flags are parsed.
func Init(level LogLevel, output io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(output, level)
}

// Entry is a set of attributes shared by the lines a component logs.
type Entry struct {
	attrs []slog.Attr
}

// For starts an Entry for a subsystem.
func For(subsystem string) Entry {
	return Entry{attrs: []slog.Attr{slog.String("subsystem", subsystem)}}
}

// Batch adds the batch position, its class and the worker running it.
func (e Entry) Batch(index int, className string, workerID int) Entry {
	attrs := make([]slog.Attr, len(e.attrs), len(e.attrs)+3)
	copy(attrs, e.attrs)
	attrs = append(attrs,
		slog.Int("batch", index),
		slog.String("class", className),
		slog.Int("worker", workerID),
	)
	return Entry{attrs: attrs}
}

func (e Entry) log(level LogLevel, err error, format string, args []interface{}) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ctx := context.Background()
	if !l.Enabled(ctx, level.slogLevel()) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	attrs := e.attrs
	if err != nil {
		attrs = append(attrs[:len(attrs):len(attrs)], slog.String("error", err.Error()))
	}
	l.LogAttrs(ctx, level.slogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func (e Entry) Debug(format string, args ...interface{}) { e.log(LevelDebug, nil, format, args) }

// Info logs an informational message.
func (e Entry) Info(format string, args ...interface{}) { e.log(LevelInfo, nil, format, args) }

// Warn logs a warning message.
func (e Entry) Warn(format string, args ...interface{}) { e.log(LevelWarn, nil, format, args) }

// Error logs err with a message.
func (e Entry) Error(err error, format string, args ...interface{}) {
	e.log(LevelError, err, format, args)
}

// Debug logs a debug message for subsystem.
func Debug(subsystem string, format string, args ...interface{}) {
	For(subsystem).Debug(format, args...)
}

// Info logs an informational message for subsystem.
func Info(subsystem string, format string, args ...interface{}) {
	For(subsystem).Info(format, args...)
}

// Warn logs a warning for subsystem.
func Warn(subsystem string, format string, args ...interface{}) {
	For(subsystem).Warn(format, args...)
}
