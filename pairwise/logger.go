package pairwise

import (
	"log/slog"
	"os"
	"time"

	"github.com/neerajvashistha/cuml/distance"
)

// Logger wraps slog.Logger with pairwise-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithType adds a distance type field to the logger.
func (l *Logger) WithType(dt distance.DistanceType) *Logger {
	return &Logger{
		Logger: l.Logger.With("type", dt.String()),
	}
}

// WithShape adds m, n and k fields to the logger.
func (l *Logger) WithShape(m, n, k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("m", m, "n", n, "k", k),
	}
}

// LogSizeQuery logs the result of a workspace size query.
func (l *Logger) LogSizeQuery(bytes int, err error) {
	if err != nil {
		l.Error("workspace size query failed",
			"error", err,
		)
	} else {
		l.Debug("workspace size query",
			"bytes", bytes,
		)
	}
}

// LogCompute logs a finished computation.
func (l *Logger) LogCompute(tiles int, elapsed time.Duration, err error) {
	if err != nil {
		l.Error("distance computation failed",
			"tiles", tiles,
			"error", err,
		)
	} else {
		l.Debug("distance computation completed",
			"tiles", tiles,
			"elapsed", elapsed,
		)
	}
}
