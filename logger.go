package squant

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/squant/quantization"
)

// Logger wraps slog.Logger with squant-specific context.
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

// NewJSONLogger creates a Logger that writes JSON-formatted logs to w.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithBatch adds a batch id field to the logger.
func (l *Logger) WithBatch(id uuid.UUID) *Logger {
	return &Logger{
		Logger: l.Logger.With("batch", id.String()),
	}
}

// WithShape adds the batch shape to the logger.
func (l *Logger) WithShape(numVectors, dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("vectors", numVectors, "dimension", dim),
	}
}

// WithSource adds a source name field to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// LogQuantize logs a quantize operation.
func (l *Logger) LogQuantize(ctx context.Context, batch *quantization.QuantizedBatch, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "quantize failed",
			"duration", duration,
			"error", err,
		)
		return
	}

	l.InfoContext(ctx, "quantize completed",
		"bits", batch.Bits(),
		"quantile", batch.Quantile(),
		"constant_dims", batch.ConstantDims().GetCardinality(),
		"clipped", batch.TotalClipped(),
		"duration", duration,
	)
}

// LogLoad logs reading vectors from a source.
func (l *Logger) LogLoad(ctx context.Context, vectors int, sampled bool, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"sampled", sampled,
			"error", err,
		)
		return
	}

	l.DebugContext(ctx, "load completed",
		"vectors", vectors,
		"sampled", sampled,
		"duration", duration,
	)
}
