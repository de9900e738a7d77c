package logging

import (
	"context"
	"io"
	"log/slog"
)

// NewNop returns a logger that discards everything. Useful for tests and for
// wiring code that cannot fail.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// WithComponent tags a logger with a component name, substituting a no-op
// logger when nil is passed so library code never has to nil-check.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(slog.String("component", component))
}

type runIDKey struct{}

// WithRunID stores a batch run identifier on the context so nested log sites
// can recover it.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunID returns the run identifier stored on the context, if any.
func RunID(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey{}).(string); ok {
		return v
	}
	return ""
}
