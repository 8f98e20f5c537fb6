// Package commands implements the glassboard CLI commands.
package commands

import (
	"context"
	"log/slog"
	"os"
)

type loggerKey struct{}

// WithLogger stores the CLI logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetLogger returns the CLI logger from the context, or a default stderr
// logger when none was attached.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
