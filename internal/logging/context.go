package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from ctx.
// Without one it returns a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent attaches a child logger with a component field.
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx).With().Str("component", component).Logger()
	return WithContext(ctx, logger)
}
