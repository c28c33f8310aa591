package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithFields adds structured fields to the logger in the context.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	logCtx := FromContext(ctx).With()
	for key, value := range fields {
		logCtx = addField(logCtx, key, value)
	}
	logger := logCtx.Logger()
	return WithLogger(ctx, &logger)
}

// WithField adds a single field to the logger in the context.
func WithField(ctx context.Context, key string, value any) context.Context {
	logger := addField(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithRun tags every log line of an import run with its identifier.
func WithRun(ctx context.Context, runID string) context.Context {
	return WithField(ctx, "run_id", runID)
}

// WithService adds the registry service id to the logger.
func WithService(ctx context.Context, serviceID string) context.Context {
	return WithField(ctx, "service_id", serviceID)
}

// WithRegistry adds the registry name to the logger.
func WithRegistry(ctx context.Context, registry string) context.Context {
	return WithField(ctx, "registry", registry)
}

// WithCollection adds the catalog collection to the logger.
func WithCollection(ctx context.Context, collection string) context.Context {
	return WithField(ctx, "collection", collection)
}

// WithChannel adds the registry channel id to the logger.
func WithChannel(ctx context.Context, channelID string) context.Context {
	return WithField(ctx, "channel_id", channelID)
}
