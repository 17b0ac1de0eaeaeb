// Package context carries request-scoped values (request id, logger) through
// context.Context from the HTTP edge down to repositories.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	loggerKey
)

const (
	// HeaderXRequestID is the HTTP header name for request ID.
	HeaderXRequestID = "X-Request-Id"

	maxRequestIDLength = 128
)

// NewRequestID generates a random request id.
func NewRequestID() string {
	return uuid.NewString()
}

// ValidRequestID reports whether a client-supplied id may be echoed back and logged:
// non-empty, bounded, printable ASCII without spaces.
func ValidRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}

	return true
}

// RequestID extracts the request id, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

// WithRequestID returns a new context with the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetLogger extracts the request-scoped logger, or nil outside a request.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, _ := ctx.Value(loggerKey).(*slog.Logger)

	return logger
}

// GetLoggerOrDefault extracts the request-scoped logger, falling back to fallback.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := GetLogger(ctx); logger != nil {
		return logger
	}

	return fallback
}

// WithLogger returns a new context with the logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithLogAttrs rebinds the request-scoped logger (or fallback) with extra attributes.
func WithLogAttrs(ctx context.Context, fallback *slog.Logger, attrs ...any) context.Context {
	return WithLogger(ctx, GetLoggerOrDefault(ctx, fallback).With(attrs...))
}
