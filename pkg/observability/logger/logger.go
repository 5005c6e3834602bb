// Package logger provides structured logging for the service.
package logger

import "context"

type contextKey string

// RequestIDKey is the context key under which the request identifier is stored.
const RequestIDKey contextKey = "request_id"

// Logger defines the interface for structured logging throughout the service.
// All log methods accept a message string followed by key-value pairs.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs an info-level message with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a warning-level message with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs an error-level message with optional key-value pairs
	Error(msg string, args ...any)

	// With creates a child logger with additional key-value pairs that will be
	// included in all subsequent log entries
	With(args ...any) Logger

	// WithContext creates a child logger that extracts the request ID from context
	WithContext(ctx context.Context) Logger
}

// RequestIDFromContext extracts the request ID from the context, or "" if absent.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
