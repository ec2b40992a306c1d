package middleware

import (
	"context"
	"time"
)

// contextKey is a private type for context keys defined in this
// package, preventing collisions with keys from other packages.
type contextKey string

const (
	// RequestIDKey is the context key for the request ID.
	RequestIDKey contextKey = "request_id"

	// StartTimeKey is the context key for the request start time.
	StartTimeKey contextKey = "start_time"
)

// GetRequestID extracts the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetStartTime extracts the request start time from the context.
// Returns zero time if not found.
func GetStartTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return t
	}
	return time.Time{}
}
