package logging

import (
	"context"
)

type contextKey string

// RequestIDKey is the context key for request IDs.
const RequestIDKey contextKey = "request_id"

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	if id := GetRequestID(ctx); id != "" {
		return []any{"request_id", id}
	}
	return nil
}
