// Package identity carries the operator behind a request. The email is
// stamped onto audit fields only; no lifecycle or routing decision reads it.
package identity

import "context"

type contextKey string

const (
	operatorKey  contextKey = "operator"
	requestIDKey contextKey = "request_id"
)

// WithOperator annotates context with the operator email.
func WithOperator(ctx context.Context, email string) context.Context {
	if email == "" {
		return ctx
	}
	return context.WithValue(ctx, operatorKey, email)
}

// OperatorFromContext extracts the operator email if present.
func OperatorFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operatorKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
