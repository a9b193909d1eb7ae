// Package shared holds the request-scoped context values, JSON decoding and
// response helpers used by the API handlers and middleware.
package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// PrincipalIDContextKey is the context key for the acting user's ID
	PrincipalIDContextKey ContextKey = "principalID"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// maxTraceIDLength bounds trace IDs accepted from callers.
const maxTraceIDLength = 64

// NewTraceID returns a random 32-character hex trace ID.
func NewTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithTraceID adds a trace ID to the context. An empty or overlong id is
// replaced by a fresh one.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" || len(traceID) > maxTraceIDLength {
		traceID = NewTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, "")
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// WithPrincipalID adds the acting user's ID to the context.
func WithPrincipalID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, PrincipalIDContextKey, id)
}

// GetPrincipalID returns the acting user's ID, or false if none is set.
func GetPrincipalID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(PrincipalIDContextKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
