package util

import (
	"context"
	"time"
)

// Context keys.
type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyStartTime ctxKey = "start_time"
	ctxKeyAPI       ctxKey = "api"
	ctxKeyClass     ctxKey = "class"
)

// ContextWithRequestID adds a request ID to the context.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// ContextWithStartTime adds a start time to the context.
func ContextWithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxKeyStartTime, t)
}

// StartTimeFromContext extracts the start time from context.
func StartTimeFromContext(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(ctxKeyStartTime).(time.Time)
	return t, ok
}

// ContextWithAPI adds the resolved API name to the context.
func ContextWithAPI(ctx context.Context, api string) context.Context {
	return context.WithValue(ctx, ctxKeyAPI, api)
}

// APIFromContext extracts the resolved API name from context.
func APIFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyAPI).(string); ok {
		return v
	}
	return ""
}

// ContextWithClass adds the resolved class name to the context.
func ContextWithClass(ctx context.Context, class string) context.Context {
	return context.WithValue(ctx, ctxKeyClass, class)
}

// ClassFromContext extracts the resolved class name from context.
func ClassFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyClass).(string); ok {
		return v
	}
	return ""
}
