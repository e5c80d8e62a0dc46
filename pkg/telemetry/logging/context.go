package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// KeywordKey is the context key for the keyword of the article being
	// generated.
	KeywordKey contextKey = "keyword"
)

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

// WithKeyword adds the request keyword to the context.
func WithKeyword(ctx context.Context, keyword string) context.Context {
	return context.WithValue(ctx, KeywordKey, keyword)
}

// GetKeyword retrieves the request keyword from the context.
func GetKeyword(ctx context.Context) string {
	if kw, ok := ctx.Value(KeywordKey).(string); ok {
		return kw
	}
	return ""
}

// contextAttrs extracts the logged context fields.
func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	if id := GetRequestID(ctx); id != "" {
		attrs = append(attrs, slog.String(string(RequestIDKey), id))
	}
	if kw := GetKeyword(ctx); kw != "" {
		attrs = append(attrs, slog.String(string(KeywordKey), kw))
	}
	return attrs
}
