package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys. Custom keys use the "scribe." namespace.
const (
	AttrProvider   = "scribe.provider"
	AttrProviders  = "scribe.providers"
	AttrRequestID  = "scribe.request_id"
	AttrKeyword    = "scribe.keyword"
	AttrWordCount  = "scribe.word_count"
	AttrTokens     = "scribe.tokens"
	AttrCost       = "scribe.cost_usd"
	AttrErrorClass = "scribe.error_class"
	AttrSuccess    = "scribe.success"
	AttrSource     = "scribe.source"
	AttrQuality    = "scribe.quality"
	AttrState      = "scribe.preflight_state"
)

// SetOutcomeAttributes records the result of one provider call.
func SetOutcomeAttributes(span trace.Span, provider string, success bool, class string, tokens int, cost float64) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrProvider, provider),
		attribute.Bool(AttrSuccess, success),
	}
	if success {
		attrs = append(attrs,
			attribute.Int(AttrTokens, tokens),
			attribute.Float64(AttrCost, cost),
		)
	} else {
		attrs = append(attrs, attribute.String(AttrErrorClass, class))
	}
	span.SetAttributes(attrs...)
}

// SetRequestAttributes records the identifying fields of a generate request.
func SetRequestAttributes(span trace.Span, requestID, keyword string, wordCount int) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrKeyword, keyword),
		attribute.Int(AttrWordCount, wordCount),
	}
	if requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	span.SetAttributes(attrs...)
}
