// Package server exposes the orchestrator over HTTP.
//
// # Endpoints
//
//	POST /v1/generate        generate one article; ?format=html renders HTML
//	GET  /v1/preflight       run the preflight workflow and return its report
//	GET  /v1/usage           per-provider usage for today
//	GET  /health/live        liveness (path from telemetry.health)
//	GET  /health/ready       readiness (path from telemetry.health)
//	GET  /metrics            Prometheus metrics (path from telemetry.metrics)
//
// A generate request body is a JSON content.Request:
//
//	{
//	    "keyword": "espresso machines",
//	    "target_url": "https://example.com/buy",
//	    "anchor_text": "best espresso machines",
//	    "word_count": 800,
//	    "tone": "professional",
//	    "seo_focus": "medium"
//	}
//
// Generation always yields an article while the request is valid, so the
// only error responses are:
//
//	400 invalid_request_error  malformed JSON or a rejected field ("param" names it)
//	413 request_too_large      body larger than server.max_body_bytes
//	422 content_rejected       the moderation gate blocked the request
//	504 gateway_timeout        the request context expired
//
// # Middleware
//
// Requests pass through, outermost first: panic recovery, access logging,
// request ID assignment (X-Request-ID, reused when the client sends one)
// and, when tracing is enabled, W3C trace context extraction.
//
// # Lifecycle
//
// Start blocks until its context is canceled or Stop is called, then
// drains in-flight requests for up to server.shutdown_timeout. Signal
// handling is left to the caller.
package server
