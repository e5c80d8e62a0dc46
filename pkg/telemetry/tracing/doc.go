// Package tracing provides OpenTelemetry tracing for Scribe.
//
// Spans:
//   - orchestrator.generate: one Generate call
//   - dispatch.batch: the concurrent provider fan-out
//   - provider.generate: one provider call, child of dispatch.batch
//   - preflight.run: one preflight workflow run
//
// When telemetry.tracing.enabled is false every span is a noop. When it
// is true spans are exported over OTLP gRPC. Inbound W3C traceparent
// headers are honored by HTTPMiddleware.
package tracing
