// Package telemetry groups Scribe's observability packages.
//
//   - logging: slog setup with secret redaction and request-scoped fields
//   - metrics: Prometheus collectors on a private registry
//   - tracing: OpenTelemetry spans exported over OTLP gRPC
//   - health: liveness and readiness probes
//
// Each package is configured from config.TelemetryConfig. Collectors and
// tracers are nil-safe so domain packages can run without telemetry.
package telemetry
