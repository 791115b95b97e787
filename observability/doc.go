// Package observability wires an OpenTelemetry tracer provider for harness
// runs. The request executor records one span per logical call through the
// global provider; initializing a provider here makes those spans visible
// in an OTLP-compatible backend.
package observability
