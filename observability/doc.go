// Package observability wires OpenTelemetry tracing and metrics over
// OTLP/HTTP, plus small health types served by the HTTP server.
package observability
