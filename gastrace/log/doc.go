// Package log defines the engine's structured logging interface with a
// zap-backed implementation and a no-op logger for tests. Implementations
// append trace_id/span_id from an active OpenTelemetry span in the context.
package log
