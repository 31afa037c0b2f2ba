// Package oteladapters provides OpenTelemetry implementations of the shell observability
// interfaces: slog and OpenTelemetry log based loggers, a metrics collector backed by
// OpenTelemetry instruments and a tracing collector backed by OpenTelemetry spans.
package oteladapters
