// Package tracing integrates OpenTelemetry with the coordinator so that
// request submissions and grants show up as spans. All instrumentation is kept
// in a separate package; a coordinator without a tracer records nothing.
package tracing
