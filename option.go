package assent

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/viant/assent/policy"
	"github.com/viant/assent/service/messaging"
	"github.com/viant/assent/stats"
	"github.com/viant/assent/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Coordinator.
type Option func(c *Coordinator)

// WithKeyValidator replaces the key validity predicate. A nil validator
// restores the default non-empty check.
func WithKeyValidator(validator policy.KeyValidator) Option {
	return func(c *Coordinator) {
		if validator == nil {
			validator = policy.Default()
		}
		c.keys = validator
	}
}

// WithLogger sets the structured logger used for state transitions.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithEventQueue publishes lifecycle events to queue. The queue's Publish
// must not block.
func WithEventQueue(queue messaging.Queue[Event]) Option {
	return func(c *Coordinator) { c.events = queue }
}

// WithStatsListener registers a callback invoked after every counter change.
func WithStatsListener(listener func(stats.Counters)) Option {
	return func(c *Coordinator) { c.stats.OnChange(listener) }
}

// WithContext sets the context used for spans and event publishing.
func WithContext(ctx context.Context) Option {
	return func(c *Coordinator) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithTracerProvider records spans on tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Coordinator) { c.tracer = tracing.New(tp) }
}

// WithTracing configures the global OpenTelemetry provider with the stdout
// exporter (or outputFile when set) and records spans on it. Safe to call
// multiple times; the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(c *Coordinator) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
		c.tracer = tracing.New(nil)
	}
}

// WithTracingExporter configures the global provider using a custom
// SpanExporter, e.g. OTLP or Jaeger.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(c *Coordinator) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
		c.tracer = tracing.New(nil)
	}
}
