// Package observe builds OpenTelemetry tracers for instrumenting engine
// operations. Callers that already run a tracer provider can pass their own
// tracer to the engine instead; this package only covers the standalone
// case.
package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "lexgraph"

// NewTracerProvider creates a TracerProvider with the library's service
// resource attributes and the given span exporter. A nil exporter yields a
// provider whose spans are recorded but never exported, which is enough for
// tests and for callers that only want span context propagation.
func NewTracerProvider(exporter sdktrace.SpanExporter, logger *slog.Logger) *sdktrace.TracerProvider {
	if logger == nil {
		logger = slog.Default()
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		res = resource.Default()
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if exporter != nil {
		opts = append(opts, sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
	}
	return sdktrace.NewTracerProvider(opts...)
}

// Tracer returns the library's tracer from the provider.
func Tracer(tp *sdktrace.TracerProvider) trace.Tracer {
	return tp.Tracer(serviceName)
}
