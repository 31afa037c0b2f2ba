package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const shutdownTimeout = 5 * time.Second

// ObservabilityProviders holds the OpenTelemetry providers of a process.
type ObservabilityProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Resource       *resource.Resource
}

type observabilityOptions struct {
	serviceVersion string
	spanExporter   trace.SpanExporter
	metricReader   metric.Reader
	setGlobal      bool
}

// ObservabilityOption configures NewObservabilityProviders.
type ObservabilityOption func(*observabilityOptions)

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) ObservabilityOption {
	return func(o *observabilityOptions) {
		o.serviceVersion = version
	}
}

// WithSpanExporter batches finished spans to exporter.
func WithSpanExporter(exporter trace.SpanExporter) ObservabilityOption {
	return func(o *observabilityOptions) {
		o.spanExporter = exporter
	}
}

// WithMetricReader attaches reader to the meter provider.
func WithMetricReader(reader metric.Reader) ObservabilityOption {
	return func(o *observabilityOptions) {
		o.metricReader = reader
	}
}

// WithGlobalProviders installs the providers and the W3C trace context propagator globally.
func WithGlobalProviders() ObservabilityOption {
	return func(o *observabilityOptions) {
		o.setGlobal = true
	}
}

// NewObservabilityProviders creates tracer and meter providers identified by serviceName.
// Without WithSpanExporter spans are recorded but not exported, without WithMetricReader
// measurements are aggregated but never collected.
func NewObservabilityProviders(serviceName string, opts ...ObservabilityOption) (*ObservabilityProviders, error) {
	options := observabilityOptions{serviceVersion: "dev"}
	for _, opt := range opts {
		opt(&options)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(options.serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceOpts := []trace.TracerProviderOption{trace.WithResource(res)}
	if options.spanExporter != nil {
		traceOpts = append(traceOpts, trace.WithBatcher(options.spanExporter))
	}

	meterOpts := []metric.Option{metric.WithResource(res)}
	if options.metricReader != nil {
		meterOpts = append(meterOpts, metric.WithReader(options.metricReader))
	}

	providers := &ObservabilityProviders{
		TracerProvider: trace.NewTracerProvider(traceOpts...),
		MeterProvider:  metric.NewMeterProvider(meterOpts...),
		Resource:       res,
	}

	if options.setGlobal {
		otel.SetTracerProvider(providers.TracerProvider)
		otel.SetMeterProvider(providers.MeterProvider)
		otel.SetTextMapPropagator(propagation.TraceContext{})
	}

	return providers, nil
}

// Shutdown flushes and stops both providers.
func (p *ObservabilityProviders) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}
