// Package tracing records spans for the matrix API and exports them over
// OTLP HTTP when a collector is configured.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/psantana5/tsperf-matrix"

// Attribute keys set on matrix generation spans
const (
	PresetKey     = attribute.Key("tsperf.preset")
	BaseliningKey = attribute.Key("tsperf.baselining")
	StrictKey     = attribute.Key("tsperf.strict")
	RunIDKey      = attribute.Key("tsperf.run_id")
	JobsKey       = attribute.Key("tsperf.jobs")
	CollisionsKey = attribute.Key("tsperf.collisions")
)

// Config holds the tracing configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// OTLPEndpoint is the host:port of an OTLP HTTP collector, e.g.
	// "localhost:4318". Empty keeps spans in process.
	OTLPEndpoint string

	// SampleRatio is the fraction of new traces recorded. Values outside
	// (0, 1) record every trace. Sampled parents are always followed.
	SampleRatio float64
}

// Provider owns the trace provider and the propagator used by HTTPMiddleware
type Provider struct {
	tp         *sdktrace.TracerProvider
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	exporting  bool
}

// InitTracer creates a trace provider. Without an endpoint spans are still
// created, so trace context propagates through responses, but nothing is
// exported and the global provider is left alone.
func InitTracer(ctx context.Context, cfg Config) (*Provider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRatio)),
	}

	exporting := cfg.OTLPEndpoint != ""
	if exporting {
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	p := newProvider(sdktrace.NewTracerProvider(opts...), exporting)
	if exporting {
		otel.SetTracerProvider(p.tp)
		otel.SetTextMapPropagator(p.propagator)
	}
	return p, nil
}

func newProvider(tp *sdktrace.TracerProvider, exporting bool) *Provider {
	return &Provider{
		tp:     tp,
		tracer: tp.Tracer(instrumentationName),
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
		exporting: exporting,
	}
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Exporting reports whether spans leave the process
func (p *Provider) Exporting() bool {
	return p.exporting
}

// Shutdown flushes pending spans and stops the provider
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}

// Start opens a child of the span carried by ctx on that span's provider.
// Handlers behind HTTPMiddleware use it without holding a Provider.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer(instrumentationName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordFailure marks span as failed with err
func RecordFailure(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
