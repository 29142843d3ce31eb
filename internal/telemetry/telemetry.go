// Package telemetry wires OpenTelemetry tracing for the chicbot client.
package telemetry

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "chicbot"

// Config holds the configuration for telemetry
type Config struct {
	Enabled      bool
	OTLPEndpoint string // host:port of an OTLP/HTTP collector; exporter default when empty
}

// Provider manages the tracing pipeline. A disabled provider is inert and
// leaves the global no-op tracer in place.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider creates a new telemetry provider
func NewProvider(ctx context.Context, config Config, version string) (*Provider, error) {
	if !config.Enabled {
		log.Printf("Telemetry disabled")
		return &Provider{}, nil
	}

	opts := []otlptracehttp.Option{}
	if config.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(config.OTLPEndpoint), otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Printf("Telemetry enabled, exporting traces via OTLP/HTTP")
	return &Provider{tp: tp}, nil
}

// Shutdown flushes and stops the tracing pipeline.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// Tracer returns a tracer for the named component.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(serviceName + "/" + component)
}
