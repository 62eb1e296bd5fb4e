// Package trace sets up OpenTelemetry tracing for backend requests.
// Without an endpoint every tracer is a no-op.
package trace

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultServiceName is reported when none is configured.
const DefaultServiceName = "codefix"

// TracerName is the instrumentation scope used by the client.
const TracerName = "codefix/backend"

// Config selects the OTLP collector.
type Config struct {
	Endpoint    string // host:port or full URL; empty disables export
	ServiceName string
}

// Provider owns the tracer provider for the process lifetime.
type Provider struct {
	sdk     *sdktrace.TracerProvider // nil when disabled
	tracer  oteltrace.Tracer
	enabled bool
}

// Setup builds an OTLP/HTTP exporter when cfg.Endpoint is set and a no-op
// provider otherwise.
func Setup(ctx context.Context, cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	exporter, err := otlptracehttp.New(ctx, endpointOptions(cfg.Endpoint)...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return &Provider{
		sdk:     tp,
		tracer:  tp.Tracer(TracerName),
		enabled: true,
	}, nil
}

// endpointOptions accepts either a bare host:port (plain HTTP, as used for
// local collectors) or a full URL.
func endpointOptions(endpoint string) []otlptracehttp.Option {
	endpoint = strings.TrimSpace(endpoint)
	if strings.Contains(endpoint, "://") {
		return []otlptracehttp.Option{otlptracehttp.WithEndpointURL(endpoint)}
	}
	return []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	}
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p != nil && p.enabled
}

// Tracer returns the tracer for backend spans.
func (p *Provider) Tracer() oteltrace.Tracer {
	if p == nil || p.tracer == nil {
		return noop.NewTracerProvider().Tracer(TracerName)
	}
	return p.tracer
}

// Shutdown flushes and closes the exporter
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
