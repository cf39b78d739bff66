package observability

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Trace exporters.
const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
	TraceExporterOTLP   = "otlp"
)

// TracingConfig selects where cycle spans are exported.
type TracingConfig struct {
	Exporter     string `json:"exporter,omitempty" yaml:"exporter,omitempty" validate:"omitempty,oneof=none stdout otlp"`
	OTLPEndpoint string `json:"otlp_endpoint,omitempty" yaml:"otlp_endpoint,omitempty" validate:"required_if=Exporter otlp"`
	OTLPInsecure bool   `json:"otlp_insecure,omitempty" yaml:"otlp_insecure,omitempty"`
	ServiceName  string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
}

// Merge applies non-zero values from source into c.
func (c *TracingConfig) Merge(source *TracingConfig) {
	if source.Exporter != "" {
		c.Exporter = source.Exporter
	}
	if source.OTLPEndpoint != "" {
		c.OTLPEndpoint = source.OTLPEndpoint
	}
	if source.OTLPInsecure {
		c.OTLPInsecure = true
	}
	if source.ServiceName != "" {
		c.ServiceName = source.ServiceName
	}
}

// NewTracerProvider builds a tracer provider for cfg. It returns nil when
// tracing is disabled; callers then fall back to the global provider. The
// stdout exporter writes to w.
func NewTracerProvider(ctx context.Context, cfg TracingConfig, w io.Writer) (*sdktrace.TracerProvider, error) {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)

	switch cfg.Exporter {
	case "", TraceExporterNone:
		return nil, nil
	case TraceExporterStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
	case TraceExporterOTLP:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown trace exporter: %s", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s exporter: %w", cfg.Exporter, err)
	}

	name := cfg.ServiceName
	if name == "" {
		name = "listmonitor"
	}
	res := resource.NewWithAttributes("", attribute.String("service.name", name))

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
