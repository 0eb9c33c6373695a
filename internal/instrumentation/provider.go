package instrumentation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Provider wires up metrics, tracing, and audit logging according to a
// Config. A disabled provider is valid and hands out nil Metrics; callers
// must treat a nil Metrics or AuditLogger as "do not record".
type Provider struct {
	config Config

	registry       *prometheus.Registry
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider

	metrics     *Metrics
	auditLogger *AuditLogger
}

// NewProvider initializes instrumentation from the given configuration.
// When config.Enabled is false it returns a provider that records nothing.
func NewProvider(ctx context.Context, config Config, logger *slog.Logger) (*Provider, error) {
	p := &Provider{
		config:      config,
		auditLogger: NewAuditLogger(logger),
	}

	if !config.Enabled {
		return p, nil
	}

	res, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := p.setupMetrics(res); err != nil {
		return nil, err
	}
	if err := p.setupTracing(ctx, res); err != nil {
		return nil, err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

func (p *Provider) setupMetrics(res *sdkresource.Resource) error {
	if p.config.MetricsExporter != "prometheus" {
		return nil
	}

	p.registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(p.registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(p.meterProvider)

	metrics, err := NewMetrics(p.meterProvider.Meter(TracerName))
	if err != nil {
		return err
	}
	p.metrics = metrics
	return nil
}

func (p *Provider) setupTracing(ctx context.Context, res *sdkresource.Resource) error {
	var exporter sdktrace.SpanExporter
	var err error

	switch p.config.TracingExporter {
	case "otlp":
		opts := []otlptracehttp.Option{}
		if p.config.OTLPEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(p.config.OTLPEndpoint))
		}
		if p.config.OTLPInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	rate := p.config.TraceSamplingRate
	var sampler sdktrace.Sampler
	switch {
	case rate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case rate <= 0.0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(rate)
	}

	p.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(p.tracerProvider)
	return nil
}

// Enabled reports whether instrumentation is active.
func (p *Provider) Enabled() bool {
	return p.config.Enabled
}

// Metrics returns the metrics recorder, or nil when metrics are disabled.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// AuditLogger returns the audit logger. Audit logging works even when
// metrics and tracing are disabled.
func (p *Provider) AuditLogger() *AuditLogger {
	return p.auditLogger
}

// Registry returns the Prometheus registry backing the /metrics endpoint,
// or nil when the prometheus exporter is not configured.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// PrometheusEndpoint returns the configured metrics endpoint path.
func (p *Provider) PrometheusEndpoint() string {
	return p.config.PrometheusEndpoint
}

// Shutdown flushes and stops the meter and tracer providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("instrumentation shutdown: %v", errs)
	}
	return nil
}
