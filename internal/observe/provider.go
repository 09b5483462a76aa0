package observe

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// ServiceName is reported as service.name in every span and metric.
const ServiceName = "wordsmith"

// Resource attribute keys naming the gateway's model tiers.
const (
	attrPrimaryModel = "wordsmith.model.primary"
	attrBackupModel  = "wordsmith.model.backup"
)

// TelemetryConfig describes the process to the OpenTelemetry SDK.
type TelemetryConfig struct {
	ServiceVersion string

	// PrimaryModel and BackupModel are attached to the resource so traces and
	// the Prometheus target_info series show which models served resolutions.
	PrimaryModel string
	BackupModel  string

	// SampleRatio is the fraction of root spans recorded. Values outside
	// (0, 1) record everything.
	SampleRatio float64

	// Registerer receives the Prometheus exporter's collector. Defaults to
	// prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer

	// SpanExporter receives finished spans in batches. When nil spans are
	// recorded for log correlation only.
	SpanExporter sdktrace.SpanExporter
}

// InitTelemetry installs global meter and tracer providers. Metrics are
// bridged to Prometheus and served by [MetricsHandler]. The returned function
// flushes and stops both providers.
func InitTelemetry(ctx context.Context, cfg TelemetryConfig) (shutdown func(context.Context) error, err error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	}
	if cfg.PrimaryModel != "" {
		attrs = append(attrs, attribute.String(attrPrimaryModel, cfg.PrimaryModel))
	}
	if cfg.BackupModel != "" {
		attrs = append(attrs, attribute.String(attrBackupModel, cfg.BackupModel))
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
	if err != nil {
		return nil, err
	}

	var expOpts []promexporter.Option
	if cfg.Registerer != nil {
		expOpts = append(expOpts, promexporter.WithRegisterer(cfg.Registerer))
	}
	promExp, err := promexporter.New(expOpts...)
	if err != nil {
		return nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(promExp))

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}
	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res), sdktrace.WithSampler(sampler)}
	if cfg.SpanExporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(cfg.SpanExporter))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)

	otel.SetMeterProvider(mp)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

// MetricsHandler serves the Prometheus scrape endpoint for g, or for the
// default registry when g is nil.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
