// Package observe carries wordsmith's telemetry. OpenTelemetry metrics and
// spans cover every resolution and gateway attempt; [Logger] stamps slog
// records with the active trace.
//
// [InitTelemetry] bridges the metrics to Prometheus for the /metrics
// endpoint. Tests should build their own [Metrics] with [NewMetrics] and a
// private [metric.MeterProvider] instead of using [DefaultMetrics].
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all wordsmith metrics.
const meterName = "github.com/MrWong99/wordsmith"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use; the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// ResolveDuration tracks end-to-end operation resolution latency. Use with
	// attributes: attribute.String("operation", ...), attribute.String("source", ...)
	ResolveDuration metric.Float64Histogram

	// GatewayDuration tracks a full gateway invocation including retries and
	// backoff waits. Use with attribute: attribute.String("outcome", ...)
	GatewayDuration metric.Float64Histogram

	// --- Counters ---

	// ResolveRequests counts resolved operations. Use with attributes:
	//   attribute.String("operation", ...), attribute.String("source", ...)
	ResolveRequests metric.Int64Counter

	// GatewayAttempts counts individual model calls. Use with attributes:
	//   attribute.String("tier", ...), attribute.String("outcome", ...)
	GatewayAttempts metric.Int64Counter

	// Fallbacks counts heuristic fallbacks. Use with attributes:
	//   attribute.String("operation", ...), attribute.String("reason", ...)
	Fallbacks metric.Int64Counter

	// CacheHits and CacheMisses count result cache lookups. Use with
	// attribute: attribute.String("backend", ...)
	CacheHits   metric.Int64Counter
	CacheMisses metric.Int64Counter

	// BreakerTransitions counts circuit breaker state changes. Use with
	// attributes: attribute.String("tier", ...), attribute.String("state", ...)
	BreakerTransitions metric.Int64Counter

	// BatchFiles counts files handled by batch runs. Use with attribute:
	//   attribute.String("outcome", ...)
	BatchFiles metric.Int64Counter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) covering
// local heuristics through a fully retried model call.
var latencyBuckets = []float64{
	0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.ResolveDuration, err = m.Float64Histogram("wordsmith.resolve.duration",
		metric.WithDescription("Latency of operation resolution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.GatewayDuration, err = m.Float64Histogram("wordsmith.gateway.duration",
		metric.WithDescription("Latency of model gateway invocations including retries."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.ResolveRequests, err = m.Int64Counter("wordsmith.resolve.requests",
		metric.WithDescription("Total resolved operations by operation and source."),
	); err != nil {
		return nil, err
	}
	if met.GatewayAttempts, err = m.Int64Counter("wordsmith.gateway.attempts",
		metric.WithDescription("Total model calls by tier and outcome."),
	); err != nil {
		return nil, err
	}
	if met.Fallbacks, err = m.Int64Counter("wordsmith.fallbacks",
		metric.WithDescription("Total heuristic fallbacks by operation and reason."),
	); err != nil {
		return nil, err
	}
	if met.CacheHits, err = m.Int64Counter("wordsmith.cache.hits",
		metric.WithDescription("Total result cache hits by backend."),
	); err != nil {
		return nil, err
	}
	if met.CacheMisses, err = m.Int64Counter("wordsmith.cache.misses",
		metric.WithDescription("Total result cache misses by backend."),
	); err != nil {
		return nil, err
	}
	if met.BreakerTransitions, err = m.Int64Counter("wordsmith.breaker.transitions",
		metric.WithDescription("Total circuit breaker state changes by tier and new state."),
	); err != nil {
		return nil, err
	}
	if met.BatchFiles, err = m.Int64Counter("wordsmith.batch.files",
		metric.WithDescription("Total batch files processed by status."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("wordsmith.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordResolve records one resolved operation and its latency in seconds.
func (m *Metrics) RecordResolve(ctx context.Context, operation, source string, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("source", source),
	)
	m.ResolveRequests.Add(ctx, 1, attrs)
	m.ResolveDuration.Record(ctx, seconds, attrs)
}

// RecordGatewayAttempt records a single model call against tier.
func (m *Metrics) RecordGatewayAttempt(ctx context.Context, tier, outcome string) {
	m.GatewayAttempts.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("tier", tier),
			attribute.String("outcome", outcome),
		),
	)
}

// RecordFallback records a heuristic fallback for operation.
func (m *Metrics) RecordFallback(ctx context.Context, operation, reason string) {
	m.Fallbacks.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("reason", reason),
		),
	)
}

// RecordCacheLookup records a cache hit or miss for backend.
func (m *Metrics) RecordCacheLookup(ctx context.Context, backend string, hit bool) {
	attrs := metric.WithAttributes(attribute.String("backend", backend))
	if hit {
		m.CacheHits.Add(ctx, 1, attrs)
		return
	}
	m.CacheMisses.Add(ctx, 1, attrs)
}

// RecordBreakerTransition records a breaker moving to state.
func (m *Metrics) RecordBreakerTransition(ctx context.Context, tier, state string) {
	m.BreakerTransitions.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("tier", tier),
			attribute.String("state", state),
		),
	)
}

// RecordBatchFile records one batch file with its outcome.
func (m *Metrics) RecordBatchFile(ctx context.Context, outcome string) {
	m.BatchFiles.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
