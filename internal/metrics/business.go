package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Cache lookup outcomes reported by RecordCacheLookup.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// BusinessMetrics records what the service does, as opposed to how HTTP traffic looks.
type BusinessMetrics interface {
	// RecordOperation counts one use-case call. domain is "auth" or "chat"; operation names
	// the call (login, logout, revocation_contains, chat, ...); status is success or error.
	RecordOperation(ctx context.Context, domain, operation, status string)

	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordCacheLookup counts a cache read by outcome (CacheHit, CacheMiss or CacheError).
	RecordCacheLookup(ctx context.Context, cache, result string)

	// RecordModelTokens adds the tokens a language model reported for one completion.
	RecordModelTokens(ctx context.Context, model string, tokens int)
}

type businessMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
	cache      metric.Int64Counter
	tokens     metric.Int64Counter
}

// NewBusinessMetrics registers the business instruments on meterProvider, prefixing
// every series with namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)
	name := func(suffix string) string { return namespace + "_" + suffix }

	var (
		b   businessMetrics
		err error
	)

	if b.operations, err = meter.Int64Counter(name("operations_total"),
		metric.WithDescription("Business operations by domain, operation and status"),
		metric.WithUnit("{operation}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	if b.durations, err = meter.Float64Histogram(name("operation_duration_seconds"),
		metric.WithDescription("Business operation latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	if b.cache, err = meter.Int64Counter(name("cache_lookups_total"),
		metric.WithDescription("Cache reads by cache and result"),
		metric.WithUnit("{lookup}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cache lookup counter: %w", err)
	}

	if b.tokens, err = meter.Int64Counter(name("model_tokens_total"),
		metric.WithDescription("Tokens consumed by language model completions"),
		metric.WithUnit("{token}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create model token counter: %w", err)
	}

	return &b, nil
}

func operationAttrs(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttrs(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttrs(domain, operation, status))
}

func (b *businessMetrics) RecordCacheLookup(ctx context.Context, cache, result string) {
	b.cache.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache", cache),
		attribute.String("result", result),
	))
}

func (b *businessMetrics) RecordModelTokens(ctx context.Context, model string, tokens int) {
	if tokens <= 0 {
		return
	}
	b.tokens.Add(ctx, int64(tokens), metric.WithAttributes(attribute.String("model", model)))
}

// NoOpBusinessMetrics is used when METRICS_ENABLED is false.
type NoOpBusinessMetrics struct{}

func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (n *NoOpBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

func (n *NoOpBusinessMetrics) RecordCacheLookup(context.Context, string, string) {}

func (n *NoOpBusinessMetrics) RecordModelTokens(context.Context, string, int) {}
