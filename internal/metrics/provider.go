// Package metrics provides OpenTelemetry metrics instrumentation with Prometheus export.
// It covers business operations (sessions, revocations, chat), revocation cache lookups
// and HTTP requests.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider owns the meter provider and the private registry /metrics is served from.
type Provider struct {
	meters   *sdkmetric.MeterProvider
	registry *prometheus.Registry
}

// NewProvider builds a Provider. namespace is reported as service.name and version as
// service.version on the target_info series; runtime collectors are registered too.
func NewProvider(namespace, version string) (*Provider, error) {
	registry := prometheus.NewRegistry()
	if err := registerRuntimeCollectors(registry); err != nil {
		return nil, err
	}

	reader, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meters := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(resource.NewSchemaless(
			attribute.String("service.name", namespace),
			attribute.String("service.version", version),
		)),
	)

	return &Provider{meters: meters, registry: registry}, nil
}

func registerRuntimeCollectors(registry *prometheus.Registry) error {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return fmt.Errorf("failed to register runtime collector: %w", err)
		}
	}
	return nil
}

// Handler serves the registry in the Prometheus exposition format. Scrape failures are
// counted on the same registry.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Registry:          p.registry,
	})
}

func (p *Provider) MeterProvider() *sdkmetric.MeterProvider {
	return p.meters
}

// Shutdown flushes and stops the meter provider. A zero Provider is a no-op.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meters == nil {
		return nil
	}
	if err := p.meters.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down meter provider: %w", err)
	}
	return nil
}
