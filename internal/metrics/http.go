package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// probePaths are scraped every few seconds by orchestrators and would drown out API traffic.
var probePaths = map[string]struct{}{
	"/health": {},
	"/ready":  {},
}

// HTTPMetricsMiddleware returns a Gin middleware that records request counts and durations
// labelled by method, route pattern and status code. Health probes are not recorded.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := routeLabel(c.FullPath())
		if _, skip := probePaths[route]; skip {
			return
		}

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		requestCounter.Add(c.Request.Context(), 1, attrs)
		durationHisto.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}

func passThrough(c *gin.Context) {
	c.Next()
}

// routeLabel uses the matched route pattern so path parameters do not explode cardinality.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
