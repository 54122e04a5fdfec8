package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type httpMetrics struct {
	requestCounter metric.Int64Counter
	durationHisto  metric.Float64Histogram
	inFlight       metric.Int64UpDownCounter
}

func newHTTPMetrics(meterProvider metric.MeterProvider, namespace string) (*httpMetrics, error) {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	// Navigation and visibility streams hold requests open, so in-flight is worth tracking.
	inFlight, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_http_requests_in_flight", namespace),
		metric.WithDescription("Number of HTTP requests being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestCounter: requestCounter,
		durationHisto:  durationHisto,
		inFlight:       inFlight,
	}, nil
}

// HTTPMetricsMiddleware returns a Gin middleware recording request count, duration and
// in-flight requests, labeled by method, route pattern and status code.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	m, err := newHTTPMetrics(meterProvider, namespace)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		route := attribute.String("path", sanitizePath(c.FullPath()))
		ctx := c.Request.Context()

		m.inFlight.Add(ctx, 1, metric.WithAttributes(route))
		defer m.inFlight.Add(ctx, -1, metric.WithAttributes(route))

		c.Next()

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			route,
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		m.requestCounter.Add(ctx, 1, attrs)
		m.durationHisto.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// sanitizePath keeps label cardinality bounded: the route pattern is used, and
// unmatched requests collapse to "unknown".
func sanitizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
