package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// NewMetricMiddleware records latency, sizes and outcome counters per route.
func NewMetricMiddleware(meter metric.Meter) gin.HandlerFunc {
	durationHistogram, _ := meter.Int64Histogram(
		"http.server.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("The latency of HTTP requests."),
	)
	requestCounter, _ := meter.Int64Counter(
		"http.server.requests_total",
		metric.WithDescription("The total number of HTTP requests."),
	)
	successCounter, _ := meter.Int64Counter(
		"http.server.success_requests_total",
		metric.WithDescription("The total number of successful HTTP requests."),
	)
	errorCounter, _ := meter.Int64Counter(
		"http.server.error_requests_total",
		metric.WithDescription("The total number of failed HTTP requests."),
	)
	requestSizeHistogram, _ := meter.Int64Histogram(
		"http.server.request_size_bytes",
		metric.WithUnit("bytes"),
		metric.WithDescription("The size of HTTP requests in bytes."),
	)
	responseSizeHistogram, _ := meter.Int64Histogram(
		"http.server.response_size_bytes",
		metric.WithUnit("bytes"),
		metric.WithDescription("The size of HTTP responses in bytes."),
	)

	return func(c *gin.Context) {
		startTime := time.Now()
		requestSize := c.Request.ContentLength

		c.Next()

		ctx := c.Request.Context()
		statusCode := c.Writer.Status()
		attrs := metric.WithAttributes(
			semconv.HTTPRouteKey.String(c.FullPath()),
			semconv.HTTPMethodKey.String(c.Request.Method),
			semconv.HTTPStatusCodeKey.Int(statusCode),
			attribute.String("http.client_ip", c.ClientIP()),
		)

		durationHistogram.Record(ctx, time.Since(startTime).Milliseconds(), attrs)
		requestCounter.Add(ctx, 1, attrs)
		// ContentLength is -1 when unknown
		if requestSize >= 0 {
			requestSizeHistogram.Record(ctx, requestSize, attrs)
		}
		if size := c.Writer.Size(); size >= 0 {
			responseSizeHistogram.Record(ctx, int64(size), attrs)
		}

		if statusCode >= 200 && statusCode < 400 {
			successCounter.Add(ctx, 1, attrs)
		} else {
			errorCounter.Add(ctx, 1, attrs)
		}
	}
}
