package otel

import (
	"context"
	"sync"
	"time"

	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type ShutdownFunc func(context.Context) error

var (
	tracer           trace.Tracer
	connectionFailed bool
	connectionMutex  sync.Mutex
)

// Setup installs the global tracer provider exporting to collectorURL over OTLP/HTTP.
// With no collector, or when the exporter cannot be built, tracing stays a no-op.
func Setup(ctx context.Context, serviceName, collectorURL string) (ShutdownFunc, error) {
	noopShutdown := func(context.Context) error { return nil }

	if collectorURL == "" {
		logger.Info(log_messages.OtelCollectorNotConfig)
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	connectionCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	traceExporter, err := otlptracehttp.New(connectionCtx,
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpoint(collectorURL),
	)
	if err != nil {
		handleConnectionError(err)
		return noopShutdown, nil
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = tracerProvider.Tracer(serviceName)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tracerProvider.Shutdown(shutdownCtx)
	}, nil
}

func GetTracer() trace.Tracer {
	if tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return tracer
}

// GetMeter returns a meter from the global provider.
func GetMeter(name string) metric.Meter {
	return otel.Meter(name)
}

func handleConnectionError(err error) {
	connectionMutex.Lock()
	defer connectionMutex.Unlock()
	if !connectionFailed {
		logger.Error(log_messages.OtelSetupFailed, err, zap.Bool("tracing_enabled", false))
		connectionFailed = true
	}
}
