package logger

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

const defaultServiceName = "loan-approval-metrics"

var (
	log         = zap.NewNop()
	serviceName = defaultServiceName
)

// Init builds the global JSON logger at the given level.
func Init(level string, service string) {
	if service != "" {
		serviceName = service
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.Encoding = "json"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "log_level"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.StacktraceKey = ""
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.OutputPaths = []string{"stdout"}

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}
	log = built
}

// Sync flushes any buffered entries.
func Sync() {
	_ = log.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// WithTraceID returns a new context carrying the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID returns the trace ID stored on ctx, falling back to the active span.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(traceIDKey).(string); ok && v != "" {
		return v
	}
	spanContext := trace.SpanContextFromContext(ctx)
	if spanContext.HasTraceID() {
		return spanContext.TraceID().String()
	}
	return ""
}

func contextFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	}
	return append(fields, zap.String("service_name", serviceName))
}

// CONTEXT-AWARE LOGGING //

func CtxInfo(ctx context.Context, msg string, fields ...zap.Field) {
	log.Info(msg, contextFields(ctx, fields)...)
}

func CtxDebug(ctx context.Context, msg string, fields ...zap.Field) {
	log.Debug(msg, contextFields(ctx, fields)...)
}

func CtxWarn(ctx context.Context, msg string, fields ...zap.Field) {
	log.Warn(msg, contextFields(ctx, fields)...)
}

func CtxError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	log.Error(msg, contextFields(ctx, fields)...)
}

// NON-CONTEXT LOGGING //

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	log.Error(msg, fields...)
}
