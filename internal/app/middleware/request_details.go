package middleware

import (
	"context"
	"strings"
	"time"

	"loan-approval-metrics/internal/pkg/logger"
	"loan-approval-metrics/internal/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	RequestDetailsKey contextKey = "requestDetails"
	RequestIDHeader              = "X-Request-ID"

	maskedValue = "*****"
)

var sensitiveHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"x-api-key":     {},
}

// AttachRequestDetails tags each request with an id, exposes it to the
// logger when no trace is active and writes one access log entry on completion.
func AttachRequestDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		details := models.RequestDetails{
			RequestID:      requestID,
			IP:             c.ClientIP(),
			UserAgent:      c.Request.UserAgent(),
			HTTPMethod:     c.Request.Method,
			Path:           c.Request.URL.String(),
			OperationName:  c.FullPath(),
			RequestTime:    time.Now().UTC().Format(time.RFC3339Nano),
			RequestHeaders: extractHeaders(c.Request.Header),
		}

		ctx := context.WithValue(c.Request.Context(), RequestDetailsKey, details)
		if !trace.SpanContextFromContext(ctx).HasTraceID() {
			ctx = logger.WithTraceID(ctx, requestID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		details.Status = c.Writer.Status()
		details.ResponseTime = time.Now().UTC().Format(time.RFC3339Nano)
		logger.CtxInfo(ctx, "Request completed", zap.Any("request", details))
	}
}

// GetRequestDetails returns the details attached by AttachRequestDetails.
func GetRequestDetails(ctx context.Context) (models.RequestDetails, bool) {
	details, ok := ctx.Value(RequestDetailsKey).(models.RequestDetails)
	return details, ok
}

func extractHeaders(headers map[string][]string) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			continue
		}
		if _, sensitive := sensitiveHeaders[strings.ToLower(key)]; sensitive {
			result[key] = maskedValue
			continue
		}
		result[key] = values[0]
	}
	return result
}
