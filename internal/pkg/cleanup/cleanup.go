package cleanup

import (
	"context"
	"net/http"
	"time"

	"loan-approval-metrics/internal/pkg/db/mongo"
	"loan-approval-metrics/internal/pkg/db/redis"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"
	"loan-approval-metrics/internal/pkg/otel"
)

const (
	mongoDisconnectTimeout = 5 * time.Second
	serverShutdownTimeout  = 8 * time.Second
	otelShutdownTimeout    = 5 * time.Second
)

type closer interface{ Close() error }

// Resources lists everything the service opens at startup. Nil fields are skipped.
type Resources struct {
	Server          *http.Server
	WorkerPool      interface{ Stop() }
	PubSubPublisher closer
	KafkaProducer   closer
	GCSClient       closer
	SFTPUploader    closer
	MongoClient     *mongo.MongoClient
	RedisClient     *redis.RedisClient
	OtelShutdown    otel.ShutdownFunc
}

// CleanupResources releases resources in dependency order: stop taking
// requests, finish queued jobs, then close the clients those jobs use.
func CleanupResources(ctx context.Context, res Resources) {
	logger.CtxInfo(ctx, log_messages.CleanupStarted)

	cleanupHTTPServer(ctx, res.Server)
	if res.WorkerPool != nil {
		res.WorkerPool.Stop()
	}

	cleanupCloser(ctx, res.PubSubPublisher, "PubSub publisher")
	cleanupCloser(ctx, res.KafkaProducer, "Kafka producer")
	cleanupCloser(ctx, res.GCSClient, "GCS client")
	cleanupCloser(ctx, res.SFTPUploader, "SFTP uploader")

	cleanupMongoResource(ctx, res.MongoClient)
	cleanupRedisResource(ctx, res.RedisClient)
	cleanupOtel(ctx, res.OtelShutdown)

	logger.CtxInfo(ctx, log_messages.CleanupCompleted)
}

func cleanupCloser(ctx context.Context, resource closer, resourceName string) {
	if resource == nil {
		return
	}
	if err := resource.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close "+resourceName, err)
	} else {
		logger.CtxInfo(ctx, resourceName+" closed successfully")
	}
}

func cleanupMongoResource(ctx context.Context, mongoClient *mongo.MongoClient) {
	if mongoClient == nil || mongoClient.Client == nil {
		return
	}
	mongoCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mongoDisconnectTimeout)
	defer cancel()
	if err := mongoClient.Client.Disconnect(mongoCtx); err != nil {
		logger.CtxError(ctx, "Failed to disconnect MongoDB client", err)
	} else {
		logger.CtxInfo(ctx, "MongoDB client disconnected successfully")
	}
}

func cleanupRedisResource(ctx context.Context, redisClient *redis.RedisClient) {
	if redisClient == nil || redisClient.Client == nil {
		return
	}
	if err := redis.Disconnect(redisClient.Client); err != nil {
		logger.CtxError(ctx, "Failed to close Redis client", err)
	} else {
		logger.CtxInfo(ctx, "Redis client closed successfully")
	}
}

func cleanupHTTPServer(ctx context.Context, server *http.Server) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.CtxError(ctx, "Failed to shutdown HTTP server", err)
	} else {
		logger.CtxInfo(ctx, "HTTP server shutdown successfully")
	}
}

func cleanupOtel(ctx context.Context, shutdown otel.ShutdownFunc) {
	if shutdown == nil {
		return
	}
	otelCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), otelShutdownTimeout)
	defer cancel()
	if err := shutdown(otelCtx); err != nil {
		logger.CtxError(ctx, "Failed to shutdown tracer provider", err)
	}
}
