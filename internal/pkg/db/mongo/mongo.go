package mongo

import (
	"context"
	"net/url"
	"strings"
	"time"

	"loan-approval-metrics/internal/pkg/config"
	"loan-approval-metrics/internal/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func ConnectToMongoDB(ctx context.Context, cfg config.MongoConfig) (*MongoClient, error) {
	return connectWithConnector(ctx, cfg, driverConnector{})
}

func connectWithConnector(ctx context.Context, cfg config.MongoConfig, connector MongoConnector) (*MongoClient, error) {
	mongoURI := buildMongoURI(cfg)

	// Redact username and password for safe logging
	safeURI := redactMongoURI(mongoURI)

	logger.CtxInfo(ctx, "Connecting to MongoDB",
		zap.String("uri", safeURI),
		zap.String("database", cfg.DBName),
	)

	connectTimeout := cfg.ConnectTimeout
	clientOpts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout * 2).
		SetSocketTimeout(connectTimeout * 3).
		SetHeartbeatInterval(10 * time.Second).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := connector.Connect(ctx, clientOpts)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to MongoDB", err,
			zap.String("uri", safeURI),
			zap.String("database", cfg.DBName),
		)
		return nil, err
	}

	if err := connector.Ping(ctx, client); err != nil {
		logger.CtxError(ctx, "MongoDB ping failed", err,
			zap.String("uri", safeURI),
			zap.String("database", cfg.DBName),
		)
		return nil, err
	}

	logger.CtxInfo(ctx, "Successfully connected to MongoDB",
		zap.String("uri", safeURI),
		zap.String("database", cfg.DBName),
	)

	return &MongoClient{
		Client:   client,
		Database: client.Database(cfg.DBName),
	}, nil
}

func Disconnect(client *mongo.Client) error {
	return client.Disconnect(context.Background())
}

// buildMongoURI injects the configured credentials after the scheme.
// Without a username the URI is used as given.
func buildMongoURI(cfg config.MongoConfig) string {
	if cfg.Username == "" {
		return cfg.URI
	}

	scheme, rest, found := strings.Cut(cfg.URI, "://")
	if !found {
		scheme, rest = "mongodb+srv", cfg.URI
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = rest[at+1:]
	}

	return scheme + "://" + url.QueryEscape(cfg.Username) + ":" + url.QueryEscape(cfg.Password) + "@" + rest
}

// redactMongoURI hides username and password from a MongoDB URI
func redactMongoURI(uri string) string {
	scheme, rest, found := strings.Cut(uri, "://")
	if !found {
		return uri
	}
	parts := strings.SplitN(rest, "@", 2)
	if len(parts) == 2 {
		return scheme + "://***:***@" + parts[1]
	}
	return uri
}
