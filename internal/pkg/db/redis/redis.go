package redis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"

	"loan-approval-metrics/internal/pkg/config"
	"loan-approval-metrics/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisClientConstructor func(opt *redis.Options) *redis.Client

type RedisClient struct {
	Client *redis.Client
}

// ConnectToRedis builds the client with newClientFunc (redis.NewClient when nil) and pings it.
func ConnectToRedis(
	ctx context.Context,
	cfg config.RedisConfig,
	newClientFunc RedisClientConstructor,
) (*RedisClient, error) {

	logger.CtxInfo(ctx, "Connecting to Redis",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
		zap.Bool("enable_tls", cfg.EnableTLS),
	)

	options := &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.ConnectTimeout,
	}

	if cfg.EnableTLS {
		tlsConfig, err := buildTLSConfig(ctx, cfg)
		if err != nil {
			logger.CtxError(ctx, "Failed to build TLS config", err)
			return nil, fmt.Errorf("failed to build TLS config: %w", err)
		}
		options.TLSConfig = tlsConfig
	}

	if newClientFunc == nil {
		newClientFunc = redis.NewClient
	}
	client := newClientFunc(options)

	if err := client.Ping(ctx).Err(); err != nil {
		logger.CtxError(ctx, "Redis ping failed", err, zap.String("addr", cfg.Addr))
		return nil, err
	}

	logger.CtxInfo(ctx, "Successfully connected to Redis", zap.String("addr", cfg.Addr))

	return &RedisClient{
		Client: client,
	}, nil
}

func buildTLSConfig(ctx context.Context, cfg config.RedisConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if cfg.CertContent == "" {
		return tlsConfig, nil
	}

	pemContent := []byte(cfg.CertContent)
	var loadedAny bool

	// The same PEM blob may carry a client key pair, CA certificates or both.
	if cert, err := tls.X509KeyPair(pemContent, pemContent); err == nil {
		tlsConfig.Certificates = []tls.Certificate{cert}
		logger.CtxDebug(ctx, "Loaded Redis client certificate from PEM content")
		loadedAny = true
	}

	caCertPool := x509.NewCertPool()
	if caCertPool.AppendCertsFromPEM(pemContent) {
		tlsConfig.RootCAs = caCertPool
		logger.CtxDebug(ctx, "Loaded Redis CA certificate(s) from PEM content")
		loadedAny = true
	}

	if !loadedAny {
		return nil, fmt.Errorf("failed to parse PEM content as a valid CA certificate or client key pair")
	}

	return tlsConfig, nil
}

func Disconnect(client *redis.Client) error {
	return client.Close()
}
