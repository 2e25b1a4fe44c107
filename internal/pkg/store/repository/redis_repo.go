package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStoreAdapter struct {
	client *redis.Client
}

func NewRedisStoreAdapter(client *redis.Client) *RedisStoreAdapter {
	return &RedisStoreAdapter{client: client}
}

func (a *RedisStoreAdapter) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return a.client.Set(ctx, key, value, expiration).Err()
}

// Get returns redis.Nil when the key does not exist.
func (a *RedisStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	return a.client.Get(ctx, key).Bytes()
}

func (a *RedisStoreAdapter) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return a.client.Del(ctx, keys...).Err()
}
