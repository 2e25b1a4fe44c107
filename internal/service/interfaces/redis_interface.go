package interfaces

import (
	"context"
	"time"
)

// RedisStoreOperations defines basic Redis operations
type RedisStoreOperations interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}
