package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStoreAdapter(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisStoreAdapter(db)
	assert.NotNil(t, adapter)
	assert.Equal(t, db, adapter.client)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreAdapter_Set(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectSet("test-key", "test-value", 5*time.Minute).SetVal("OK")

		err := adapter.Set(context.Background(), "test-key", "test-value", 5*time.Minute)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectSet("test-key", "test-value", 5*time.Minute).SetErr(errors.New("readonly"))

		err := adapter.Set(context.Background(), "test-key", "test-value", 5*time.Minute)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStoreAdapter_Get(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectGet("test-key").SetVal("test-value")

		result, err := adapter.Get(context.Background(), "test-key")
		assert.NoError(t, err)
		assert.Equal(t, []byte("test-value"), result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing key", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectGet("test-key").RedisNil()

		result, err := adapter.Get(context.Background(), "test-key")
		assert.ErrorIs(t, err, redis.Nil)
		assert.Nil(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStoreAdapter_Delete(t *testing.T) {
	t.Run("Multiple keys", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		mock.ExpectDel("a", "b").SetVal(2)

		assert.NoError(t, adapter.Delete(context.Background(), "a", "b"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No keys is a no-op", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		adapter := NewRedisStoreAdapter(db)

		assert.NoError(t, adapter.Delete(context.Background()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStoreAdapterWithMiniredis(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	adapter := NewRedisStoreAdapter(client)
	ctx := context.Background()

	require.NoError(t, adapter.Set(ctx, "approval_time:avg:all", `{"averageApprovalTimeHours":12}`, time.Minute))
	assert.Equal(t, time.Minute, server.TTL("approval_time:avg:all"))

	value, err := adapter.Get(ctx, "approval_time:avg:all")
	require.NoError(t, err)
	assert.JSONEq(t, `{"averageApprovalTimeHours":12}`, string(value))

	server.FastForward(2 * time.Minute)
	_, err = adapter.Get(ctx, "approval_time:avg:all")
	assert.ErrorIs(t, err, redis.Nil)

	require.NoError(t, adapter.Set(ctx, "k1", "v", 0))
	require.NoError(t, adapter.Delete(ctx, "k1", "k2"))
	assert.False(t, server.Exists("k1"))
}
