package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizmaster/internal/cache"
	"quizmaster/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

var errRedis = errors.New("redis: connection pool timeout")

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := cache.GenerationListKey("user-1")

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet(key).SetVal(`[{"ID":"gen-1"}]`)
		val, err := c.Get(ctx, key)
		assert.NoError(t, err)
		assert.Equal(t, `[{"ID":"gen-1"}]`, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(redis.Nil)
		val, err := c.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectGet(key).SetErr(errRedis)
		_, err := c.Get(ctx, key)
		assert.ErrorIs(t, err, errRedis)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_SetDeletePing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := cache.GenerationListKey("user-1")

	mock.ExpectSet(key, "[]", 10*time.Minute).SetVal("OK")
	assert.NoError(t, c.Set(ctx, key, "[]", 10*time.Minute))

	mock.ExpectSet(key, "[]", time.Minute).SetErr(errRedis)
	assert.ErrorIs(t, c.Set(ctx, key, "[]", time.Minute), errRedis)

	// deleting a missing key is not an error
	mock.ExpectDel(key).SetVal(0)
	assert.NoError(t, c.Delete(ctx, key))

	mock.ExpectDel(key).SetErr(errRedis)
	assert.ErrorIs(t, c.Delete(ctx, key), errRedis)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, c.Ping(ctx))

	mock.ExpectPing().SetErr(errRedis)
	assert.ErrorIs(t, c.Ping(ctx), errRedis)

	assert.NoError(t, mock.ExpectationsWereMet())
}
