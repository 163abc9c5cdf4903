package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/batch-explorer/internal/core"
	"github.com/target/batch-explorer/internal/domain/model"
	"github.com/target/batch-explorer/internal/testutil"
)

var _ core.CacheRepository = (*RedisCacheRepo)(nil)

func TestRedisCacheRepo_Set_Get_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	repo := NewRedisCacheRepo(client)
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		key := "batch-explorer:count:all:"
		ttl := 5 * time.Minute

		require.NoError(t, repo.Set(ctx, key, []byte("42"), ttl))

		result, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("42"), result)

		actualTTL := client.TTL(ctx, key).Val()
		assert.True(t, actualTTL > 0 && actualTTL <= ttl)
	})

	t.Run("get non-existent key", func(t *testing.T) {
		result, err := repo.Get(ctx, "batch-explorer:count:missing")
		require.NoError(t, err)
		assert.Nil(t, result)
	})

	t.Run("delete", func(t *testing.T) {
		key := "batch-explorer:count:by_status:FAILED"
		require.NoError(t, repo.Set(ctx, key, []byte("2"), time.Minute))

		deleted, err := repo.Delete(ctx, key)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, key)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("health", func(t *testing.T) {
		assert.NoError(t, repo.Health(ctx))
	})
}

func TestRedisCacheRepo_CountCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	counts := core.NewCountCache(NewRedisCacheRepo(client), core.DefaultCountCacheConfig())
	ctx := context.Background()
	filter := model.ByJobName("nightly-etl")

	_, ok, err := counts.Get(ctx, filter)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, counts.Put(ctx, filter, 3))
	n, ok, err := counts.Get(ctx, filter)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	require.NoError(t, counts.Invalidate(ctx, filter))
	_, ok, err = counts.Get(ctx, filter)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheRepo_EmptyKey(t *testing.T) {
	repo := NewRedisCacheRepo(nil)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Set(ctx, "", []byte("x"), time.Second), ErrEmptyCacheKey)
	_, err := repo.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyCacheKey)
	_, err = repo.Delete(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyCacheKey)
}
