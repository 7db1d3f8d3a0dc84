// internal/adapters/redis_adapter/cache_test.go
package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/palletflow/internal/adapters/redis_adapter"
	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/test/helpers"
)

func setupCache(t *testing.T) (*redis_a.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger()), mr
}

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupCache(t)

	insights := []domain.Insight{
		{ID: "first-sale", Type: domain.InsightSuccess, Title: "First sale!", Priority: 100},
		{ID: "stale-inventory", Type: domain.InsightWarning, Title: "Stale inventory", Priority: 90},
	}

	require.NoError(t, cache.Set(ctx, "dashboard:insights:rot-1", insights))

	var got []domain.Insight
	require.NoError(t, cache.Get(ctx, "dashboard:insights:rot-1", &got))
	assert.Equal(t, insights, got)
}

func TestCache_GetMiss(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupCache(t)

	var dest string
	err := cache.Get(ctx, "missing", &dest)
	assert.Equal(t, redis_a.ErrCacheMiss, err)
}

func TestCache_SetWithTTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := setupCache(t)

	require.NoError(t, cache.SetWithTTL(ctx, "ttl:test", "value", 100*time.Millisecond))

	var result string
	require.NoError(t, cache.Get(ctx, "ttl:test", &result))
	assert.Equal(t, "value", result)

	mr.FastForward(200 * time.Millisecond)

	err := cache.Get(ctx, "ttl:test", &result)
	assert.Equal(t, redis_a.ErrCacheMiss, err)
}

func TestCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupCache(t)

	require.NoError(t, cache.Set(ctx, "dashboard:insights:rot-1", "a"))
	require.NoError(t, cache.Set(ctx, "dashboard:summary:week", "b"))
	require.NoError(t, cache.Set(ctx, "export:items", "c"))

	require.NoError(t, cache.DeletePattern(ctx, "dashboard:*"))

	var dest string
	assert.Equal(t, redis_a.ErrCacheMiss, cache.Get(ctx, "dashboard:insights:rot-1", &dest))
	assert.Equal(t, redis_a.ErrCacheMiss, cache.Get(ctx, "dashboard:summary:week", &dest))
	require.NoError(t, cache.Get(ctx, "export:items", &dest))
	assert.Equal(t, "c", dest)
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupCache(t)

	t.Run("fetches_once_then_serves_from_cache", func(t *testing.T) {
		calls := 0
		fetch := func() (interface{}, error) {
			calls++
			return []string{"tip1", "tip2"}, nil
		}

		var first []string
		require.NoError(t, cache.GetOrSet(ctx, "getorset:key", &first, fetch, time.Minute))
		assert.Equal(t, []string{"tip1", "tip2"}, first)
		assert.Equal(t, 1, calls)

		var second []string
		require.NoError(t, cache.GetOrSet(ctx, "getorset:key", &second, fetch, time.Minute))
		assert.Equal(t, first, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("fetch_error_propagates", func(t *testing.T) {
		fetch := func() (interface{}, error) {
			return nil, errors.New("snapshot load failed")
		}

		var dest []string
		err := cache.GetOrSet(ctx, "getorset:err", &dest, fetch, time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "snapshot load failed")
	})
}

func TestCache_Exists(t *testing.T) {
	ctx := context.Background()
	cache, _ := setupCache(t)

	require.NoError(t, cache.Set(ctx, "exists:a", 1))

	ok, err := cache.Exists(ctx, "exists:a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.Exists(ctx, "exists:a", "exists:missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildKey(t *testing.T) {
	key := redis_a.BuildKey(redis_a.PrefixDashboard, "summary", "week")
	assert.Equal(t, "dashboard:summary:week", key)
}
