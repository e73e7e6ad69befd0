package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hfstol/pkg/adapters/redis"
	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

func TestRedisCache_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	cache := redis.NewFromClient(client)
	ports.RunAnalysisCacheContract(t, cache)
}

func TestRedisCache_Purge(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache := redis.New(mr.Addr(), "", 0, redis.WithPrefix("test:"))
	defer cache.Close()
	ports.RunCachePurgerContract(t, cache)

	t.Run("Other Prefixes Untouched", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, mr.Set("other:"+ports.CacheKey("old", "a"), "[]"))
		require.NoError(t, cache.Set(ctx, ports.CacheKey("old", "a"), domain.Result{}))

		n, err := cache.Purge(ctx, "old")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.True(t, mr.Exists("other:"+ports.CacheKey("old", "a")))
	})
}

func TestRedisCache_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache := redis.New(mr.Addr(), "", 0, redis.WithTTL(time.Second), redis.WithPrefix("test:"))
	defer cache.Close()
	ctx := context.Background()
	require.NoError(t, cache.Ping(ctx))

	key := ports.CacheKey("abc", "atim")
	require.NoError(t, cache.Set(ctx, key, domain.Result{{Symbols: []string{"atim", "+N"}}}))
	assert.True(t, mr.Exists("test:"+key))

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "entry should expire")
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	require.NoError(t, mr.Set("hfstol:bad", "{not json"))

	cache := redis.New(mr.Addr(), "", 0)
	_, _, err = cache.Get(context.Background(), "bad")
	assert.Error(t, err)
}
