package ports

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hfstol/pkg/domain"
)

// RunAnalysisCacheContract runs a suite of tests to verify that an AnalysisCache
// implementation adheres to the defined interface contract.
func RunAnalysisCacheContract(t *testing.T, cache AnalysisCache) {
	ctx := context.Background()
	checksum := "contract-" + time.Now().Format("20060102150405.000000000")

	t.Run("Miss", func(t *testing.T) {
		res, ok, err := cache.Get(ctx, CacheKey(checksum, "missing"))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, res)
	})

	t.Run("Set and Get", func(t *testing.T) {
		want := domain.Result{
			{Symbols: []string{"a", "t", "i", "m", "+N", "+A", "+Sg"}},
			{Symbols: []string{"a", "t", "i", "m", "ê", "w", "+V"}, Weight: 1.5},
		}
		key := CacheKey(checksum, "atim")
		require.NoError(t, cache.Set(ctx, key, want))

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("Empty result is cached", func(t *testing.T) {
		key := CacheKey(checksum, "avocado")
		require.NoError(t, cache.Set(ctx, key, domain.Result{}))

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok, "a rejected word is a valid cached answer")
		assert.Empty(t, got)
	})

	t.Run("Keys are scoped by checksum", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, CacheKey(checksum+"-a", "word"), domain.Result{{Symbols: []string{"A"}}}))

		_, ok, err := cache.Get(ctx, CacheKey(checksum+"-b", "word"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Overwrite", func(t *testing.T) {
		key := CacheKey(checksum, "overwrite")
		require.NoError(t, cache.Set(ctx, key, domain.Result{{Symbols: []string{"old"}}}))
		require.NoError(t, cache.Set(ctx, key, domain.Result{{Symbols: []string{"new"}}}))

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []string{"new"}, got.Strings())
	})

	t.Run("Concurrent access", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := CacheKey(checksum, fmt.Sprintf("concurrent-%d", i))
				assert.NoError(t, cache.Set(ctx, key, domain.Result{{Symbols: []string{key}}}))
				_, ok, err := cache.Get(ctx, key)
				assert.NoError(t, err)
				assert.True(t, ok)
			}(i)
		}
		wg.Wait()
	})
}

// RunCachePurgerContract verifies that Purge drops exactly the entries of one
// checksum.
func RunCachePurgerContract(t *testing.T, cache interface {
	AnalysisCache
	CachePurger
}) {
	ctx := context.Background()
	stamp := time.Now().Format("20060102150405.000000000")
	retired, live := "retired-"+stamp, "live-"+stamp

	for _, word := range []string{"atim", "itwêwina"} {
		require.NoError(t, cache.Set(ctx, CacheKey(retired, word), domain.Result{}))
	}
	require.NoError(t, cache.Set(ctx, CacheKey(live, "atim"), domain.Result{}))
	// A checksum that merely starts with the retired one is a different transducer.
	require.NoError(t, cache.Set(ctx, CacheKey(retired+"x", "atim"), domain.Result{}))

	n, err := cache.Purge(ctx, retired)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok, err := cache.Get(ctx, CacheKey(retired, "atim"))
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, _ = cache.Get(ctx, CacheKey(live, "atim"))
	assert.True(t, ok)
	_, ok, _ = cache.Get(ctx, CacheKey(retired+"x", "atim"))
	assert.True(t, ok)

	n, err = cache.Purge(ctx, retired)
	require.NoError(t, err)
	assert.Zero(t, n)
}
