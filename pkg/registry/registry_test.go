package registry_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hfstol"
	"github.com/aretw0/hfstol/internal/testutils"
	"github.com/aretw0/hfstol/pkg/adapters/memory"
	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
	"github.com/aretw0/hfstol/pkg/registry"
)

func TestRegistry_LoadAndGet(t *testing.T) {
	path := testutils.WriteTransducer(t, "crk.hfstol", testutils.CreeFixture().Bytes())
	r := registry.New(memory.NewCatalog(map[string]string{"crk": path}), registry.Opener())

	require.NoError(t, r.Load(context.Background()))
	assert.Equal(t, []string{"crk"}, r.Names())

	a, err := r.Get("crk")
	require.NoError(t, err)
	assert.Equal(t, "crk", a.Name())

	res, err := a.Lookup(context.Background(), "atim")
	require.NoError(t, err)
	assert.Len(t, res, 2)

	_, err = r.Get("fin")
	assert.ErrorIs(t, err, domain.ErrAnalyzerNotFound)
}

func TestRegistry_LoadFailureKeepsCurrentSet(t *testing.T) {
	good := testutils.WriteTransducer(t, "crk.hfstol", testutils.CreeFixture().Bytes())
	r := registry.New(memory.NewCatalog(map[string]string{"crk": good}), registry.Opener())
	require.NoError(t, r.Load(context.Background()))

	bad := registry.New(memory.NewCatalog(map[string]string{"crk": good, "missing": "/nonexistent.hfstol"}), registry.Opener())
	err := bad.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrIO)
	assert.Empty(t, bad.Names())

	assert.Equal(t, []string{"crk"}, r.Names())
}

func TestRegistry_Reload(t *testing.T) {
	path := testutils.WriteTransducer(t, "crk.hfstol", testutils.CreeFixture().Bytes())
	r := registry.New(memory.NewCatalog(map[string]string{"crk": path}), registry.Opener())
	require.NoError(t, r.Load(context.Background()))

	before, err := r.Get("crk")
	require.NoError(t, err)

	b := testutils.NewFSTBuilder()
	b.AddPath(testutils.Seq(testutils.Chars("atim"), testutils.Out("+New"))...)
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))

	require.NoError(t, r.Reload(context.Background(), "crk"))
	after, err := r.Get("crk")
	require.NoError(t, err)
	assert.NotEqual(t, before.Info().Checksum, after.Info().Checksum)

	got, err := after.BulkLookup(context.Background(), []string{"atim"})
	require.NoError(t, err)
	assert.Equal(t, []string{"atim+New"}, got["atim"])

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))
	assert.ErrorIs(t, r.Reload(context.Background(), "crk"), domain.ErrFormat)
	still, err := r.Get("crk")
	require.NoError(t, err)
	assert.Equal(t, after.Info().Checksum, still.Info().Checksum)

	assert.ErrorIs(t, r.Reload(context.Background(), "fin"), domain.ErrAnalyzerNotFound)
}

func TestRegistry_ReloadPurgesRetiredChecksum(t *testing.T) {
	ctx := context.Background()
	cache := memory.New()
	path := testutils.WriteTransducer(t, "crk.hfstol", testutils.CreeFixture().Bytes())
	twin := testutils.WriteTransducer(t, "twin.hfstol", testutils.CreeFixture().Bytes())

	r := registry.New(
		memory.NewCatalog(map[string]string{"crk": path, "twin": twin}),
		registry.Opener(hfstol.WithCache(cache)),
		registry.WithPurger(cache),
	)
	require.NoError(t, r.Load(ctx))

	crk, err := r.Get("crk")
	require.NoError(t, err)
	oldSum := crk.Info().Checksum
	_, err = crk.Lookup(ctx, "atim")
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	t.Run("Unchanged File Keeps Entries", func(t *testing.T) {
		require.NoError(t, r.Reload(ctx, "crk"))
		assert.Equal(t, 1, cache.Len())
	})

	t.Run("Checksum Still Served Elsewhere", func(t *testing.T) {
		b := testutils.NewFSTBuilder()
		b.AddPath(testutils.Seq(testutils.Chars("atim"), testutils.Out("+New"))...)
		require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))

		require.NoError(t, r.Reload(ctx, "crk"))
		_, ok, _ := cache.Get(ctx, ports.CacheKey(oldSum, "atim"))
		assert.True(t, ok, "twin still uses the old transducer")
	})

	t.Run("Retired Checksum Is Purged", func(t *testing.T) {
		b := testutils.NewFSTBuilder()
		b.AddPath(testutils.Seq(testutils.Chars("atim"), testutils.Out("+Twin"))...)
		require.NoError(t, os.WriteFile(twin, b.Bytes(), 0o644))

		require.NoError(t, r.Load(ctx))
		_, ok, _ := cache.Get(ctx, ports.CacheKey(oldSum, "atim"))
		assert.False(t, ok)
		assert.Zero(t, cache.Len())
	})
}

type watchCatalog struct {
	*memory.Catalog
	events chan string
}

func (w *watchCatalog) Watch(ctx context.Context) (<-chan string, error) {
	return w.events, nil
}

func TestRegistry_WatchReloads(t *testing.T) {
	path := testutils.WriteTransducer(t, "crk.hfstol", testutils.CreeFixture().Bytes())
	catalog := &watchCatalog{Catalog: memory.NewCatalog(map[string]string{"crk": path}), events: make(chan string)}

	var opens atomic.Int32
	open := func(spec domain.AnalyzerSpec) (ports.Analyzer, error) {
		opens.Add(1)
		return registry.Opener()(spec)
	}
	r := registry.New(catalog, open)
	require.NoError(t, r.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- r.Watch(ctx) }()

	catalog.events <- "crk"
	assert.Eventually(t, func() bool { return opens.Load() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestRegistry_Register(t *testing.T) {
	r := registry.New(memory.NewCatalog(nil), func(domain.AnalyzerSpec) (ports.Analyzer, error) {
		return nil, errors.New("unused")
	})
	require.NoError(t, r.Load(context.Background()))

	path := testutils.WriteTransducer(t, "x.hfstol", testutils.CreeFixture().Bytes())
	a, err := registry.Opener()(domain.AnalyzerSpec{Name: "x", Path: path})
	require.NoError(t, err)

	r.Register(domain.AnalyzerSpec{Name: "x", Path: path}, a)
	assert.Equal(t, []string{"x"}, r.Names())
	assert.Equal(t, "x", r.Specs()[0].Name)
}
