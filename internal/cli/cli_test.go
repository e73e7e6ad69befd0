package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hfstol/internal/config"
	"github.com/aretw0/hfstol/internal/testutils"
	"github.com/aretw0/hfstol/pkg/adapters/bolt"
	"github.com/aretw0/hfstol/pkg/adapters/memory"
	"github.com/aretw0/hfstol/pkg/adapters/redis"
	"github.com/aretw0/hfstol/pkg/domain"
)

// newTestApp writes the Cree fixture and a config naming it "crk".
func newTestApp(t *testing.T, extra string) (*App, string) {
	t.Helper()
	fst := testutils.WriteTransducer(t, "crk.hfstol", testutils.CreeFixture().Bytes())
	cfgPath := filepath.Join(filepath.Dir(fst), "hfstol.yaml")
	content := "analyzers:\n  crk: crk.hfstol\n" + extra
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	app, err := NewApp(Options{ConfigPath: cfgPath, LogOutput: &bytes.Buffer{}})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app, fst
}

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t, "cache:\n  backend: memory\nlog:\n  level: warn\n")
	assert.IsType(t, &memory.Cache{}, app.Cache)
	assert.Empty(t, app.Registry.Names(), "analyzers are opened lazily")

	require.NoError(t, app.Load(context.Background()))
	assert.Equal(t, []string{"crk"}, app.Registry.Names())
}

func TestNewApp_ReloadPurgesCache(t *testing.T) {
	ctx := context.Background()
	app, fst := newTestApp(t, "cache:\n  backend: memory\n")
	require.NoError(t, app.Load(ctx))

	crk, err := app.Registry.Get("crk")
	require.NoError(t, err)
	_, err = crk.Lookup(ctx, "atim")
	require.NoError(t, err)
	cache := app.Cache.(*memory.Cache)
	require.Equal(t, 1, cache.Len())

	b := testutils.NewFSTBuilder()
	b.AddPath(testutils.Seq(testutils.Chars("atim"), testutils.Out("+New"))...)
	require.NoError(t, os.WriteFile(fst, b.Bytes(), 0644))

	require.NoError(t, app.Registry.Reload(ctx, "crk"))
	assert.Zero(t, cache.Len(), "results of the replaced transducer are dropped")
}

func TestNewApp_Errors(t *testing.T) {
	_, err := NewApp(Options{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err, "an explicit config must exist")

	path := filepath.Join(t.TempDir(), "hfstol.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0644))
	_, err = NewApp(Options{ConfigPath: path})
	assert.ErrorContains(t, err, "unknown log level")
}

func TestCreateCache(t *testing.T) {
	c, closer, err := createCache(config.CacheConfig{Backend: config.CacheNone})
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Nil(t, closer)

	mr := miniredis.RunT(t)
	c, closer, err = createCache(config.CacheConfig{Backend: config.CacheRedis, Redis: config.RedisConfig{Addr: mr.Addr()}})
	require.NoError(t, err)
	assert.IsType(t, &redis.Cache{}, c)
	require.NoError(t, closer.Close())

	c, closer, err = createCache(config.CacheConfig{Backend: config.CacheBolt, Bolt: config.BoltConfig{Path: filepath.Join(t.TempDir(), "c.db")}})
	require.NoError(t, err)
	assert.IsType(t, &bolt.Cache{}, c)
	require.NoError(t, closer.Close())

	_, _, err = createCache(config.CacheConfig{Backend: "memcached"})
	assert.Error(t, err)
}

func TestRunLookup(t *testing.T) {
	app, fst := newTestApp(t, "")
	ctx := context.Background()

	t.Run("By Name From Words", func(t *testing.T) {
		var out bytes.Buffer
		err := RunLookup(ctx, app, LookupOptions{Analyzer: "crk", Words: []string{"itwêwina"}, Out: &out})
		require.NoError(t, err)
		assert.Equal(t, "itwêwina\titwêwin+N+I+Pl\t0.000000\n\n", out.String())
	})

	t.Run("Single Configured Analyzer", func(t *testing.T) {
		var out bytes.Buffer
		err := RunLookup(ctx, app, LookupOptions{In: strings.NewReader("avocado\n"), Out: &out})
		require.NoError(t, err)
		assert.Equal(t, "avocado\tavocado+?\tinf\n\n", out.String())
	})

	t.Run("By Path As JSON", func(t *testing.T) {
		var out bytes.Buffer
		err := RunLookup(ctx, app, LookupOptions{Analyzer: fst, Words: []string{"atim"}, Output: OutputJSON, Out: &out})
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"atim+N+A+Sg"`)
	})

	t.Run("Unknown Analyzer", func(t *testing.T) {
		err := RunLookup(ctx, app, LookupOptions{Analyzer: "fin", Words: []string{"talo"}, Out: &bytes.Buffer{}})
		assert.ErrorIs(t, err, domain.ErrAnalyzerNotFound)
	})

	t.Run("Unknown Output", func(t *testing.T) {
		err := RunLookup(ctx, app, LookupOptions{Analyzer: "crk", Output: "xml", Out: &bytes.Buffer{}})
		assert.Error(t, err)
	})
}

func TestRunInfo(t *testing.T) {
	app, _ := newTestApp(t, "")

	var out bytes.Buffer
	require.NoError(t, RunInfo(context.Background(), app, "crk", false, &out))

	var info domain.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, "crk", info.Name)
	assert.Equal(t, "HFST_OL", info.Type)

	out.Reset()
	require.NoError(t, RunInfo(context.Background(), app, "crk", true, &out))
	assert.Contains(t, out.String(), "HFST_OL")
}

func TestRunGraph(t *testing.T) {
	app, _ := newTestApp(t, "")
	ctx := context.Background()

	t.Run("Truncated", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunGraph(ctx, app, GraphOptions{Analyzer: "crk", MaxStates: 5, Out: &out}))
		assert.True(t, strings.HasPrefix(out.String(), "graph LR\n"))
		assert.Contains(t, out.String(), "truncated after 5 states")
		assert.NotContains(t, out.String(), "classDef visited")
	})

	t.Run("Word Path", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunGraph(ctx, app, GraphOptions{Analyzer: "crk", Word: "atim", MaxStates: 10000, Out: &out}))
		assert.Contains(t, out.String(), "class i0 visited;")
		assert.Equal(t, 1, strings.Count(out.String(), " current;"))
	})

	t.Run("Rejected Word", func(t *testing.T) {
		err := RunGraph(ctx, app, GraphOptions{Analyzer: "crk", Word: "avocado", Out: &bytes.Buffer{}})
		assert.ErrorContains(t, err, "has no analysis")
	})
}

func TestNewHTTPHandler(t *testing.T) {
	app, _ := newTestApp(t, "")
	require.NoError(t, app.Load(context.Background()))
	h := NewHTTPHandler(app)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/analyzers/crk/lookup?q=atim", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hfstol_loads_total")
}

func TestRunValidate(t *testing.T) {
	app, _ := newTestApp(t, "")

	var out bytes.Buffer
	require.NoError(t, RunValidate(context.Background(), app, nil, &out))
	assert.Contains(t, out.String(), "✓ crk:")

	bad := testutils.WriteTransducer(t, "bad.hfstol", []byte("not a transducer"))
	out.Reset()
	err := RunValidate(context.Background(), app, []string{"crk", bad}, &out)
	assert.ErrorContains(t, err, "1 of 2 analyzers failed")
	assert.Contains(t, out.String(), "✗ "+bad)

	err = RunValidate(context.Background(), app, []string{"fin"}, &out)
	assert.ErrorIs(t, err, domain.ErrAnalyzerNotFound)
}

func TestTerminalInput(t *testing.T) {
	in := strings.NewReader("atim\n")
	assert.Equal(t, in, TerminalInput(in), "pipes are read as given")
}

func TestRunServe_Shutdown(t *testing.T) {
	app, _ := newTestApp(t, "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- RunServe(ctx, app, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, []string{"crk"}, app.Registry.Names())
}
