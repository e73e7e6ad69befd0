package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "hfstol.yaml", `
analyzers:
  crk: crk-analyser.hfstol
  fin: /opt/fst/fin.hfstol
catalog: analyzers
server:
  addr: ":9090"
cache:
  backend: redis
  ttl: 10m
  redis:
    addr: redis:6379
    db: "2"
lookup:
  max_steps: 100000
log:
  level: debug
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, filepath.Join(dir, "crk-analyser.hfstol"), cfg.Analyzers["crk"])
	assert.Equal(t, "/opt/fst/fin.hfstol", cfg.Analyzers["fin"])
	assert.Equal(t, filepath.Join(dir, "analyzers"), cfg.Catalog)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.True(t, cfg.Server.Metrics, "unset keys keep defaults")
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, "hfstol:", cfg.Cache.Redis.Prefix)
	assert.Equal(t, 100000, cfg.Lookup.MaxSteps)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"crk", "fin"}, cfg.AnalyzerNames())
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "hfstol.json", `{"cache": {"backend": "bolt", "bolt": {"path": "/tmp/c.db"}}}`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, CacheBolt, cfg.Cache.Backend)
	assert.Equal(t, "/tmp/c.db", cfg.Cache.Bolt.Path)
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, true)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"Bad YAML", "analyzers: [", "failed to parse"},
		{"Unknown Key", "colour: blue", "invalid config"},
		{"Bad Duration", "cache:\n  ttl: soon", "invalid config"},
		{"Unknown Backend", "cache:\n  backend: memcached", "unknown cache backend"},
		{"Negative Steps", "lookup:\n  max_steps: -1", "max_steps"},
		{"Empty Path", "analyzers:\n  crk: \"\"", "has no path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "hfstol.yaml", tt.content), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	p, explicit := ResolvePath("")
	assert.Equal(t, DefaultPath, p)
	assert.False(t, explicit)

	t.Setenv(EnvConfigPath, "/etc/hfstol.yaml")
	p, explicit = ResolvePath("")
	assert.Equal(t, "/etc/hfstol.yaml", p)
	assert.True(t, explicit)

	p, _ = ResolvePath("local.yaml")
	assert.Equal(t, "local.yaml", p)
}
