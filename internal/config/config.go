// Package config loads the hfstol configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config path.
const EnvConfigPath = "HFSTOL_CONFIG"

// DefaultPath is read when neither a flag nor EnvConfigPath names a file.
const DefaultPath = "hfstol.yaml"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheBolt   = "bolt"
)

// Config is the whole configuration file.
type Config struct {
	// Analyzers maps a name to a transducer path.
	Analyzers map[string]string `mapstructure:"analyzers"`
	// Catalog is a directory of analyzer documents. Used alongside Analyzers.
	Catalog string `mapstructure:"catalog"`

	Server ServerConfig `mapstructure:"server"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Lookup LookupConfig `mapstructure:"lookup"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
}

type CacheConfig struct {
	Backend    string        `mapstructure:"backend"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
	Redis      RedisConfig   `mapstructure:"redis"`
	Bolt       BoltConfig    `mapstructure:"bolt"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type BoltConfig struct {
	Path string `mapstructure:"path"`
}

type LookupConfig struct {
	MaxSteps    int `mapstructure:"max_steps"`
	Concurrency int `mapstructure:"concurrency"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Analyzers: map[string]string{},
		Server:    ServerConfig{Addr: ":8080", Metrics: true},
		Cache: CacheConfig{
			Backend:    CacheNone,
			MaxEntries: 10000,
			Redis:      RedisConfig{Addr: "localhost:6379", Prefix: "hfstol:"},
			Bolt:       BoltConfig{Path: "hfstol-cache.db"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// ResolvePath picks the config path: the explicit flag value, then
// EnvConfigPath, then DefaultPath.
func ResolvePath(flag string) (path string, explicit bool) {
	if flag != "" {
		return flag, true
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// Load reads the file at path (YAML, or JSON by extension) over Default.
// A missing file is only an error when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}

	// Relative analyzer paths are relative to the config file.
	base := filepath.Dir(path)
	for name, p := range cfg.Analyzers {
		if p != "" && !filepath.IsAbs(p) {
			cfg.Analyzers[name] = filepath.Join(base, p)
		}
	}
	if cfg.Catalog != "" && !filepath.IsAbs(cfg.Catalog) {
		cfg.Catalog = filepath.Join(base, cfg.Catalog)
	}

	return cfg, cfg.Validate()
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory, CacheRedis, CacheBolt:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Lookup.MaxSteps < 0 {
		return fmt.Errorf("lookup.max_steps must not be negative")
	}
	if c.Lookup.Concurrency < 0 {
		return fmt.Errorf("lookup.concurrency must not be negative")
	}
	for name, p := range c.Analyzers {
		if p == "" {
			return fmt.Errorf("analyzer %q has no path", name)
		}
	}
	return nil
}

// AnalyzerNames returns the statically configured analyzer names, sorted.
func (c Config) AnalyzerNames() []string {
	names := make([]string, 0, len(c.Analyzers))
	for n := range c.Analyzers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
