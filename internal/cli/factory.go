package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/hfstol"
	"github.com/aretw0/hfstol/internal/config"
	"github.com/aretw0/hfstol/internal/logging"
	"github.com/aretw0/hfstol/pkg/adapters/bolt"
	"github.com/aretw0/hfstol/pkg/adapters/loam"
	"github.com/aretw0/hfstol/pkg/adapters/memory"
	"github.com/aretw0/hfstol/pkg/adapters/redis"
	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/observability"
	"github.com/aretw0/hfstol/pkg/ports"
	"github.com/aretw0/hfstol/pkg/registry"
)

// Options are the global flags shared by every command.
type Options struct {
	ConfigPath string
	Debug      bool
	// LogOutput defaults to Stderr.
	LogOutput io.Writer
}

// App holds everything a command needs, built from the config file.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Cache    ports.AnalysisCache
	Catalog  ports.AnalyzerCatalog
	Registry *registry.Registry

	closers []io.Closer
}

// NewApp loads the config and wires the cache, metrics and registry.
// Analyzers are not opened until Load is called.
func NewApp(opts Options) (*App, error) {
	path, explicit := config.ResolvePath(opts.ConfigPath)
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg, opts)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewMetrics(prometheus.NewRegistry()),
	}

	cache, closer, err := createCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	app.Cache = cache
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	catalogs := []ports.AnalyzerCatalog{memory.NewCatalog(cfg.Analyzers)}
	if cfg.Catalog != "" {
		cat, err := loam.Open(cfg.Catalog)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to open analyzer catalog: %w", err)
		}
		catalogs = append(catalogs, cat)
	}

	app.Catalog = registry.Combine(catalogs...)
	regOpts := []registry.Option{registry.WithLogger(logger)}
	if p, ok := cache.(ports.CachePurger); ok {
		regOpts = append(regOpts, registry.WithPurger(p))
	}
	app.Registry = registry.New(app.Catalog, registry.Opener(app.TransducerOptions()...), regOpts...)
	return app, nil
}

// TransducerOptions are the hfstol options every analyzer is opened with.
func (a *App) TransducerOptions() []hfstol.Option {
	hooks := a.Metrics.Hooks()
	if a.Logger.Enabled(context.Background(), slog.LevelDebug) {
		hooks = hooks.Merge(createDebugHooks(a.Logger))
	}

	opts := []hfstol.Option{
		hfstol.WithLogger(a.Logger),
		hfstol.WithLifecycleHooks(hooks),
		hfstol.WithMaxSteps(a.Config.Lookup.MaxSteps),
	}
	if a.Config.Lookup.Concurrency > 0 {
		opts = append(opts, hfstol.WithConcurrency(a.Config.Lookup.Concurrency))
	}
	if a.Cache != nil {
		opts = append(opts, hfstol.WithCache(a.Cache))
	}
	return opts
}

// Load opens every configured analyzer.
func (a *App) Load(ctx context.Context) error {
	return a.Registry.Load(ctx)
}

// Close releases the cache connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func createLogger(cfg config.Config, opts Options) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		level = slog.LevelDebug
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	return logging.NewWithWriter(out, level, cfg.Log.JSON), nil
}

func createCache(cfg config.CacheConfig) (ports.AnalysisCache, io.Closer, error) {
	switch cfg.Backend {
	case "", config.CacheNone:
		return nil, nil, nil
	case config.CacheMemory:
		return memory.New(memory.WithMaxEntries(cfg.MaxEntries)), nil, nil
	case config.CacheRedis:
		opts := []redis.Option{redis.WithTTL(cfg.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		c := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return c, c, nil
	case config.CacheBolt:
		c, err := bolt.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open bolt cache: %w", err)
		}
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnLoad: func(ctx context.Context, e *domain.LoadEvent) {
			logger.Debug("Transducer loaded", "analyzer", e.Analyzer, "path", e.Path, "duration", e.Duration, "err", e.Err)
		},
		OnLookup: func(ctx context.Context, e *domain.LookupEvent) {
			logger.Debug("Lookup", "analyzer", e.Analyzer, "analyses", e.Analyses, "duration", e.Duration, "cache_hit", e.CacheHit, "err", e.Err)
		},
	}
}
