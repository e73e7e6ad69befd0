// Package registry keeps the named analyzers a host serves.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/hfstol"
	"github.com/aretw0/hfstol/internal/logging"
	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

// OpenFunc loads the analyzer a spec describes.
type OpenFunc func(spec domain.AnalyzerSpec) (ports.Analyzer, error)

// Opener returns an OpenFunc that loads transducer files with hfstol.Open.
func Opener(opts ...hfstol.Option) OpenFunc {
	return func(spec domain.AnalyzerSpec) (ports.Analyzer, error) {
		all := append([]hfstol.Option{hfstol.WithName(spec.Name)}, opts...)
		return hfstol.Open(spec.Path, all...)
	}
}

type entry struct {
	spec     domain.AnalyzerSpec
	analyzer ports.Analyzer
}

// Registry manages the loaded analyzers.
type Registry struct {
	mu        sync.RWMutex
	analyzers map[string]entry

	catalog ports.AnalyzerCatalog
	open    OpenFunc
	logger  *slog.Logger
	purger  ports.CachePurger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for load and reload reports.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithPurger drops the cached results of a transducer once a load or reload
// retires its checksum.
func WithPurger(p ports.CachePurger) Option {
	return func(r *Registry) {
		r.purger = p
	}
}

// New creates an empty registry backed by catalog. Call Load to open the analyzers.
func New(catalog ports.AnalyzerCatalog, open OpenFunc, opts ...Option) *Registry {
	r := &Registry{
		analyzers: make(map[string]entry),
		catalog:   catalog,
		open:      open,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	return r
}

// Load opens every analyzer in the catalog concurrently and replaces the
// current set. On failure the current set is kept.
func (r *Registry) Load(ctx context.Context) error {
	specs, err := r.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list analyzers: %w", err)
	}

	loaded := make([]entry, len(specs))
	g, _ := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			a, err := r.open(spec)
			if err != nil {
				return fmt.Errorf("analyzer %s: %w", spec.Name, err)
			}
			loaded[i] = entry{spec: spec, analyzer: a}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	next := make(map[string]entry, len(loaded))
	for _, e := range loaded {
		next[e.spec.Name] = e
	}

	r.mu.Lock()
	prev := make([]entry, 0, len(r.analyzers))
	for _, e := range r.analyzers {
		prev = append(prev, e)
	}
	r.analyzers = next
	gone := r.retired(prev)
	r.mu.Unlock()

	r.logger.Info("analyzers loaded", "count", len(next))
	r.purge(ctx, gone)
	return nil
}

// Reload re-reads the catalog entry for name and reopens its transducer.
// The previous handle keeps serving if the new one fails to load.
func (r *Registry) Reload(ctx context.Context, name string) error {
	specs, err := r.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list analyzers: %w", err)
	}
	idx := sort.Search(len(specs), func(i int) bool { return specs[i].Name >= name })
	if idx == len(specs) || specs[idx].Name != name {
		return fmt.Errorf("%w: %s", domain.ErrAnalyzerNotFound, name)
	}

	a, err := r.open(specs[idx])
	if err != nil {
		r.logger.Warn("analyzer reload failed", "analyzer", name, "err", err)
		return fmt.Errorf("analyzer %s: %w", name, err)
	}

	r.mu.Lock()
	prev, had := r.analyzers[name]
	r.analyzers[name] = entry{spec: specs[idx], analyzer: a}
	var gone []string
	if had {
		gone = r.retired([]entry{prev})
	}
	r.mu.Unlock()

	r.logger.Info("analyzer reloaded", "analyzer", name)
	r.purge(ctx, gone)
	return nil
}

// retired returns the checksums of prev that no registered analyzer still
// uses. Callers hold r.mu.
func (r *Registry) retired(prev []entry) []string {
	if r.purger == nil || len(prev) == 0 {
		return nil
	}
	live := make(map[string]bool, len(r.analyzers))
	for _, e := range r.analyzers {
		live[e.analyzer.Info().Checksum] = true
	}
	var gone []string
	for _, e := range prev {
		sum := e.analyzer.Info().Checksum
		if !live[sum] {
			live[sum] = true
			gone = append(gone, sum)
		}
	}
	return gone
}

func (r *Registry) purge(ctx context.Context, checksums []string) {
	for _, sum := range checksums {
		n, err := r.purger.Purge(ctx, sum)
		if err != nil {
			r.logger.Warn("cache purge failed", "checksum", sum, "err", err)
			continue
		}
		r.logger.Debug("cache purged", "checksum", sum, "entries", n)
	}
}

// Register adds or replaces an analyzer that does not come from the catalog.
func (r *Registry) Register(spec domain.AnalyzerSpec, a ports.Analyzer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyzers[spec.Name] = entry{spec: spec, analyzer: a}
}

// Get returns the analyzer registered under name.
func (r *Registry) Get(name string) (ports.Analyzer, error) {
	r.mu.RLock()
	e, ok := r.analyzers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnalyzerNotFound, name)
	}
	return e.analyzer, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs returns the definitions of the registered analyzers, sorted by name.
func (r *Registry) Specs() []domain.AnalyzerSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]domain.AnalyzerSpec, 0, len(r.analyzers))
	for _, e := range r.analyzers {
		specs = append(specs, e.spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Watch reloads the analyzers whenever a watchable catalog reports a change.
// It blocks until ctx is done. Catalogs that cannot watch return immediately.
func (r *Registry) Watch(ctx context.Context) error {
	w, ok := r.catalog.(ports.Watchable)
	if !ok {
		return nil
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case id, ok := <-events:
			if !ok {
				return nil
			}
			r.logger.Info("analyzer catalog changed", "document", id)
			if err := r.Load(ctx); err != nil {
				r.logger.Error("analyzer catalog reload failed", "err", err)
			}
		}
	}
}
