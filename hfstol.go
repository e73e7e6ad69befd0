package hfstol

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	goruntime "runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/hfstol/internal/format"
	"github.com/aretw0/hfstol/internal/logging"
	"github.com/aretw0/hfstol/internal/runtime"
	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

// Transducer is a loaded optimized-lookup transducer.
// It is immutable after Open and safe for concurrent lookups.
type Transducer struct {
	name        string
	path        string
	checksum    string
	automaton   *format.Automaton
	engine      *runtime.Engine
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	cache       ports.AnalysisCache
	maxSteps    int
	concurrency int
}

var _ ports.Analyzer = (*Transducer)(nil)

// Open loads the transducer stored at path.
func Open(path string, opts ...Option) (*Transducer, error) {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		t := newTransducer(filepath.Base(path), path, opts)
		lerr := domain.NewLoadError(path, domain.ErrIO, "", err)
		t.loaded(start, lerr)
		return nil, lerr
	}
	return load(filepath.Base(path), path, data, start, opts)
}

// OpenBytes loads a transducer image already held in memory. name is used in
// error messages and as the default display name.
func OpenBytes(name string, data []byte, opts ...Option) (*Transducer, error) {
	return load(name, "", data, time.Now(), opts)
}

func newTransducer(name, path string, opts []Option) *Transducer {
	t := &Transducer{name: name, path: path}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logging.NewNop()
	}
	if t.concurrency <= 0 {
		t.concurrency = goruntime.GOMAXPROCS(0)
	}
	t.logger = t.logger.With("analyzer", t.name)
	return t
}

func load(name, path string, data []byte, start time.Time, opts []Option) (*Transducer, error) {
	t := newTransducer(name, path, opts)

	a, err := format.Parse(data)
	if err != nil {
		var lerr *domain.LoadError
		if errors.As(err, &lerr) {
			lerr.Path = t.source()
		}
		t.loaded(start, err)
		return nil, err
	}

	sum := sha256.Sum256(data)
	t.checksum = hex.EncodeToString(sum[:])
	t.automaton = a
	t.engine = runtime.NewEngine(a, runtime.Options{MaxSteps: t.maxSteps})
	t.loaded(start, nil)
	return t, nil
}

// source names the transducer in errors: the path if known, else the name.
func (t *Transducer) source() string {
	if t.path != "" {
		return t.path
	}
	return t.name
}

func (t *Transducer) loaded(start time.Time, err error) {
	d := time.Since(start)
	if err != nil {
		t.logger.Error("transducer load failed", "path", t.source(), "err", err)
	} else {
		t.logger.Info("transducer loaded",
			"path", t.source(),
			"symbols", t.automaton.Alphabet.Len(),
			"weighted", t.automaton.Weighted(),
			"duration", d,
		)
	}
	if t.hooks.OnLoad != nil {
		t.hooks.OnLoad(context.Background(), &domain.LoadEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventLoad, Analyzer: t.name},
			Path:      t.source(),
			Duration:  d,
			Err:       err,
		})
	}
}

// Name returns the display name.
func (t *Transducer) Name() string {
	return t.name
}

// Checksum returns the SHA-256 of the transducer image, hex encoded.
func (t *Transducer) Checksum() string {
	return t.checksum
}

// SymbolCount returns the size of the alphabet.
func (t *Transducer) SymbolCount() int {
	return t.automaton.Alphabet.Len()
}

// Info describes the loaded transducer.
func (t *Transducer) Info() domain.Info {
	h := t.automaton.Header
	return domain.Info{
		Name:             t.name,
		Path:             t.path,
		Checksum:         t.checksum,
		Type:             h.Type(),
		Weighted:         h.Weighted(),
		InputSymbolCount: int(h.InputSymbolCount),
		SymbolCount:      int(h.SymbolCount),
		IndexTableSize:   int(h.IndexTableSize),
		TransitionCount:  int(h.TransitionTableSize),
		StateCount:       int(h.StateCount),
		FlagDiacritics:   t.automaton.Alphabet.FlagCount,
		Properties:       h.PropertyMap(),
	}
}

// Lookup returns every analysis of text, in the engine's documented order.
// A word the transducer rejects yields an empty, non-nil result.
func (t *Transducer) Lookup(ctx context.Context, text string) (domain.Result, error) {
	start := time.Now()
	key := ports.CacheKey(t.checksum, text)

	if t.cache != nil {
		res, ok, err := t.cache.Get(ctx, key)
		if err != nil {
			t.logger.Warn("analysis cache read failed", "err", err)
		} else if ok {
			t.lookedUp(ctx, text, start, res, true, nil)
			return res, nil
		}
	}

	res, err := t.engine.Lookup(ctx, text)
	if err != nil {
		err = fmt.Errorf("lookup in %s: %w", t.name, err)
		t.lookedUp(ctx, text, start, nil, false, err)
		return nil, err
	}

	if t.cache != nil {
		if err := t.cache.Set(ctx, key, res); err != nil {
			t.logger.Warn("analysis cache write failed", "err", err)
		}
	}
	t.lookedUp(ctx, text, start, res, false, nil)
	return res, nil
}

func (t *Transducer) lookedUp(ctx context.Context, text string, start time.Time, res domain.Result, hit bool, err error) {
	d := time.Since(start)
	if err != nil {
		t.logger.Debug("lookup failed", "input", text, "err", err)
	} else {
		t.logger.Debug("lookup", "input", text, "analyses", len(res), "cache_hit", hit, "duration", d)
	}
	if t.hooks.OnLookup != nil {
		t.hooks.OnLookup(ctx, &domain.LookupEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventLookup, Analyzer: t.name},
			Input:     text,
			Analyses:  len(res),
			Duration:  d,
			CacheHit:  hit,
			Err:       err,
		})
	}
}

// LookupSymbols returns the symbol sequence of every analysis of text.
func (t *Transducer) LookupSymbols(ctx context.Context, text string) ([][]string, error) {
	res, err := t.Lookup(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.SymbolSequences(), nil
}

// LookupStrings returns every analysis of text as a concatenated string,
// e.g. "atim+N+A+Sg".
func (t *Transducer) LookupStrings(ctx context.Context, text string) ([]string, error) {
	res, err := t.Lookup(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.Strings(), nil
}

// LookupLemmaWithAffixes splits every analysis of text into prefix tags,
// lemma and suffix tags. It fails if any analysis has lemma characters after
// a suffix tag.
func (t *Transducer) LookupLemmaWithAffixes(ctx context.Context, text string) ([]domain.Affixes, error) {
	res, err := t.Lookup(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Affixes, 0, len(res))
	for _, a := range res {
		aff, err := domain.SplitAffixes(a)
		if err != nil {
			return nil, fmt.Errorf("split %q: %w", a.String(), err)
		}
		out = append(out, aff)
	}
	return out, nil
}

// BulkLookup analyses words concurrently and returns the analyses keyed by
// word. Repeated words are looked up once. The first failing lookup cancels
// the rest.
func (t *Transducer) BulkLookup(ctx context.Context, words []string) (map[string][]string, error) {
	out := make(map[string][]string, len(words))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true

		g.Go(func() error {
			res, err := t.LookupStrings(ctx, w)
			if err != nil {
				return fmt.Errorf("%q: %w", w, err)
			}
			mu.Lock()
			out[w] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
