package hfstol

import (
	"log/slog"

	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

// Option defines a functional option for configuring a Transducer.
type Option func(*Transducer)

// WithLogger sets a custom structured logger for the transducer.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transducer) {
		t.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Transducer) {
		t.hooks = t.hooks.Merge(hooks)
	}
}

// WithCache memoizes lookup results in cache.
func WithCache(cache ports.AnalysisCache) Option {
	return func(t *Transducer) {
		t.cache = cache
	}
}

// WithMaxSteps bounds the traversal of a single lookup (0 = unlimited).
// Lookups that exceed it fail with domain.ErrBudgetExceeded.
func WithMaxSteps(n int) Option {
	return func(t *Transducer) {
		t.maxSteps = n
	}
}

// WithConcurrency limits the number of words BulkLookup analyses in parallel.
func WithConcurrency(n int) Option {
	return func(t *Transducer) {
		t.concurrency = n
	}
}

// WithName overrides the display name (default: the file base name).
func WithName(name string) Option {
	return func(t *Transducer) {
		t.name = name
	}
}
