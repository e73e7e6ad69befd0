package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

var (
	_ ports.AnalysisCache = (*Cache)(nil)
	_ ports.CachePurger   = (*Cache)(nil)
)

// Cache implements ports.AnalysisCache in memory.
// Safe for concurrent use. Entries never expire; MaxEntries bounds the size.
type Cache struct {
	data       map[string]domain.Result
	order      []string
	maxEntries int
	mu         sync.RWMutex
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithMaxEntries evicts the oldest entry once n entries are stored (0 = unbounded).
func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

// New creates a new in-memory cache.
func New(opts ...CacheOption) *Cache {
	c := &Cache{
		data: make(map[string]domain.Result),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the cached result.
func (c *Cache) Get(ctx context.Context, key string) (domain.Result, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	return copyResult(res), true, nil
}

// Set stores a copy of result so callers cannot mutate cached entries.
func (c *Cache) Set(ctx context.Context, key string, result domain.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[key]; !exists {
		c.order = append(c.order, key)
		if c.maxEntries > 0 && len(c.order) > c.maxEntries {
			delete(c.data, c.order[0])
			c.order = c.order[1:]
		}
	}
	c.data[key] = copyResult(result)
	return nil
}

// Purge removes every entry whose key was produced for checksum.
func (c *Cache) Purge(ctx context.Context, checksum string) (int, error) {
	prefix := ports.CacheKey(checksum, "")

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.order[:0]
	n := 0
	for _, key := range c.order {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
			n++
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
	return n, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func copyResult(r domain.Result) domain.Result {
	out := make(domain.Result, len(r))
	for i, a := range r {
		out[i] = domain.Analysis{Symbols: append([]string(nil), a.Symbols...), Weight: a.Weight}
	}
	return out
}
