package ports

import (
	"context"

	"github.com/aretw0/hfstol/pkg/domain"
)

// AnalysisCache memoizes lookup results.
// Implementations must be safe for concurrent use.
type AnalysisCache interface {
	// Get returns the cached result for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) (domain.Result, bool, error)

	// Set stores the result for key.
	Set(ctx context.Context, key string, result domain.Result) error
}

// CacheKey scopes an input to the transducer that analysed it, so handles
// sharing one cache never see each other's results.
func CacheKey(checksum, input string) string {
	return checksum + ":" + input
}

// CachePurger is implemented by caches that can drop every result of one
// transducer. The registry uses it when a reload retires a checksum.
type CachePurger interface {
	// Purge removes the entries keyed under checksum and reports how many.
	Purge(ctx context.Context, checksum string) (int, error)
}
