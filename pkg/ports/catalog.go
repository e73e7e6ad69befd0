package ports

import (
	"context"

	"github.com/aretw0/hfstol/pkg/domain"
)

// AnalyzerCatalog lists the analyzers a deployment serves.
type AnalyzerCatalog interface {
	// List returns every analyzer definition, sorted by name.
	List(ctx context.Context) ([]domain.AnalyzerSpec, error)
}

// Watchable is implemented by catalogs that can report changes.
type Watchable interface {
	// Watch emits the name of an analyzer whose definition changed.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
