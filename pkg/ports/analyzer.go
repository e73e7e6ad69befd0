package ports

import (
	"context"

	"github.com/aretw0/hfstol/pkg/domain"
)

// Analyzer is a loaded transducer as seen by the host adapters.
type Analyzer interface {
	// Name returns the handle's display name.
	Name() string

	// Info describes the loaded transducer.
	Info() domain.Info

	// Lookup returns every analysis of text. An empty result is not an error.
	Lookup(ctx context.Context, text string) (domain.Result, error)

	// LookupLemmaWithAffixes splits every analysis of text around its lemma.
	LookupLemmaWithAffixes(ctx context.Context, text string) ([]domain.Affixes, error)

	// BulkLookup analyses several words, keyed by word.
	BulkLookup(ctx context.Context, words []string) (map[string][]string, error)
}
