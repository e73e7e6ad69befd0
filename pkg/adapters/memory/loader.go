package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

var _ ports.AnalyzerCatalog = (*Catalog)(nil)

// Catalog implements ports.AnalyzerCatalog over a fixed set of definitions,
// typically the analyzers section of the config file.
type Catalog struct {
	specs []domain.AnalyzerSpec
}

// NewCatalog creates a catalog from a name → path map.
func NewCatalog(paths map[string]string) *Catalog {
	specs := make([]domain.AnalyzerSpec, 0, len(paths))
	for name, path := range paths {
		specs = append(specs, domain.AnalyzerSpec{Name: name, Path: path})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return &Catalog{specs: specs}
}

// NewFromSpecs creates a catalog from full definitions.
func NewFromSpecs(specs ...domain.AnalyzerSpec) (*Catalog, error) {
	seen := make(map[string]bool, len(specs))
	out := make([]domain.AnalyzerSpec, 0, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("analyzer missing name")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate analyzer %q", s.Name)
		}
		seen[s.Name] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return &Catalog{specs: out}, nil
}

// List returns all definitions sorted by name.
func (c *Catalog) List(ctx context.Context) ([]domain.AnalyzerSpec, error) {
	return append([]domain.AnalyzerSpec(nil), c.specs...), nil
}
