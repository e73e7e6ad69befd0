package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

var (
	_ ports.AnalyzerCatalog = (*MultiCatalog)(nil)
	_ ports.Watchable       = (*MultiCatalog)(nil)
)

// MultiCatalog merges several catalogs, e.g. the config file analyzers and a
// document directory. A name defined by two catalogs is an error.
type MultiCatalog struct {
	catalogs []ports.AnalyzerCatalog
}

// Combine returns a catalog listing the analyzers of every catalog given.
func Combine(catalogs ...ports.AnalyzerCatalog) *MultiCatalog {
	return &MultiCatalog{catalogs: catalogs}
}

// List implements ports.AnalyzerCatalog.
func (m *MultiCatalog) List(ctx context.Context) ([]domain.AnalyzerSpec, error) {
	var all []domain.AnalyzerSpec
	seen := make(map[string]bool)
	for _, c := range m.catalogs {
		specs, err := c.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range specs {
			if seen[s.Name] {
				return nil, fmt.Errorf("analyzer %q is defined twice", s.Name)
			}
			seen[s.Name] = true
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

// Watch implements ports.Watchable by merging the events of the watchable
// members. The channel closes once every member channel has closed.
func (m *MultiCatalog) Watch(ctx context.Context) (<-chan string, error) {
	var sources []<-chan string
	for _, c := range m.catalogs {
		w, ok := c.(ports.Watchable)
		if !ok {
			continue
		}
		events, err := w.Watch(ctx)
		if err != nil {
			return nil, err
		}
		sources = append(sources, events)
	}

	out := make(chan string, 1)
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range src {
				select {
				case out <- id:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out, nil
}
