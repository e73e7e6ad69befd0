package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

var (
	_ ports.AnalyzerCatalog = (*Catalog)(nil)
	_ ports.Watchable       = (*Catalog)(nil)
)

// Catalog adapts a Loam repository of analyzer documents to ports.AnalyzerCatalog.
type Catalog struct {
	Repo *loam.TypedRepository[AnalyzerMetadata]
	root string
}

// New creates a new Loam catalog. root is the repository directory, used to
// resolve relative transducer paths.
func New(repo *loam.TypedRepository[AnalyzerMetadata], root string) *Catalog {
	return &Catalog{
		Repo: repo,
		root: root,
	}
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// The catalog never writes documents; read-only avoids Loam's dev sandbox.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[AnalyzerMetadata](repo), absPath), nil
}

// List returns every analyzer document, sorted by name.
func (c *Catalog) List(ctx context.Context) ([]domain.AnalyzerSpec, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	specs := make([]domain.AnalyzerSpec, 0, len(docs))

	for _, doc := range docs {
		name := doc.Data.Name
		if name == "" {
			name = trimExtension(doc.ID)
		}

		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: analyzer '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[name] = doc.ID

		if doc.Data.Path == "" {
			return nil, fmt.Errorf("analyzer '%s' (%s) has no path", name, doc.ID)
		}
		path := doc.Data.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.root, filepath.FromSlash(path))
		}

		desc := doc.Data.Description
		if desc == "" {
			desc = strings.TrimSpace(doc.Content)
		}

		specs = append(specs, domain.AnalyzerSpec{
			Name:        name,
			Path:        path,
			Language:    doc.Data.Language,
			Description: desc,
		})
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable. It emits the ID of each changed document,
// without extension.
func (c *Catalog) Watch(ctx context.Context) (<-chan string, error) {
	events, err := c.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
