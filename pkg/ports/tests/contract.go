package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

// CatalogContractTest is a reusable test suite that verifies if an adapter complies with ports.AnalyzerCatalog.
// want must be sorted by name.
func CatalogContractTest(t *testing.T, catalog ports.AnalyzerCatalog, want []domain.AnalyzerSpec) {
	t.Helper()

	t.Run("List", func(t *testing.T) {
		specs, err := catalog.List(context.Background())
		require.NoError(t, err)
		require.Len(t, specs, len(want))
		for i, w := range want {
			assert.Equal(t, w.Name, specs[i].Name)
			assert.Equal(t, w.Path, specs[i].Path)
		}
	})

	t.Run("List is stable", func(t *testing.T) {
		first, err := catalog.List(context.Background())
		require.NoError(t, err)
		second, err := catalog.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Names are unique", func(t *testing.T) {
		specs, err := catalog.List(context.Background())
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, s := range specs {
			assert.False(t, seen[s.Name], "duplicate analyzer %q", s.Name)
			seen[s.Name] = true
		}
	})
}
