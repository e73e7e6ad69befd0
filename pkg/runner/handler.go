package runner

import (
	"context"

	"github.com/aretw0/hfstol/pkg/domain"
)

// Formatter writes the analyses of one input word.
// This allows switching between the hfst-optimized-lookup text layout and
// JSON lines.
type Formatter interface {
	// Format writes the result for word. res is empty when the word was rejected.
	Format(ctx context.Context, word string, res domain.Result) error

	// Flush writes any buffered output.
	Flush() error
}
