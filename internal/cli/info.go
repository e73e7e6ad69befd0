package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/hfstol/internal/presentation/tui"
)

// RunInfo describes an analyzer: rendered markdown when pretty is set, JSON otherwise.
func RunInfo(ctx context.Context, app *App, target string, pretty bool, out io.Writer) error {
	a, _, err := resolveAnalyzer(ctx, app, target)
	if err != nil {
		return err
	}
	info := a.Info()

	if !pretty {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	render, err := tui.NewRenderer(0)
	if err != nil {
		return err
	}
	s, err := render(tui.InfoMarkdown(info))
	if err != nil {
		return fmt.Errorf("failed to render info: %w", err)
	}
	_, err = io.WriteString(out, s)
	return err
}
