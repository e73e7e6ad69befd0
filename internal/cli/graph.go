package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/hfstol/internal/format"
	"github.com/aretw0/hfstol/internal/presentation/graph"
	"github.com/aretw0/hfstol/internal/runtime"
	"github.com/aretw0/hfstol/pkg/runner"
)

// GraphOptions configure RunGraph.
type GraphOptions struct {
	Analyzer  string
	MaxStates int
	// Word, when set, highlights the first path accepting it.
	Word string
	Out  io.Writer
}

// RunGraph prints a Mermaid flowchart of the analyzer's transducer.
func RunGraph(ctx context.Context, app *App, opts GraphOptions) error {
	_, spec, err := resolveAnalyzer(ctx, app, opts.Analyzer)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(spec.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", spec.Path, err)
	}
	automaton, err := format.Parse(data)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if opts.Word != "" {
		word, err := runner.SanitizeInput(opts.Word)
		if err != nil {
			return err
		}
		engine := runtime.NewEngine(automaton, runtime.Options{MaxSteps: app.Config.Lookup.MaxSteps})
		path, analysis, err := engine.Trace(ctx, word)
		if err != nil {
			return fmt.Errorf("failed to trace %q: %w", word, err)
		}
		if path == nil {
			return fmt.Errorf("%q has no analysis in %s", word, spec.Name)
		}
		app.Logger.Debug("traced word", "word", word, "analysis", analysis.String(), "states", len(path))
		overlay = &graph.Overlay{Path: path}
	}

	_, err = io.WriteString(opts.Out, graph.GenerateMermaid(automaton, overlay, opts.MaxStates))
	return err
}
