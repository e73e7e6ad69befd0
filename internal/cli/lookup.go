package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/hfstol"
	"github.com/aretw0/hfstol/internal/presentation/tui"
	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
	"github.com/aretw0/hfstol/pkg/runner"
)

// Output formats of the lookup command.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// LookupOptions configure RunLookup.
type LookupOptions struct {
	// Analyzer is a transducer file or a configured analyzer name. It may be
	// empty when exactly one analyzer is configured.
	Analyzer string
	// Words are analysed instead of reading In.
	Words []string
	Output string

	In  io.Reader
	Out io.Writer

	// Color highlights tags; Interactive flushes after every word.
	Color       bool
	Interactive bool
}

// RunLookup analyses words from the arguments or from the input stream.
func RunLookup(ctx context.Context, app *App, opts LookupOptions) error {
	a, _, err := resolveAnalyzer(ctx, app, opts.Analyzer)
	if err != nil {
		return err
	}

	var f runner.Formatter
	switch opts.Output {
	case "", OutputText:
		tf := runner.NewTextFormatter(opts.Out)
		if opts.Color {
			tf.Decorate = tui.TagColorizer(termenv.EnvColorProfile())
		}
		f = tf
	case OutputJSON:
		f = runner.NewJSONFormatter(opts.Out)
	default:
		return fmt.Errorf("unknown output format %q", opts.Output)
	}

	in := opts.In
	if len(opts.Words) > 0 {
		in = strings.NewReader(strings.Join(opts.Words, "\n"))
	}

	r := runner.NewRunner(a,
		runner.WithLogger(app.Logger),
		runner.WithFormatter(f),
		runner.WithFlushEachWord(opts.Interactive),
	)
	return r.Run(ctx, in, opts.Out)
}

// resolveAnalyzer opens target as a file if one exists at that path, and
// otherwise loads the configured analyzer of that name.
func resolveAnalyzer(ctx context.Context, app *App, target string) (ports.Analyzer, domain.AnalyzerSpec, error) {
	if target != "" {
		if st, err := os.Stat(target); err == nil && !st.IsDir() {
			a, err := hfstol.Open(target, app.TransducerOptions()...)
			if err != nil {
				return nil, domain.AnalyzerSpec{}, err
			}
			return a, domain.AnalyzerSpec{Name: a.Name(), Path: target}, nil
		}
	}

	if target == "" {
		names := app.Config.AnalyzerNames()
		if len(names) != 1 || app.Config.Catalog != "" {
			return nil, domain.AnalyzerSpec{}, fmt.Errorf("no analyzer given and %d configured", len(names))
		}
		target = names[0]
	}

	if err := app.Registry.Reload(ctx, target); err != nil {
		return nil, domain.AnalyzerSpec{}, err
	}
	a, err := app.Registry.Get(target)
	if err != nil {
		return nil, domain.AnalyzerSpec{}, err
	}
	for _, s := range app.Registry.Specs() {
		if s.Name == target {
			return a, s, nil
		}
	}
	return a, domain.AnalyzerSpec{Name: target}, nil
}
