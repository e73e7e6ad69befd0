package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/hfstol/internal/logging"
	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

// Runner streams words from a reader through an analyzer.
type Runner struct {
	Analyzer      ports.Analyzer
	Formatter     Formatter
	Logger        *slog.Logger
	FlushEachWord bool
}

// NewRunner creates a runner for analyzer.
func NewRunner(analyzer ports.Analyzer, opts ...Option) *Runner {
	r := &Runner{Analyzer: analyzer}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run reads one word per line from in until EOF and writes the analyses to
// out (or to the configured Formatter). Blank lines are skipped. Words that
// fail sanitisation or exceed the lookup budget are reported as unanalysed.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	f := r.Formatter
	if f == nil {
		f = NewTextFormatter(out)
	}
	defer f.Flush()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxInputSize()+2)

	words := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		word := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(word) == "" {
			continue
		}
		words++

		shown, res, err := r.analyse(ctx, word)
		if err != nil {
			return err
		}
		if err := f.Format(ctx, shown, res); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if r.FlushEachWord {
			if err := f.Flush(); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return fmt.Errorf("%w: line longer than %d bytes", ErrInputTooLarge, MaxInputSize())
		}
		return fmt.Errorf("read input: %w", err)
	}

	r.Logger.Debug("input exhausted", "words", words)
	return f.Flush()
}

// analyse returns the word as it should be printed and its analyses, nil for
// words that cannot be analysed but should not stop the stream.
func (r *Runner) analyse(ctx context.Context, word string) (string, domain.Result, error) {
	clean, err := SanitizeInput(word)
	if err != nil {
		r.Logger.Warn("input rejected", "err", err)
		return Printable(word), nil, nil
	}

	res, err := r.Analyzer.Lookup(ctx, clean)
	switch {
	case err == nil:
		return clean, res, nil
	case errors.Is(err, domain.ErrBudgetExceeded), errors.Is(err, domain.ErrInvalidInput):
		r.Logger.Warn("lookup abandoned", "input", clean, "err", err)
		return clean, nil, nil
	default:
		return clean, nil, err
	}
}
