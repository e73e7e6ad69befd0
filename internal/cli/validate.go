package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/hfstol/internal/format"
	"github.com/aretw0/hfstol/internal/validator"
	"github.com/aretw0/hfstol/pkg/domain"
)

// RunValidate checks every catalog analyzer, or only the given names or files,
// and prints one report per analyzer. It fails if any analyzer has errors.
func RunValidate(ctx context.Context, app *App, targets []string, out io.Writer) error {
	specs, err := validationTargets(ctx, app, targets)
	if err != nil {
		return err
	}

	failed := 0
	for _, spec := range specs {
		report, err := validateFile(spec.Path)
		if err == nil {
			err = report.Err()
		}
		if err != nil {
			failed++
			fmt.Fprintf(out, "✗ %s: %v\n", spec.Name, err)
			continue
		}

		fmt.Fprintf(out, "✓ %s: %d states, %d final\n", spec.Name, report.Reachable, report.Final)
		for _, w := range report.Warnings() {
			fmt.Fprintf(out, "  ! %s\n", w)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyzers failed validation", failed, len(specs))
	}
	return nil
}

func validationTargets(ctx context.Context, app *App, targets []string) ([]domain.AnalyzerSpec, error) {
	all, err := app.Catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		if len(all) == 0 {
			return nil, errors.New("no analyzers configured")
		}
		return all, nil
	}

	byName := make(map[string]domain.AnalyzerSpec, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}

	specs := make([]domain.AnalyzerSpec, 0, len(targets))
	for _, target := range targets {
		if s, ok := byName[target]; ok {
			specs = append(specs, s)
			continue
		}
		if _, err := os.Stat(target); err == nil {
			specs = append(specs, domain.AnalyzerSpec{Name: target, Path: target})
			continue
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrAnalyzerNotFound, target)
	}
	return specs, nil
}

func validateFile(path string) (validator.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validator.Report{}, domain.NewLoadError(path, domain.ErrIO, "", err)
	}
	a, err := format.Parse(data)
	if err != nil {
		var le *domain.LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return validator.Report{}, err
	}
	return validator.Validate(a), nil
}
