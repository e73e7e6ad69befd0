package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/runner"
)

// NewRenderer returns a function that renders markdown using glamour.
// It detects a light or dark background; wordWrap 0 keeps glamour's default.
func NewRenderer(wordWrap int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// InfoMarkdown describes a transducer as a markdown document.
func InfoMarkdown(info domain.Info) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", info.Name)
	if info.Path != "" {
		fmt.Fprintf(&sb, "`%s`\n\n", info.Path)
	}

	sb.WriteString("| Property | Value |\n|---|---|\n")
	row := func(k string, v any) {
		fmt.Fprintf(&sb, "| %s | %v |\n", k, v)
	}
	row("Type", info.Type)
	row("Weighted", info.Weighted)
	row("Symbols", info.SymbolCount)
	row("Input symbols", info.InputSymbolCount)
	row("Flag diacritics", info.FlagDiacritics)
	row("States", info.StateCount)
	row("Index table", info.IndexTableSize)
	row("Transition table", info.TransitionCount)
	row("SHA-256", "`"+info.Checksum+"`")

	if len(info.Properties) > 0 {
		keys := make([]string, 0, len(info.Properties))
		for k := range info.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\n## Properties\n\n| Name | Value |\n|---|---|\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "| %s | %s |\n", k, escapeCell(info.Properties[k]))
		}
	}
	return sb.String()
}

// LookupMarkdown renders the analyses of word as a markdown table.
func LookupMarkdown(word string, res domain.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", escapeCell(word))
	if len(res) == 0 {
		sb.WriteString("_No analyses._\n")
		return sb.String()
	}

	sb.WriteString("| # | Analysis | Weight |\n|---|---|---|\n")
	for i, a := range res {
		fmt.Fprintf(&sb, "| %d | `%s` | %s |\n", i+1, a.String(), runner.FormatWeight(a.Weight))
	}
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
