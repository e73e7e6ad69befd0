package tui

import (
	"fmt"
	"io"
	"regexp"

	"github.com/muesli/termenv"
)

// PrintBanner writes the hfstol banner to w using the terminal's colour profile.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text, color string
	}{
		{"  _      __     _       _ ", "#818cf8"},
		{" | |__  / _|___| |_ ___| |", "#a78bfa"},
		{" | '_ \\|  _(_-<  _/ _ \\ |", "#c084fc"},
		{" |_| |_|_| /__/\\__\\___/_|", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

var tagPattern = regexp.MustCompile(`\+[^+]+`)

// TagColorizer returns a function that colours the "+Tag" parts of an
// analysis for the given profile. termenv.Ascii disables colour.
func TagColorizer(p termenv.Profile) func(string) string {
	if p == termenv.Ascii {
		return func(s string) string { return s }
	}
	tag := p.Color("#f472b6")
	return func(s string) string {
		return tagPattern.ReplaceAllStringFunc(s, func(m string) string {
			return termenv.String(m).Foreground(tag).String()
		})
	}
}
