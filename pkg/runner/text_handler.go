package runner

import (
	"bufio"
	"context"
	"io"
	"math"
	"strconv"

	"github.com/aretw0/hfstol/pkg/domain"
)

// TextFormatter writes the hfst-optimized-lookup layout: one
// "word<TAB>analysis<TAB>weight" line per analysis followed by a blank line.
// Rejected words print "word<TAB>word+?<TAB>inf".
type TextFormatter struct {
	Writer *bufio.Writer

	// Decorate, if set, rewrites each analysis before it is written
	// (e.g. to colour tags on a terminal).
	Decorate func(string) string
}

// NewTextFormatter creates a formatter writing to w.
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{Writer: bufio.NewWriter(w)}
}

// Format implements Formatter.
func (f *TextFormatter) Format(ctx context.Context, word string, res domain.Result) error {
	if len(res) == 0 {
		f.line(word, word+"+?", math.Inf(1))
	}
	for _, a := range res {
		s := a.String()
		if f.Decorate != nil {
			s = f.Decorate(s)
		}
		f.line(word, s, a.Weight)
	}
	return f.Writer.WriteByte('\n')
}

func (f *TextFormatter) line(word, analysis string, weight float64) {
	f.Writer.WriteString(word)
	f.Writer.WriteByte('\t')
	f.Writer.WriteString(analysis)
	f.Writer.WriteByte('\t')
	f.Writer.WriteString(FormatWeight(weight))
	f.Writer.WriteByte('\n')
}

// Flush implements Formatter.
func (f *TextFormatter) Flush() error {
	return f.Writer.Flush()
}

// FormatWeight renders a weight the way hfst-optimized-lookup does.
func FormatWeight(w float64) string {
	if math.IsInf(w, 1) {
		return "inf"
	}
	return strconv.FormatFloat(w, 'f', 6, 64)
}
