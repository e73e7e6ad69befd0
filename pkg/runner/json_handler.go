package runner

import (
	"context"
	"encoding/json"
	"io"

	"github.com/aretw0/hfstol/pkg/domain"
)

// JSONRecord is one line of JSONFormatter output.
type JSONRecord struct {
	Input    string            `json:"input"`
	Analyses []domain.Analysis `json:"analyses"`
	Strings  []string          `json:"strings"`
}

// JSONFormatter writes one JSON object per input word (JSON Lines).
type JSONFormatter struct {
	Encoder *json.Encoder
}

// NewJSONFormatter creates a formatter writing to w.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONFormatter{Encoder: enc}
}

// Format implements Formatter.
func (f *JSONFormatter) Format(ctx context.Context, word string, res domain.Result) error {
	if res == nil {
		res = domain.Result{}
	}
	return f.Encoder.Encode(JSONRecord{
		Input:    word,
		Analyses: res,
		Strings:  res.Strings(),
	})
}

// Flush implements Formatter. The encoder writes through.
func (f *JSONFormatter) Flush() error {
	return nil
}
