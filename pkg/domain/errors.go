package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Load-time error kinds. A *LoadError matches exactly one of them with errors.Is.
var (
	// ErrIO is returned when the transducer file cannot be opened or read.
	ErrIO = errors.New("transducer not readable")

	// ErrFormat is returned when the header, magic or version is not recognised.
	ErrFormat = errors.New("unrecognised transducer format")

	// ErrTruncated is returned when the header declares more data than the file holds.
	ErrTruncated = errors.New("truncated transducer")

	// ErrCorrupt is returned when a table refers outside its bounds.
	ErrCorrupt = errors.New("corrupt transducer tables")
)

var (
	// ErrInvalidInput is returned when a lookup input cannot be tokenized at all
	// (it is not valid UTF-8).
	ErrInvalidInput = errors.New("input is not valid UTF-8")

	// ErrBudgetExceeded is returned when a lookup exceeds its configured step budget.
	ErrBudgetExceeded = errors.New("lookup step budget exceeded")

	// ErrAffixParse is returned when an analysis has lemma characters after a suffix tag.
	ErrAffixParse = errors.New("unable to parse analysis into lemma and affixes")

	// ErrAnalyzerNotFound is returned when a named analyzer is not registered.
	ErrAnalyzerNotFound = errors.New("analyzer not found")
)

// LoadError describes why a transducer could not be loaded.
type LoadError struct {
	// Path is the file the transducer was read from (or a caller supplied name).
	Path string
	// Kind is one of ErrIO, ErrFormat, ErrTruncated, ErrCorrupt.
	Kind error
	// Offset is the byte offset where decoding failed, -1 if not applicable.
	Offset int
	// Detail is a human readable explanation.
	Detail string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var b strings.Builder

	switch {
	case errors.Is(e.Kind, ErrIO) && errors.Is(e.Cause, fs.ErrNotExist):
		fmt.Fprintf(&b, "Transducer not found: ‘%s’", e.Path)
	case errors.Is(e.Kind, ErrIO):
		fmt.Fprintf(&b, "cannot read transducer ‘%s’", e.Path)
	default:
		fmt.Fprintf(&b, "%s ‘%s’ (wrong or corrupt file?)", e.Kind, e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at byte %d", e.Offset)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is / errors.As.
func (e *LoadError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewLoadError builds a LoadError without offset.
func NewLoadError(path string, kind error, detail string, cause error) *LoadError {
	return &LoadError{Path: path, Kind: kind, Offset: -1, Detail: detail, Cause: cause}
}
