package format

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/hfstol/pkg/domain"
)

// hfst3Magic opens the optional HFST3 container header.
var hfst3Magic = []byte("HFST\x00")

// Container types accepted in the HFST3 header.
const (
	TypeUnweighted = "HFST_OL"
	TypeWeighted   = "HFST_OLW"
)

// headerSize is the size in bytes of the optimized-lookup header.
const headerSize = 2 + 2 + 4*4 + 9*4

// propertyNames lists the boolean header fields in file order.
var propertyNames = [9]string{
	"weighted",
	"deterministic",
	"input_deterministic",
	"minimized",
	"cyclic",
	"has_epsilon_epsilon_transitions",
	"has_input_epsilon_transitions",
	"has_input_epsilon_cycles",
	"has_unweighted_input_epsilon_cycles",
}

// Header is the optimized-lookup header.
type Header struct {
	InputSymbolCount    uint16
	SymbolCount         uint16
	IndexTableSize      uint32
	TransitionTableSize uint32
	StateCount          uint32
	TransitionCount     uint32

	// Properties holds the nine boolean flags in file order (see propertyNames).
	Properties [9]bool

	// Container holds the HFST3 key/value pairs; nil for headerless files.
	Container map[string]string
}

// Weighted reports whether the tables carry weights.
func (h *Header) Weighted() bool {
	return h.Properties[0]
}

// Type returns the container type, derived from the weighted flag for headerless files.
func (h *Header) Type() string {
	if t, ok := h.Container["type"]; ok {
		return t
	}
	if h.Weighted() {
		return TypeWeighted
	}
	return TypeUnweighted
}

// PropertyMap renders the boolean properties and container pairs as strings.
func (h *Header) PropertyMap() map[string]string {
	m := make(map[string]string, len(propertyNames)+len(h.Container))
	for k, v := range h.Container {
		m[k] = v
	}
	for i, name := range propertyNames {
		m[name] = fmt.Sprintf("%t", h.Properties[i])
	}
	return m
}

// readContainer consumes the HFST3 container header if the data starts with its magic.
func readContainer(r *reader) (map[string]string, error) {
	if !bytes.HasPrefix(r.buf[r.pos:], hfst3Magic) {
		return nil, nil
	}
	start := r.Position()
	if _, err := r.ReadBytes(len(hfst3Magic)); err != nil {
		return nil, wrap(r, "container header", err)
	}
	length, err := r.ReadU16()
	if err != nil {
		return nil, wrap(r, "container header length", err)
	}
	sep, err := r.ReadU8()
	if err != nil {
		return nil, wrap(r, "container header", err)
	}
	if sep != 0 {
		return nil, failAt(domain.ErrFormat, start, "malformed HFST3 header")
	}
	raw, err := r.ReadBytes(int(length))
	if err != nil {
		return nil, wrap(r, "container header body", err)
	}

	parts := strings.Split(strings.TrimRight(string(raw), "\x00"), "\x00")
	if len(parts)%2 != 0 {
		return nil, failAt(domain.ErrFormat, start, "HFST3 header has an odd number of fields")
	}
	container := make(map[string]string, len(parts)/2)
	for i := 0; i < len(parts); i += 2 {
		container[parts[i]] = parts[i+1]
	}

	switch container["type"] {
	case TypeUnweighted, TypeWeighted:
	case "":
		return nil, failAt(domain.ErrFormat, start, "HFST3 header has no type")
	default:
		return nil, failAt(domain.ErrFormat, start, "unsupported transducer type %q", container["type"])
	}
	return container, nil
}

// readHeader decodes and sanity checks the optimized-lookup header.
func readHeader(r *reader) (*Header, error) {
	container, err := readContainer(r)
	if err != nil {
		return nil, err
	}

	start := r.Position()
	if r.Remaining() < headerSize {
		if container == nil {
			// Without the HFST3 magic a short file is more likely foreign than cut off.
			return nil, failAt(domain.ErrFormat, start, "file too short for a transducer header")
		}
		return nil, failAt(domain.ErrTruncated, start, "header needs %d bytes, %d available", headerSize, r.Remaining())
	}

	h := &Header{Container: container}
	h.InputSymbolCount, _ = r.ReadU16()
	h.SymbolCount, _ = r.ReadU16()
	h.IndexTableSize, _ = r.ReadU32()
	h.TransitionTableSize, _ = r.ReadU32()
	h.StateCount, _ = r.ReadU32()
	h.TransitionCount, _ = r.ReadU32()
	for i := range h.Properties {
		v, _ := r.ReadU32()
		if v > 1 {
			return nil, failAt(domain.ErrFormat, start, "header property %s has value %d", propertyNames[i], v)
		}
		h.Properties[i] = v == 1
	}

	switch {
	case h.SymbolCount == 0:
		return nil, failAt(domain.ErrFormat, start, "empty alphabet")
	case h.InputSymbolCount > h.SymbolCount:
		return nil, failAt(domain.ErrFormat, start, "%d input symbols but only %d symbols", h.InputSymbolCount, h.SymbolCount)
	case h.SymbolCount == NoSymbol:
		return nil, failAt(domain.ErrFormat, start, "symbol count collides with the no-symbol marker")
	}
	if container != nil && (container["type"] == TypeWeighted) != h.Weighted() {
		return nil, failAt(domain.ErrFormat, start, "container type %s disagrees with weighted=%t", container["type"], h.Weighted())
	}
	return h, nil
}

// wrap converts a reader error into a LoadError at the reader's position.
func wrap(r *reader, section string, err error) error {
	if errors.Is(err, errShort) {
		return failAt(domain.ErrTruncated, r.Position(), "%s: %v", section, err)
	}
	return &domain.LoadError{Kind: domain.ErrFormat, Offset: r.Position(), Detail: section, Cause: err}
}

func failAt(kind error, offset int, format string, args ...any) error {
	return &domain.LoadError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}
