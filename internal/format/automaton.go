package format

import (
	"math"

	"github.com/aretw0/hfstol/pkg/domain"
)

// Table addressing.
const (
	// TransitionTargetTableStart separates index-table targets (below) from
	// transition-table targets (at or above, minus this offset).
	TransitionTargetTableStart uint32 = 1 << 31
	// NoTableIndex marks an absent target.
	NoTableIndex uint32 = math.MaxUint32
)

const (
	indexEntrySize         = 2 + 4
	transitionSize         = 2 + 2 + 4
	weightedTransitionSize = transitionSize + 4
)

// IndexEntry is a slot of the transition index table.
type IndexEntry struct {
	Input  SymbolNumber
	Target uint32
}

// Transition is a slot of the transition table.
type Transition struct {
	Input  SymbolNumber
	Output SymbolNumber
	Target uint32
	Weight float32
}

// Automaton is a fully decoded, validated optimized-lookup transducer.
// It is never modified after Parse returns and may be shared between goroutines.
type Automaton struct {
	Header      *Header
	Alphabet    *Alphabet
	Indices     []IndexEntry
	Transitions []Transition
}

// Weighted reports whether the automaton carries weights.
func (a *Automaton) Weighted() bool {
	return a.Header.Weighted()
}

// IndexFinal reports whether index slot i marks a final state, with its weight.
func (a *Automaton) IndexFinal(i uint32) (bool, float32) {
	if int64(i) >= int64(len(a.Indices)) {
		return false, 0
	}
	e := a.Indices[i]
	if e.Input != NoSymbol || e.Target == NoTableIndex {
		return false, 0
	}
	if a.Weighted() {
		return true, math.Float32frombits(e.Target)
	}
	return true, 0
}

// TransitionFinal reports whether transition slot i marks a final state, with its weight.
func (a *Automaton) TransitionFinal(i uint32) (bool, float32) {
	if int64(i) >= int64(len(a.Transitions)) {
		return false, 0
	}
	t := a.Transitions[i]
	if t.Input != NoSymbol || t.Output != NoSymbol || t.Target != 1 {
		return false, 0
	}
	return true, t.Weight
}

// Parse decodes a transducer image. The returned error is a *domain.LoadError
// without Path; callers fill it in.
func Parse(data []byte) (*Automaton, error) {
	r := newReader(data)

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	alpha, err := readAlphabet(r, int(h.SymbolCount), int(h.InputSymbolCount))
	if err != nil {
		return nil, err
	}

	tsize := transitionSize
	if h.Weighted() {
		tsize = weightedTransitionSize
	}
	need := int64(h.IndexTableSize)*indexEntrySize + int64(h.TransitionTableSize)*int64(tsize)
	if need > int64(r.Remaining()) {
		return nil, failAt(domain.ErrTruncated, r.Position(),
			"tables need %d bytes (%d index, %d transition entries), %d available",
			need, h.IndexTableSize, h.TransitionTableSize, r.Remaining())
	}
	if h.TransitionTableSize >= TransitionTargetTableStart || h.IndexTableSize >= TransitionTargetTableStart {
		return nil, failAt(domain.ErrFormat, r.Position(), "table sizes exceed the addressable range")
	}

	a := &Automaton{
		Header:      h,
		Alphabet:    alpha,
		Indices:     make([]IndexEntry, h.IndexTableSize),
		Transitions: make([]Transition, h.TransitionTableSize),
	}

	indexStart := r.Position()
	for i := range a.Indices {
		a.Indices[i].Input, _ = r.ReadU16()
		a.Indices[i].Target, _ = r.ReadU32()
	}

	transitionStart := r.Position()
	for i := range a.Transitions {
		t := &a.Transitions[i]
		t.Input, _ = r.ReadU16()
		t.Output, _ = r.ReadU16()
		t.Target, _ = r.ReadU32()
		if h.Weighted() {
			t.Weight, _ = r.ReadF32()
		}
	}

	if err := a.validate(indexStart, transitionStart, tsize); err != nil {
		return nil, err
	}
	return a, nil
}

// validate checks every symbol and target reference so the traversal never
// has to bounds-check a followed edge.
func (a *Automaton) validate(indexStart, transitionStart, tsize int) error {
	nIdx := uint32(len(a.Indices))
	nTr := uint32(len(a.Transitions))

	for i, e := range a.Indices {
		if e.Input == NoSymbol {
			continue
		}
		off := indexStart + i*indexEntrySize
		if err := a.Alphabet.checkSymbol(e.Input, "index entry", off); err != nil {
			return err
		}
		if e.Target < TransitionTargetTableStart || e.Target-TransitionTargetTableStart >= nTr {
			return failAt(domain.ErrCorrupt, off, "index entry %d targets %d outside the transition table (%d entries)", i, e.Target, nTr)
		}
	}

	for i, t := range a.Transitions {
		if t.Input == NoSymbol {
			continue
		}
		off := transitionStart + i*tsize
		if err := a.Alphabet.checkSymbol(t.Input, "transition input", off); err != nil {
			return err
		}
		if err := a.Alphabet.checkSymbol(t.Output, "transition output", off); err != nil {
			return err
		}
		if t.Target >= TransitionTargetTableStart {
			if t.Target-TransitionTargetTableStart >= nTr {
				return failAt(domain.ErrCorrupt, off, "transition %d targets slot %d outside the transition table (%d entries)", i, t.Target-TransitionTargetTableStart, nTr)
			}
		} else if t.Target >= nIdx {
			return failAt(domain.ErrCorrupt, off, "transition %d targets slot %d outside the index table (%d entries)", i, t.Target, nIdx)
		}
	}
	return nil
}
