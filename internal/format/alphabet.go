package format

import (
	"strings"

	"github.com/aretw0/hfstol/pkg/domain"
)

// SymbolNumber identifies a symbol in the alphabet.
type SymbolNumber = uint16

// Reserved markers.
const (
	// Epsilon is always symbol 0.
	Epsilon SymbolNumber = 0
	// NoSymbol marks an empty table slot or a finality entry.
	NoSymbol SymbolNumber = 0xFFFF
)

// Special symbol names.
const (
	EpsilonName  = "@_EPSILON_SYMBOL_@"
	UnknownName  = "@_UNKNOWN_SYMBOL_@"
	IdentityName = "@_IDENTITY_SYMBOL_@"
)

// FlagOp is a flag diacritic operation.
type FlagOp byte

const (
	FlagPositiveSet FlagOp = 'P'
	FlagNegativeSet FlagOp = 'N'
	FlagRequire     FlagOp = 'R'
	FlagDisallow    FlagOp = 'D'
	FlagClear       FlagOp = 'C'
	FlagUnify       FlagOp = 'U'
)

// FlagDiacritic is a parsed @OP.FEATURE.VALUE@ symbol.
// Feature and Value are interned; Value 0 means "no value given".
type FlagDiacritic struct {
	Op      FlagOp
	Feature int
	Value   int16
}

// Alphabet is the symbol table of an automaton.
type Alphabet struct {
	// Symbols maps symbol numbers to their printable strings. Epsilon and flag
	// diacritics print as "".
	Symbols []string

	// Raw keeps the strings exactly as stored in the file.
	Raw []string

	// InputCount is the size of the input alphabet prefix.
	InputCount int

	// Flags is indexed by symbol number; nil for ordinary symbols.
	Flags []*FlagDiacritic

	// Features lists interned flag feature names by index.
	Features []string

	// FlagCount is the number of flag diacritic symbols.
	FlagCount int

	// Unknown and Identity are the special symbol numbers, NoSymbol when absent.
	Unknown  SymbolNumber
	Identity SymbolNumber
}

// IsFlag reports whether s is a flag diacritic.
func (a *Alphabet) IsFlag(s SymbolNumber) bool {
	return int(s) < len(a.Flags) && a.Flags[s] != nil
}

// Len returns the number of symbols.
func (a *Alphabet) Len() int {
	return len(a.Symbols)
}

// Lookup returns the symbol number of the given raw string.
func (a *Alphabet) Lookup(raw string) (SymbolNumber, bool) {
	for i, s := range a.Raw {
		if s == raw {
			return SymbolNumber(i), true
		}
	}
	return NoSymbol, false
}

// readAlphabet reads count NUL-terminated symbols and parses flag diacritics.
func readAlphabet(r *reader, count, inputCount int) (*Alphabet, error) {
	a := &Alphabet{
		Symbols:    make([]string, count),
		Raw:        make([]string, count),
		Flags:      make([]*FlagDiacritic, count),
		InputCount: inputCount,
		Unknown:    NoSymbol,
		Identity:   NoSymbol,
	}
	features := map[string]int{}
	values := map[string]int16{}

	for i := 0; i < count; i++ {
		s, err := r.ReadCString()
		if err != nil {
			return nil, wrap(r, "alphabet", err)
		}
		a.Raw[i] = s
		a.Symbols[i] = s

		switch {
		case i == 0 || s == EpsilonName:
			a.Symbols[i] = ""
		case s == UnknownName:
			a.Unknown = SymbolNumber(i)
		case s == IdentityName:
			a.Identity = SymbolNumber(i)
		default:
			if f, ok := parseFlag(s, features, values); ok {
				a.Flags[i] = f
				a.Symbols[i] = ""
				a.FlagCount++
			}
		}
	}

	a.Features = make([]string, len(features))
	for name, idx := range features {
		a.Features[idx] = name
	}
	return a, nil
}

// parseFlag recognises @P.F.V@, @N.F.V@, @U.F.V@, @R.F.V@, @R.F@,
// @D.F.V@, @D.F@ and @C.F@. Anything else is an ordinary symbol.
func parseFlag(s string, features map[string]int, values map[string]int16) (*FlagDiacritic, bool) {
	if len(s) < 5 || s[0] != '@' || s[len(s)-1] != '@' || s[2] != '.' {
		return nil, false
	}
	op := FlagOp(s[1])
	body := s[3 : len(s)-1]
	feature, value, hasValue := strings.Cut(body, ".")
	if feature == "" || strings.ContainsRune(feature, '@') || (hasValue && value == "") {
		return nil, false
	}

	switch op {
	case FlagPositiveSet, FlagNegativeSet, FlagUnify:
		if !hasValue {
			return nil, false
		}
	case FlagRequire, FlagDisallow:
	case FlagClear:
		if hasValue {
			return nil, false
		}
	default:
		return nil, false
	}

	f := &FlagDiacritic{Op: op}
	idx, ok := features[feature]
	if !ok {
		idx = len(features)
		features[feature] = idx
	}
	f.Feature = idx
	if hasValue {
		v, ok := values[value]
		if !ok {
			v = int16(len(values) + 1)
			values[value] = v
		}
		f.Value = v
	}
	return f, true
}

// checkSymbol reports symbols outside the alphabet.
func (a *Alphabet) checkSymbol(s SymbolNumber, where string, offset int) error {
	if int(s) >= len(a.Symbols) {
		return failAt(domain.ErrCorrupt, offset, "%s refers to symbol %d of %d", where, s, len(a.Symbols))
	}
	return nil
}
