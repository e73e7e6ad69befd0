package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Analysis is one accepted output path of a lookup.
type Analysis struct {
	// Symbols holds the output symbols in path order, flag diacritics and
	// epsilons excluded.
	Symbols []string `json:"symbols"`

	// Weight is the accumulated path weight (transitions + final state).
	// Lower is better. Always 0 for unweighted transducers.
	Weight float64 `json:"weight"`
}

// String concatenates the symbols without separator,
// e.g. "atim+N+A+Sg".
func (a Analysis) String() string {
	return strings.Join(a.Symbols, "")
}

// Result is the ordered set of analyses produced by one lookup.
type Result []Analysis

// Strings renders every analysis as a concatenated string, keeping order.
func (r Result) Strings() []string {
	out := make([]string, len(r))
	for i, a := range r {
		out[i] = a.String()
	}
	return out
}

// SymbolSequences renders every analysis as its symbol slice, keeping order.
func (r Result) SymbolSequences() [][]string {
	out := make([][]string, len(r))
	for i, a := range r {
		out[i] = append([]string(nil), a.Symbols...)
	}
	return out
}

// Affixes is an analysis split around its lemma.
//
// For "PV/ki+" "n" "i" "p" "â" "w" "+V" "+AI" the prefixes are ["PV/ki+"],
// the lemma is "nipâw" and the suffixes are ["+V", "+AI"].
type Affixes struct {
	Prefixes []string `json:"prefixes"`
	Lemma    string   `json:"lemma"`
	Suffixes []string `json:"suffixes"`
}

// SplitAffixes classifies single-character symbols as lemma characters and
// multi-character symbols as tags. Tags before the first lemma character are
// prefixes, tags after it are suffixes.
func SplitAffixes(a Analysis) (Affixes, error) {
	aff := Affixes{Prefixes: []string{}, Suffixes: []string{}}
	var lemma strings.Builder
	inLemma := false
	lemmaDone := false

	for _, sym := range a.Symbols {
		if utf8.RuneCountInString(sym) == 1 {
			if lemmaDone {
				return Affixes{}, fmt.Errorf("%w: %q", ErrAffixParse, a.Symbols)
			}
			inLemma = true
			lemma.WriteString(sym)
			continue
		}
		if !inLemma {
			aff.Prefixes = append(aff.Prefixes, sym)
		} else {
			lemmaDone = true
			aff.Suffixes = append(aff.Suffixes, sym)
		}
	}

	aff.Lemma = lemma.String()
	return aff, nil
}
