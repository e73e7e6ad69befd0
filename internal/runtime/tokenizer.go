package runtime

import (
	"unicode/utf8"

	"github.com/aretw0/hfstol/internal/format"
	"github.com/aretw0/hfstol/pkg/domain"
)

// Token is one unit of tokenized input.
type Token struct {
	// Symbol is the input symbol number; meaningless when Known is false.
	Symbol format.SymbolNumber
	// Known is false for runes that match no alphabet symbol.
	Known bool
	// Text is the input text covered by the token.
	Text string
}

// trieNode is a byte trie over the input alphabet.
type trieNode struct {
	children map[byte]*trieNode
	symbol   format.SymbolNumber
	terminal bool
}

func buildTrie(a *format.Alphabet) *trieNode {
	root := &trieNode{}
	for i := 1; i < a.InputCount; i++ {
		sym := format.SymbolNumber(i)
		s := a.Raw[i]
		if s == "" || a.IsFlag(sym) || sym == a.Unknown || sym == a.Identity || s == format.EpsilonName {
			continue
		}
		n := root
		for j := 0; j < len(s); j++ {
			if n.children == nil {
				n.children = make(map[byte]*trieNode)
			}
			next, ok := n.children[s[j]]
			if !ok {
				next = &trieNode{}
				n.children[s[j]] = next
			}
			n = next
		}
		// First definition wins if the alphabet repeats a string.
		if !n.terminal {
			n.terminal = true
			n.symbol = sym
		}
	}
	return root
}

// longest returns the symbol and byte length of the longest alphabet match at s.
func (t *trieNode) longest(s string) (format.SymbolNumber, int) {
	n := t
	best, bestLen := format.NoSymbol, 0
	for i := 0; i < len(s); i++ {
		next, ok := n.children[s[i]]
		if !ok {
			break
		}
		n = next
		if n.terminal {
			best, bestLen = n.symbol, i+1
		}
	}
	return best, bestLen
}

// Tokenize splits input into alphabet symbols, longest match first.
// Runes not covered by the alphabet become unknown tokens.
func (e *Engine) Tokenize(input string) ([]Token, error) {
	if !utf8.ValidString(input) {
		return nil, domain.ErrInvalidInput
	}
	tokens := make([]Token, 0, len(input))
	for pos := 0; pos < len(input); {
		if sym, n := e.trie.longest(input[pos:]); n > 0 {
			tokens = append(tokens, Token{Symbol: sym, Known: true, Text: input[pos : pos+n]})
			pos += n
			continue
		}
		_, size := utf8.DecodeRuneInString(input[pos:])
		tokens = append(tokens, Token{Symbol: format.NoSymbol, Text: input[pos : pos+size]})
		pos += size
	}
	return tokens, nil
}
