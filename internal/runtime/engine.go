package runtime

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/aretw0/hfstol/internal/format"
	"github.com/aretw0/hfstol/pkg/domain"
)

// ctxCheckInterval is how many traversal steps run between context checks.
const ctxCheckInterval = 1024

// Options tunes a lookup engine.
type Options struct {
	// MaxSteps bounds the number of traversal steps per lookup; 0 means unlimited.
	MaxSteps int
}

// Engine runs lookups against one automaton. It holds no per-call state and
// is safe for concurrent use.
type Engine struct {
	automaton *format.Automaton
	trie      *trieNode
	opts      Options
}

// NewEngine prepares an engine for a decoded automaton.
func NewEngine(a *format.Automaton, opts Options) *Engine {
	return &Engine{
		automaton: a,
		trie:      buildTrie(a.Alphabet),
		opts:      opts,
	}
}

// Automaton returns the underlying automaton.
func (e *Engine) Automaton() *format.Automaton {
	return e.automaton
}

type frameKind uint8

const (
	frameVisit frameKind = iota + 1
	frameAccept
)

// outNode is a persistent output chain; branches share their common prefix.
type outNode struct {
	symbol string
	prev   *outNode
}

// trailNode is a persistent list of states, newest first. As a frame's trail
// it holds the states visited at the current input position since the last
// consumed token.
type trailNode struct {
	state uint32
	prev  *trailNode
}

func (t *trailNode) contains(state uint32) bool {
	for ; t != nil; t = t.prev {
		if t.state == state {
			return true
		}
	}
	return false
}

// frame is one pending unit of work on the traversal stack.
type frame struct {
	kind   frameKind
	state  uint32
	pos    int
	weight float64
	out    *outNode
	flags  flagState
	trail  *trailNode
	// path is only tracked by Trace.
	path *trailNode
}

// search holds the state of a single lookup call.
type search struct {
	e        *Engine
	a        *format.Automaton
	tokens   []Token
	stack    []frame
	children []frame
	result   domain.Result
	seen     map[string]int

	trace    bool
	accepted *trailNode
}

// Lookup returns every analysis the automaton accepts for input.
//
// Branches are explored depth first in table order: epsilon and flag
// transitions, then acceptance, then transitions consuming the next token.
// Unweighted automata return analyses in that discovery order; weighted
// automata return them sorted by ascending weight, ties in discovery order.
// Identical symbol sequences are reported once.
func (e *Engine) Lookup(ctx context.Context, input string) (domain.Result, error) {
	s, err := e.newSearch(input, false)
	if err != nil {
		return nil, err
	}
	if err := s.run(ctx); err != nil {
		return nil, err
	}

	if e.automaton.Weighted() {
		slices.SortStableFunc(s.result, func(x, y domain.Analysis) int {
			return cmp.Compare(x.Weight, y.Weight)
		})
	}
	return s.result, nil
}

// Trace returns the states of the first path accepting input in discovery
// order, start state first, and the analysis that path produces. It returns
// a nil path when input is rejected.
func (e *Engine) Trace(ctx context.Context, input string) ([]uint32, domain.Analysis, error) {
	s, err := e.newSearch(input, true)
	if err != nil {
		return nil, domain.Analysis{}, err
	}
	if err := s.run(ctx); err != nil {
		return nil, domain.Analysis{}, err
	}
	if s.accepted == nil {
		return nil, domain.Analysis{}, nil
	}

	var path []uint32
	for n := s.accepted; n != nil; n = n.prev {
		path = append(path, n.state)
	}
	slices.Reverse(path)
	return path, s.result[0], nil
}

func (e *Engine) newSearch(input string, trace bool) (*search, error) {
	tokens, err := e.Tokenize(input)
	if err != nil {
		return nil, err
	}

	s := &search{
		e:      e,
		a:      e.automaton,
		tokens: tokens,
		result: domain.Result{},
		seen:   make(map[string]int),
		trace:  trace,
	}
	s.stack = append(s.stack, frame{
		kind:  frameVisit,
		state: 0,
		flags: make(flagState, len(e.automaton.Alphabet.Features)),
	})
	return s, nil
}

// run pops frames until the stack is empty, or until the first acceptance
// when tracing.
func (s *search) run(ctx context.Context) error {
	e := s.e
	steps := 0
	for len(s.stack) > 0 {
		f := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		steps++
		if e.opts.MaxSteps > 0 && steps > e.opts.MaxSteps {
			return domain.ErrBudgetExceeded
		}
		if ctx != nil && steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		switch f.kind {
		case frameVisit:
			s.visit(f)
		case frameAccept:
			s.accept(f)
			if s.trace {
				s.accepted = f.path
				return nil
			}
		default:
			panic("runtime: corrupt traversal frame")
		}
	}
	return nil
}

// visit expands one state, pushing its successors so that they pop in table order.
func (s *search) visit(f frame) {
	if f.trail.contains(f.state) {
		return
	}
	trail := &trailNode{state: f.state, prev: f.trail}
	if s.trace {
		f.path = &trailNode{state: f.state, prev: f.path}
	}
	s.children = s.children[:0]

	if f.state >= format.TransitionTargetTableStart {
		s.visitTransitionState(f, f.state-format.TransitionTargetTableStart, trail)
	} else {
		s.visitIndexState(f, f.state, trail)
	}

	for i := len(s.children) - 1; i >= 0; i-- {
		s.stack = append(s.stack, s.children[i])
	}
}

func (s *search) visitIndexState(f frame, base uint32, trail *trailNode) {
	a := s.a
	if eps := base + 1; int64(eps) < int64(len(a.Indices)) && a.Indices[eps].Input == format.Epsilon {
		s.epsilons(f, a.Indices[eps].Target-format.TransitionTargetTableStart, trail)
	}

	if f.pos == len(s.tokens) {
		if final, w := a.IndexFinal(base); final {
			s.acceptChild(f, w)
		}
		return
	}

	tok := s.tokens[f.pos]
	for _, sym := range s.candidates(tok) {
		slot := int64(base) + 1 + int64(sym)
		if slot >= int64(len(a.Indices)) || a.Indices[slot].Input != sym {
			continue
		}
		for j := a.Indices[slot].Target - format.TransitionTargetTableStart; int(j) < len(a.Transitions); j++ {
			t := a.Transitions[j]
			if t.Input != sym {
				break
			}
			s.consume(f, t, tok)
		}
	}
}

func (s *search) visitTransitionState(f frame, p uint32, trail *trailNode) {
	a := s.a
	s.epsilons(f, p+1, trail)

	if f.pos == len(s.tokens) {
		if final, w := a.TransitionFinal(p); final {
			s.acceptChild(f, w)
		}
		return
	}

	tok := s.tokens[f.pos]
	for _, sym := range s.candidates(tok) {
		for j := p + 1; int(j) < len(a.Transitions); j++ {
			t := a.Transitions[j]
			if t.Input == format.NoSymbol {
				break
			}
			if t.Input == sym {
				s.consume(f, t, tok)
			}
		}
	}
}

// epsilons queues the epsilon and flag transitions starting at slot j.
func (s *search) epsilons(f frame, j uint32, trail *trailNode) {
	a := s.a
	for ; int64(j) < int64(len(a.Transitions)); j++ {
		t := a.Transitions[j]
		flags := f.flags
		switch {
		case t.Input == format.Epsilon:
		case a.Alphabet.IsFlag(t.Input):
			next, ok := f.flags.apply(a.Alphabet.Flags[t.Input])
			if !ok {
				continue
			}
			flags = next
		default:
			return
		}
		s.children = append(s.children, frame{
			kind:   frameVisit,
			state:  t.Target,
			pos:    f.pos,
			weight: f.weight + float64(t.Weight),
			out:    s.emit(f.out, t.Output, nil),
			flags:  flags,
			trail:  trail,
			path:   f.path,
		})
	}
}

// consume queues a transition that reads tok.
func (s *search) consume(f frame, t format.Transition, tok Token) {
	s.children = append(s.children, frame{
		kind:   frameVisit,
		state:  t.Target,
		pos:    f.pos + 1,
		weight: f.weight + float64(t.Weight),
		out:    s.emit(f.out, t.Output, &tok),
		flags:  f.flags,
		path:   f.path,
	})
}

func (s *search) acceptChild(f frame, finalWeight float32) {
	f.kind = frameAccept
	f.weight += float64(finalWeight)
	s.children = append(s.children, f)
}

// candidates returns the input symbols a token can match.
func (s *search) candidates(tok Token) []format.SymbolNumber {
	if tok.Known {
		return []format.SymbolNumber{tok.Symbol}
	}
	alpha := s.a.Alphabet
	var syms []format.SymbolNumber
	if alpha.Identity != format.NoSymbol {
		syms = append(syms, alpha.Identity)
	}
	if alpha.Unknown != format.NoSymbol {
		syms = append(syms, alpha.Unknown)
	}
	return syms
}

// emit appends the printable form of out to the chain. Epsilon and flag
// outputs print as nothing; identity and unknown outputs copy the consumed
// unknown token.
func (s *search) emit(chain *outNode, out format.SymbolNumber, tok *Token) *outNode {
	alpha := s.a.Alphabet
	text := alpha.Symbols[out]
	if (out == alpha.Identity || out == alpha.Unknown) && tok != nil && !tok.Known {
		text = tok.Text
	}
	if text == "" {
		return chain
	}
	return &outNode{symbol: text, prev: chain}
}

func (s *search) accept(f frame) {
	n := 0
	for o := f.out; o != nil; o = o.prev {
		n++
	}
	symbols := make([]string, n)
	for o := f.out; o != nil; o = o.prev {
		n--
		symbols[n] = o.symbol
	}

	key := strings.Join(symbols, "\x00")
	if i, dup := s.seen[key]; dup {
		if f.weight < s.result[i].Weight {
			s.result[i].Weight = f.weight
		}
		return
	}
	s.seen[key] = len(s.result)
	s.result = append(s.result, domain.Analysis{Symbols: symbols, Weight: f.weight})
}
