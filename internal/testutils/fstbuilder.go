package testutils

import (
	"bytes"
	"encoding/binary"
	"math"
	"slices"
	"strings"
)

const (
	epsilonName  = "@_EPSILON_SYMBOL_@"
	noSymbol     = 0xFFFF
	noTableIndex = math.MaxUint32
	tts          = 1 << 31
)

// Label is one input:output pair on an arc. An empty side is epsilon.
type Label struct {
	In  string
	Out string
}

// Pair builds a label.
func Pair(in, out string) Label {
	return Label{In: in, Out: out}
}

// Chars maps every rune of s to itself.
func Chars(s string) []Label {
	var labels []Label
	for _, r := range s {
		labels = append(labels, Label{In: string(r), Out: string(r)})
	}
	return labels
}

// Out emits each symbol without consuming input.
func Out(symbols ...string) []Label {
	labels := make([]Label, len(symbols))
	for i, s := range symbols {
		labels[i] = Label{Out: s}
	}
	return labels
}

// Flag is a flag diacritic arc label.
func Flag(flag string) Label {
	return Label{In: flag, Out: flag}
}

// Seq concatenates label groups.
func Seq(groups ...[]Label) []Label {
	return slices.Concat(groups...)
}

type builderArc struct {
	label  Label
	target int
	weight float32
}

type builderState struct {
	final      bool
	weight     float32
	transition bool
	arcs       []builderArc
}

// Image is an encoded transducer with the offsets of its tables.
type Image struct {
	Data             []byte
	IndexOffset      int
	TransitionOffset int
	TransitionSize   int
}

// FSTBuilder assembles small optimized-lookup transducer images.
//
// State 0 is the start state and is always laid out in the index table.
// Other states use the index table unless AsTransitionState is called.
type FSTBuilder struct {
	states    []*builderState
	weighted  bool
	container bool
	declared  []string
	name      string
}

// NewFSTBuilder returns a builder holding only the start state.
func NewFSTBuilder() *FSTBuilder {
	b := &FSTBuilder{container: true, name: "test"}
	b.State()
	return b
}

// State adds a state and returns its number.
func (b *FSTBuilder) State() int {
	b.states = append(b.states, &builderState{})
	return len(b.states) - 1
}

// Arc adds a transition.
func (b *FSTBuilder) Arc(from, to int, in, out string) *FSTBuilder {
	return b.WeightedArc(from, to, in, out, 0)
}

// WeightedArc adds a transition with a weight.
func (b *FSTBuilder) WeightedArc(from, to int, in, out string, w float32) *FSTBuilder {
	b.states[from].arcs = append(b.states[from].arcs, builderArc{label: Label{In: in, Out: out}, target: to, weight: w})
	return b
}

// Final marks s as final.
func (b *FSTBuilder) Final(s int) *FSTBuilder {
	return b.FinalWeight(s, 0)
}

// FinalWeight marks s as final with weight w.
func (b *FSTBuilder) FinalWeight(s int, w float32) *FSTBuilder {
	b.states[s].final = true
	b.states[s].weight = w
	return b
}

// Weighted switches the image to the HFST_OLW format.
func (b *FSTBuilder) Weighted() *FSTBuilder {
	b.weighted = true
	return b
}

// AsTransitionState lays s out in the transition table.
func (b *FSTBuilder) AsTransitionState(s int) *FSTBuilder {
	if s == 0 {
		panic("testutils: the start state must live in the index table")
	}
	b.states[s].transition = true
	return b
}

// AllTransitionStates lays every state but the start state out in the transition table.
func (b *FSTBuilder) AllTransitionStates() *FSTBuilder {
	for s := 1; s < len(b.states); s++ {
		b.states[s].transition = true
	}
	return b
}

// WithoutContainer omits the HFST3 header.
func (b *FSTBuilder) WithoutContainer() *FSTBuilder {
	b.container = false
	return b
}

// Named sets the name recorded in the HFST3 header.
func (b *FSTBuilder) Named(name string) *FSTBuilder {
	b.name = name
	return b
}

// Symbol declares an input symbol that no arc uses.
func (b *FSTBuilder) Symbol(s string) *FSTBuilder {
	b.declared = append(b.declared, s)
	return b
}

// AddPath adds a fresh chain of states from the start state following labels
// and marks its end final. It returns the final state.
func (b *FSTBuilder) AddPath(labels ...Label) int {
	return b.AddWeightedPath(0, labels...)
}

// AddWeightedPath is AddPath with a final weight.
func (b *FSTBuilder) AddWeightedPath(w float32, labels ...Label) int {
	cur := 0
	for _, l := range labels {
		next := b.State()
		b.Arc(cur, next, l.In, l.Out)
		cur = next
	}
	b.FinalWeight(cur, w)
	return cur
}

func isEpsilon(s string) bool {
	return s == "" || s == epsilonName
}

func isFlag(s string) bool {
	return len(s) >= 5 && s[0] == '@' && s[2] == '.' && s[len(s)-1] == '@'
}

// alphabet returns the symbol table and the input symbol count.
// Input symbols come first in order of appearance, then output-only symbols.
func (b *FSTBuilder) alphabet() ([]string, int, map[string]uint16) {
	symbols := []string{epsilonName}
	numbers := map[string]uint16{"": 0, epsilonName: 0}
	add := func(s string) {
		if _, ok := numbers[s]; !ok {
			numbers[s] = uint16(len(symbols))
			symbols = append(symbols, s)
		}
	}
	for _, s := range b.declared {
		add(s)
	}
	for _, st := range b.states {
		for _, a := range st.arcs {
			add(a.label.In)
		}
	}
	inputCount := len(symbols)
	for _, st := range b.states {
		for _, a := range st.arcs {
			add(a.label.Out)
		}
	}
	return symbols, inputCount, numbers
}

// orderedArcs returns epsilon and flag arcs first in insertion order, then the
// rest grouped by input symbol number.
func orderedArcs(arcs []builderArc, numbers map[string]uint16) []builderArc {
	out := make([]builderArc, 0, len(arcs))
	for _, a := range arcs {
		if isEpsilon(a.label.In) || isFlag(a.label.In) {
			out = append(out, a)
		}
	}
	var rest []builderArc
	for _, a := range arcs {
		if !isEpsilon(a.label.In) && !isFlag(a.label.In) {
			rest = append(rest, a)
		}
	}
	slices.SortStableFunc(rest, func(x, y builderArc) int {
		return int(numbers[x.label.In]) - int(numbers[y.label.In])
	})
	return append(out, rest...)
}

type transitionEntry struct {
	in, out uint16
	target  uint32
	weight  float32
}

type indexEntry struct {
	in     uint16
	target uint32
}

// Bytes encodes the transducer.
func (b *FSTBuilder) Bytes() []byte {
	return b.Image().Data
}

// Image encodes the transducer and reports where its tables start.
func (b *FSTBuilder) Image() Image {
	symbols, inputCount, numbers := b.alphabet()

	// Pass 1: addresses.
	address := make([]uint32, len(b.states))
	nIdx, nTr := 0, 0
	for i, st := range b.states {
		if st.transition {
			address[i] = tts + uint32(nTr)
			nTr += 2 + len(st.arcs)
			continue
		}
		address[i] = uint32(nIdx)
		nIdx += 1 + inputCount
		if len(st.arcs) > 0 {
			nTr += len(st.arcs) + 1
		}
	}

	// Pass 2: tables.
	indices := make([]indexEntry, nIdx)
	for i := range indices {
		indices[i] = indexEntry{in: noSymbol, target: noTableIndex}
	}
	transitions := make([]transitionEntry, 0, nTr)
	terminator := transitionEntry{in: noSymbol, out: noSymbol, target: noTableIndex}
	arcCount := 0

	for i, st := range b.states {
		arcs := orderedArcs(st.arcs, numbers)
		arcCount += len(arcs)

		if st.transition {
			slot := terminator
			if st.final {
				slot = transitionEntry{in: noSymbol, out: noSymbol, target: 1, weight: st.weight}
			}
			transitions = append(transitions, slot)
		} else {
			base := address[i]
			if st.final {
				target := uint32(1)
				if b.weighted {
					target = math.Float32bits(st.weight)
				}
				indices[base] = indexEntry{in: noSymbol, target: target}
			}
		}

		for j, a := range arcs {
			in := numbers[a.label.In]
			group := in
			if isFlag(a.label.In) {
				group = 0
			}
			if !st.transition && (j == 0 || groupOf(arcs[j-1], numbers) != group) {
				indices[address[i]+1+uint32(group)] = indexEntry{in: group, target: tts + uint32(len(transitions))}
			}
			transitions = append(transitions, transitionEntry{
				in:     in,
				out:    numbers[a.label.Out],
				target: address[a.target],
				weight: a.weight,
			})
		}
		if st.transition || len(arcs) > 0 {
			transitions = append(transitions, terminator)
		}
	}

	var buf bytes.Buffer
	if b.container {
		typ := "HFST_OL"
		if b.weighted {
			typ = "HFST_OLW"
		}
		body := strings.Join([]string{"version", "3.3", "type", typ, "name", b.name}, "\x00") + "\x00"
		buf.WriteString("HFST\x00")
		le16(&buf, uint16(len(body)))
		buf.WriteByte(0)
		buf.WriteString(body)
	}

	le16(&buf, uint16(inputCount))
	le16(&buf, uint16(len(symbols)))
	le32(&buf, uint32(len(indices)))
	le32(&buf, uint32(len(transitions)))
	le32(&buf, uint32(len(b.states)))
	le32(&buf, uint32(arcCount))
	for p := 0; p < 9; p++ {
		if p == 0 && b.weighted {
			le32(&buf, 1)
		} else {
			le32(&buf, 0)
		}
	}

	for _, s := range symbols {
		buf.WriteString(s)
		buf.WriteByte(0)
	}

	img := Image{IndexOffset: buf.Len(), TransitionSize: 8}
	for _, e := range indices {
		le16(&buf, e.in)
		le32(&buf, e.target)
	}
	img.TransitionOffset = buf.Len()
	if b.weighted {
		img.TransitionSize = 12
	}
	for _, t := range transitions {
		le16(&buf, t.in)
		le16(&buf, t.out)
		le32(&buf, t.target)
		if b.weighted {
			le32(&buf, math.Float32bits(t.weight))
		}
	}
	img.Data = buf.Bytes()
	return img
}

func groupOf(a builderArc, numbers map[string]uint16) uint16 {
	if isFlag(a.label.In) {
		return 0
	}
	return numbers[a.label.In]
}

func le16(buf *bytes.Buffer, v uint16) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func le32(buf *bytes.Buffer, v uint32) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}
