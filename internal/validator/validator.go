// Package validator checks a decoded transducer for structural problems that
// parse-time validation cannot see.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/hfstol/internal/format"
)

// Report summarises a crawl of the states reachable from the start state.
type Report struct {
	Reachable int
	Final     int
	// DeadEnds are reachable non-final states without outgoing arcs.
	DeadEnds []uint32
	// EpsilonCycle is set when some state reaches itself without consuming input.
	EpsilonCycle bool
	// UnsetFeatures are flag features that a require diacritic tests but no
	// diacritic ever sets, so the require can never succeed.
	UnsetFeatures []string
}

// Errors returns the problems that make the transducer useless.
func (r Report) Errors() []string {
	var errs []string
	if r.Final == 0 {
		errs = append(errs, "no final state is reachable: the transducer accepts nothing")
	}
	return errs
}

// Warnings returns the problems lookups survive.
func (r Report) Warnings() []string {
	var warns []string
	if len(r.DeadEnds) > 0 {
		warns = append(warns, fmt.Sprintf("%d dead-end states", len(r.DeadEnds)))
	}
	if r.EpsilonCycle {
		warns = append(warns, "epsilon cycle: lookups rely on the cycle guard")
	}
	for _, f := range r.UnsetFeatures {
		warns = append(warns, fmt.Sprintf("flag feature %q is required but never set", f))
	}
	return warns
}

// Err returns Errors as a single error, nil when there are none.
func (r Report) Err() error {
	errs := r.Errors()
	if len(errs) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return nil
}

// Validate crawls a breadth first from the start state.
func Validate(a *format.Automaton) Report {
	var r Report

	visited := map[uint32]bool{0: true}
	queue := []uint32{0}
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		r.Reachable++

		final, _ := a.Final(state)
		if final {
			r.Final++
		}

		arcs := a.Arcs(state)
		if len(arcs) == 0 && !final {
			r.DeadEnds = append(r.DeadEnds, state)
		}
		for _, t := range arcs {
			if !visited[t.Target] {
				visited[t.Target] = true
				queue = append(queue, t.Target)
			}
		}
	}
	sort.Slice(r.DeadEnds, func(i, j int) bool { return r.DeadEnds[i] < r.DeadEnds[j] })

	r.EpsilonCycle = hasEpsilonCycle(a, visited)
	r.UnsetFeatures = unsetFeatures(a.Alphabet)
	return r
}

func isEpsilonArc(a *format.Automaton, t format.Transition) bool {
	return t.Input == format.Epsilon || a.Alphabet.IsFlag(t.Input)
}

// hasEpsilonCycle runs an iterative three-colour DFS over epsilon and flag arcs.
func hasEpsilonCycle(a *format.Automaton, states map[uint32]bool) bool {
	const (
		white = iota
		grey
		black
	)
	colour := make(map[uint32]int, len(states))

	type frame struct {
		state uint32
		arcs  []format.Transition
	}

	for start := range states {
		if colour[start] != white {
			continue
		}
		colour[start] = grey
		stack := []frame{{start, a.Arcs(start)}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if len(top.arcs) == 0 {
				colour[top.state] = black
				stack = stack[:len(stack)-1]
				continue
			}
			t := top.arcs[0]
			top.arcs = top.arcs[1:]
			if !isEpsilonArc(a, t) {
				continue
			}
			switch colour[t.Target] {
			case grey:
				return true
			case white:
				colour[t.Target] = grey
				stack = append(stack, frame{t.Target, a.Arcs(t.Target)})
			}
		}
	}
	return false
}

func unsetFeatures(alpha *format.Alphabet) []string {
	set := make(map[int]bool)
	required := make(map[int]bool)
	for _, f := range alpha.Flags {
		if f == nil {
			continue
		}
		switch f.Op {
		case format.FlagPositiveSet, format.FlagNegativeSet, format.FlagUnify:
			set[f.Feature] = true
		case format.FlagRequire:
			required[f.Feature] = true
		}
	}

	var names []string
	for feat := range required {
		if !set[feat] {
			names = append(names, alpha.Features[feat])
		}
	}
	sort.Strings(names)
	return names
}
