package graph

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/hfstol/internal/format"
)

// DefaultMaxStates bounds the rendered part of large transducers.
const DefaultMaxStates = 200

// Overlay marks states to highlight on the graph.
type Overlay struct {
	// Path holds the states of one accepted lookup path, start state first.
	Path []uint32
}

// GenerateMermaid produces a Mermaid flowchart of the states reachable from
// the start state, breadth first, up to maxStates states (0 means DefaultMaxStates).
// It applies semantic styling:
// - Start: ((Circle))
// - Final: (((Double circle))), with the final weight when weighted
// - Transition-table state: [/Parallelogram/]
// - Default: [Rectangle]
// Arcs are labelled input:output; flag diacritics use dotted arrows.
func GenerateMermaid(a *format.Automaton, overlay *Overlay, maxStates int) string {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	seen := map[uint32]bool{0: true}
	queue := []uint32{0}
	truncated := false

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		sb.WriteString(node(a, state))

		for _, t := range a.Arcs(state) {
			if !seen[t.Target] {
				if len(seen) >= maxStates {
					truncated = true
					continue
				}
				seen[t.Target] = true
				queue = append(queue, t.Target)
			}

			arrow := "-->"
			if a.Alphabet.IsFlag(t.Input) {
				arrow = "-.->"
			}
			fmt.Fprintf(&sb, "    %s %s|\"%s\"| %s\n", stateID(state), arrow, arcLabel(a, t), stateID(t.Target))
		}
	}

	if truncated {
		fmt.Fprintf(&sb, "    %%%% truncated after %d states\n", maxStates)
	}

	// Apply Overlay Styles
	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[uint32]bool)
		last := overlay.Path[len(overlay.Path)-1]
		for _, s := range overlay.Path[:len(overlay.Path)-1] {
			if !visited[s] && seen[s] {
				visited[s] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", stateID(s))
			}
		}
		if seen[last] {
			fmt.Fprintf(&sb, "    class %s current;\n", stateID(last))
		}
	}

	return sb.String()
}

func node(a *format.Automaton, state uint32) string {
	id := stateID(state)
	label := id

	opener, closer := "[", "]"
	final, w := a.Final(state)
	switch {
	case state == 0:
		opener, closer = "((", "))"
	case format.IsTransitionState(state):
		opener, closer = "[/", "/]"
	}
	if final {
		opener, closer = "(((", ")))"
		if a.Weighted() && w != 0 {
			label = fmt.Sprintf("%s <br/> %s", id, formatWeight(w))
		}
	}
	return fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer)
}

// stateID distinguishes the two tables: i12 is index slot 12, t7 is transition slot 7.
func stateID(state uint32) string {
	if format.IsTransitionState(state) {
		return fmt.Sprintf("t%d", state-format.TransitionTargetTableStart)
	}
	return fmt.Sprintf("i%d", state)
}

func arcLabel(a *format.Automaton, t format.Transition) string {
	in := symbolLabel(a, t.Input)
	label := in
	if t.Output != t.Input {
		label = in + ":" + symbolLabel(a, t.Output)
	}
	if a.Weighted() && t.Weight != 0 {
		label += "/" + formatWeight(t.Weight)
	}
	return label
}

func symbolLabel(a *format.Automaton, s format.SymbolNumber) string {
	if s == format.Epsilon {
		return "ε"
	}
	// Escape double quotes for the Mermaid label
	return strings.ReplaceAll(a.Alphabet.Raw[s], "\"", "#quot;")
}

func formatWeight(w float32) string {
	if math.IsInf(float64(w), 1) {
		return "inf"
	}
	return fmt.Sprintf("%g", w)
}
