package format

// IsTransitionState reports whether state addresses the transition table.
func IsTransitionState(state uint32) bool {
	return state >= TransitionTargetTableStart
}

// Final reports whether state is final, with its final weight.
func (a *Automaton) Final(state uint32) (bool, float32) {
	if IsTransitionState(state) {
		return a.TransitionFinal(state - TransitionTargetTableStart)
	}
	return a.IndexFinal(state)
}

// Arcs returns the outgoing transitions of state in table order: epsilon and
// flag arcs first, then arcs by input symbol. Used for inspection; lookups
// walk the tables directly.
func (a *Automaton) Arcs(state uint32) []Transition {
	var arcs []Transition
	if IsTransitionState(state) {
		for j := state - TransitionTargetTableStart + 1; int64(j) < int64(len(a.Transitions)); j++ {
			t := a.Transitions[j]
			if t.Input == NoSymbol {
				break
			}
			arcs = append(arcs, t)
		}
		return arcs
	}

	for sym := 0; sym < a.Alphabet.InputCount; sym++ {
		slot := int64(state) + 1 + int64(sym)
		if slot >= int64(len(a.Indices)) {
			break
		}
		e := a.Indices[slot]
		if e.Input != SymbolNumber(sym) {
			continue
		}
		for j := e.Target - TransitionTargetTableStart; int64(j) < int64(len(a.Transitions)); j++ {
			t := a.Transitions[j]
			if sym == int(Epsilon) {
				if t.Input != Epsilon && !a.Alphabet.IsFlag(t.Input) {
					break
				}
			} else if t.Input != SymbolNumber(sym) {
				break
			}
			arcs = append(arcs, t)
		}
	}
	return arcs
}
