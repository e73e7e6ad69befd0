package runtime

import "github.com/aretw0/hfstol/internal/format"

// flagState holds the current value of each flag feature along one path.
// 0 is neutral, a positive value was set with P or U, a negative value
// records an N (negative set) of that value.
//
// A flagState is never mutated once shared: apply returns a fresh copy when
// the operation changes a value, so sibling branches cannot observe each other.
type flagState []int16

// apply evaluates f against s. It returns the state for the branch taking the
// flag transition and whether the transition is allowed.
func (s flagState) apply(f *format.FlagDiacritic) (flagState, bool) {
	cur := s[f.Feature]
	switch f.Op {
	case format.FlagPositiveSet:
		return s.with(f.Feature, f.Value), true
	case format.FlagNegativeSet:
		return s.with(f.Feature, -f.Value), true
	case format.FlagRequire:
		if f.Value == 0 {
			return s, cur != 0
		}
		return s, cur == f.Value
	case format.FlagDisallow:
		if f.Value == 0 {
			return s, cur == 0
		}
		return s, cur != f.Value
	case format.FlagClear:
		return s.with(f.Feature, 0), true
	case format.FlagUnify:
		if cur == 0 || cur == f.Value || (cur < 0 && -cur != f.Value) {
			return s.with(f.Feature, f.Value), true
		}
		return s, false
	}
	panic("runtime: unknown flag diacritic operation " + string(f.Op))
}

func (s flagState) with(feature int, value int16) flagState {
	if s[feature] == value {
		return s
	}
	next := make(flagState, len(s))
	copy(next, s)
	next[feature] = value
	return next
}
