package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hfstol/internal/format"
	"github.com/aretw0/hfstol/internal/testutils"
)

func TestAutomaton_Arcs(t *testing.T) {
	b := testutils.NewFSTBuilder()
	s1, s2, s3 := b.State(), b.State(), b.State()
	b.Arc(0, s2, "@P.CASE.OBJ@", "@P.CASE.OBJ@").
		Arc(0, s3, "", "x").
		Arc(0, s1, "a", "b").
		Arc(s1, s3, "c", "c").
		Final(s1).
		Final(s3).
		AsTransitionState(s1)

	a, err := format.Parse(b.Bytes())
	require.NoError(t, err)
	raw := func(s format.SymbolNumber) string { return a.Alphabet.Raw[s] }

	start := a.Arcs(0)
	require.Len(t, start, 3)
	assert.Equal(t, "@P.CASE.OBJ@", raw(start[0].Input), "flags and epsilons come first")
	assert.Equal(t, format.Epsilon, start[1].Input)
	assert.Equal(t, "x", raw(start[1].Output))
	assert.Equal(t, "a", raw(start[2].Input))
	assert.Equal(t, "b", raw(start[2].Output))

	final, _ := a.Final(0)
	assert.False(t, final)

	next := start[2].Target
	assert.True(t, format.IsTransitionState(next))
	final, _ = a.Final(next)
	assert.True(t, final)

	arcs := a.Arcs(next)
	require.Len(t, arcs, 1)
	assert.Equal(t, "c", raw(arcs[0].Input))

	end := arcs[0].Target
	final, _ = a.Final(end)
	assert.True(t, final)
	assert.Empty(t, a.Arcs(end))
}
