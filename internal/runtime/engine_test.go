package runtime_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hfstol/internal/format"
	"github.com/aretw0/hfstol/internal/runtime"
	"github.com/aretw0/hfstol/internal/testutils"
	"github.com/aretw0/hfstol/pkg/domain"
)

func newEngine(t *testing.T, b *testutils.FSTBuilder, opts runtime.Options) *runtime.Engine {
	t.Helper()
	a, err := format.Parse(b.Bytes())
	require.NoError(t, err)
	return runtime.NewEngine(a, opts)
}

func lookupStrings(t *testing.T, e *runtime.Engine, input string) []string {
	t.Helper()
	res, err := e.Lookup(context.Background(), input)
	require.NoError(t, err)
	return res.Strings()
}

func TestEngine_Cree(t *testing.T) {
	layouts := map[string]func() *testutils.FSTBuilder{
		"index states":      testutils.CreeFixture,
		"transition states": func() *testutils.FSTBuilder { return testutils.CreeFixture().AllTransitionStates() },
	}

	for name, build := range layouts {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t, build(), runtime.Options{})

			assert.Equal(t, []string{"atim+N+A+Sg", "atimêw+V+TA+Imp+Imm+2Sg+3SgO"}, lookupStrings(t, e, "atim"))
			assert.Equal(t, []string{"itwêwin+N+I+Pl"}, lookupStrings(t, e, "itwêwina"))
			assert.Equal(t, []string{"PV/ki+atimêw+V+TA+Ind+4Sg/Pl+3SgO"}, lookupStrings(t, e, "kî-atimik"))

			res, err := e.Lookup(context.Background(), "atim")
			require.NoError(t, err)
			assert.Equal(t, [][]string{
				{"a", "t", "i", "m", "+N", "+A", "+Sg"},
				{"a", "t", "i", "m", "ê", "w", "+V", "+TA", "+Imp", "+Imm", "+2Sg", "+3SgO"},
			}, res.SymbolSequences())
		})
	}
}

func TestEngine_NoAnalyses(t *testing.T) {
	e := newEngine(t, testutils.CreeFixture(), runtime.Options{})

	for _, input := range []string{"avocado", "", "ati", "atimm"} {
		t.Run(input, func(t *testing.T) {
			res, err := e.Lookup(context.Background(), input)
			require.NoError(t, err)
			assert.NotNil(t, res)
			assert.Empty(t, res)
		})
	}
}

func TestEngine_InvalidUTF8(t *testing.T) {
	e := newEngine(t, testutils.CreeFixture(), runtime.Options{})
	_, err := e.Lookup(context.Background(), "at\xffim")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_EpsilonCycleTerminates(t *testing.T) {
	b := testutils.NewFSTBuilder()
	s1 := b.State()
	b.Arc(0, s1, "", "x")
	b.Arc(s1, 0, "", "y")
	b.Final(0)

	e := newEngine(t, b, runtime.Options{})
	assert.Equal(t, []string{""}, lookupStrings(t, e, ""))
	assert.Empty(t, lookupStrings(t, e, "a"))
}

func TestEngine_EpsilonCycleWithConsumption(t *testing.T) {
	b := testutils.NewFSTBuilder()
	s1 := b.State()
	b.Arc(0, s1, "", "")
	b.Arc(s1, 0, "", "")
	b.Arc(s1, s1, "a", "b")
	b.Final(s1)
	b.AsTransitionState(s1)

	e := newEngine(t, b, runtime.Options{})
	assert.Equal(t, []string{"bbb"}, lookupStrings(t, e, "aaa"))
}

func TestEngine_SelfLoop(t *testing.T) {
	b := testutils.NewFSTBuilder()
	b.Arc(0, 0, "a", "a")
	b.Final(0)

	e := newEngine(t, b, runtime.Options{})
	assert.Equal(t, []string{"aaaa"}, lookupStrings(t, e, "aaaa"))
}

func TestEngine_EpsilonAndFlagSelfLoops(t *testing.T) {
	build := func() *testutils.FSTBuilder {
		b := testutils.NewFSTBuilder()
		s1 := b.State()
		b.Arc(0, 0, "", "e")
		b.Arc(0, 0, "@P.F.A@", "@P.F.A@")
		b.Arc(0, s1, "a", "a")
		b.Arc(s1, s1, "", "z")
		b.Arc(s1, s1, "@U.F.A@", "@U.F.A@")
		b.Final(s1)
		return b
	}
	layouts := map[string]func() *testutils.FSTBuilder{
		"index states":      build,
		"transition states": func() *testutils.FSTBuilder { return build().AllTransitionStates() },
	}

	for name, build := range layouts {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t, build(), runtime.Options{})
			assert.Equal(t, []string{"a"}, lookupStrings(t, e, "a"))
			assert.Empty(t, lookupStrings(t, e, ""))
			assert.Empty(t, lookupStrings(t, e, "aa"))
		})
	}
}

func TestEngine_FlagCycleTerminates(t *testing.T) {
	build := func() *testutils.FSTBuilder {
		b := testutils.NewFSTBuilder()
		s1 := b.State()
		s2 := b.State()
		b.Arc(0, s1, "@P.F.A@", "@P.F.A@")
		b.Arc(s1, 0, "@P.F.B@", "@P.F.B@")
		b.Arc(s1, s2, "a", "x")
		b.Arc(0, s2, "a", "y")
		b.Final(s2)
		return b
	}
	layouts := map[string]func() *testutils.FSTBuilder{
		"index states":      build,
		"transition states": func() *testutils.FSTBuilder { return build().AllTransitionStates() },
	}

	for name, build := range layouts {
		t.Run(name, func(t *testing.T) {
			e := newEngine(t, build(), runtime.Options{})
			assert.ElementsMatch(t, []string{"x", "y"}, lookupStrings(t, e, "a"))
		})
	}
}

func TestEngine_Budget(t *testing.T) {
	b := testutils.NewFSTBuilder()
	b.Arc(0, 0, "a", "a")
	b.Final(0)

	e := newEngine(t, b, runtime.Options{MaxSteps: 3})
	_, err := e.Lookup(context.Background(), "aaaaaa")
	assert.ErrorIs(t, err, domain.ErrBudgetExceeded)

	res, err := e.Lookup(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res.Strings())
}

func TestEngine_ContextCancelled(t *testing.T) {
	b := testutils.NewFSTBuilder()
	b.Arc(0, 0, "a", "a")
	b.Final(0)
	e := newEngine(t, b, runtime.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Lookup(ctx, strings.Repeat("a", 5000))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Flags(t *testing.T) {
	tests := []struct {
		name  string
		paths [][]testutils.Label
		input string
		want  []string
	}{
		{
			name: "require matches positive set",
			paths: [][]testutils.Label{
				{testutils.Flag("@P.CASE.NOM@"), testutils.Pair("a", "a"), testutils.Flag("@R.CASE.NOM@"), testutils.Pair("", "+Nom")},
				{testutils.Flag("@P.CASE.ACC@"), testutils.Pair("a", "a"), testutils.Flag("@R.CASE.NOM@"), testutils.Pair("", "+Bad")},
			},
			input: "a",
			want:  []string{"a+Nom"},
		},
		{
			name: "require without value needs any value",
			paths: [][]testutils.Label{
				{testutils.Flag("@R.CASE@"), testutils.Pair("a", "bad")},
				{testutils.Flag("@P.CASE.X@"), testutils.Flag("@R.CASE@"), testutils.Pair("a", "ok")},
			},
			input: "a",
			want:  []string{"ok"},
		},
		{
			name: "disallow",
			paths: [][]testutils.Label{
				{testutils.Flag("@D.CASE@"), testutils.Pair("a", "unset")},
				{testutils.Flag("@P.CASE.X@"), testutils.Flag("@D.CASE@"), testutils.Pair("a", "bad")},
				{testutils.Flag("@P.CASE.X@"), testutils.Flag("@D.CASE.Y@"), testutils.Pair("a", "other")},
				{testutils.Flag("@P.CASE.Y@"), testutils.Flag("@D.CASE.Y@"), testutils.Pair("a", "bad")},
			},
			input: "a",
			want:  []string{"unset", "other"},
		},
		{
			name: "clear",
			paths: [][]testutils.Label{
				{testutils.Flag("@P.CASE.X@"), testutils.Flag("@C.CASE@"), testutils.Flag("@D.CASE@"), testutils.Pair("a", "cleared")},
			},
			input: "a",
			want:  []string{"cleared"},
		},
		{
			name: "unify",
			paths: [][]testutils.Label{
				{testutils.Flag("@U.NUM.SG@"), testutils.Flag("@U.NUM.SG@"), testutils.Pair("a", "same")},
				{testutils.Flag("@U.NUM.SG@"), testutils.Flag("@U.NUM.PL@"), testutils.Pair("a", "bad")},
				{testutils.Flag("@N.NUM.SG@"), testutils.Flag("@U.NUM.PL@"), testutils.Pair("a", "negated")},
				{testutils.Flag("@N.NUM.SG@"), testutils.Flag("@U.NUM.SG@"), testutils.Pair("a", "bad")},
			},
			input: "a",
			want:  []string{"same", "negated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutils.NewFSTBuilder()
			for _, p := range tt.paths {
				b.AddPath(p...)
			}
			e := newEngine(t, b, runtime.Options{})
			assert.Equal(t, tt.want, lookupStrings(t, e, tt.input))
		})
	}
}

func TestEngine_FlagsDoNotLeakBetweenBranches(t *testing.T) {
	b := testutils.NewFSTBuilder()

	s1 := b.State()
	s2 := b.State()
	b.Arc(0, s1, "@P.F.A@", "@P.F.A@")
	b.Arc(s1, s2, "a", "x")
	b.Final(s2)

	s3 := b.State()
	s4 := b.State()
	s5 := b.State()
	b.Arc(0, s3, "", "")
	b.Arc(s3, s4, "@R.F.A@", "@R.F.A@")
	b.Arc(s4, s5, "a", "y")
	b.Final(s5)

	e := newEngine(t, b, runtime.Options{})
	assert.Equal(t, []string{"x"}, lookupStrings(t, e, "a"))
}

func TestEngine_IdentityAndUnknown(t *testing.T) {
	b := testutils.NewFSTBuilder()
	b.AddPath(testutils.Chars("a")...)
	b.AddPath(testutils.Pair(format.IdentityName, format.IdentityName), testutils.Pair("", "+Id"))
	b.AddPath(testutils.Pair(format.UnknownName, format.UnknownName), testutils.Pair("", "+Unk"))
	b.AddPath(testutils.Pair(format.UnknownName, "?"))

	e := newEngine(t, b, runtime.Options{})

	assert.Equal(t, []string{"z+Id", "z+Unk", "?"}, lookupStrings(t, e, "z"))
	assert.Equal(t, []string{"a"}, lookupStrings(t, e, "a"), "known symbols do not match identity")
	assert.Equal(t, []string{"ŋ+Id", "ŋ+Unk", "?"}, lookupStrings(t, e, "ŋ"))
	assert.Empty(t, lookupStrings(t, e, "zz"))
}

func TestEngine_LongestMatchTokenization(t *testing.T) {
	b := testutils.NewFSTBuilder()
	b.AddPath(testutils.Pair("ch", "CH"))
	b.AddPath(testutils.Chars("ch")...)
	e := newEngine(t, b, runtime.Options{})

	assert.Equal(t, []string{"CH"}, lookupStrings(t, e, "ch"))

	tokens, err := e.Tokenize("chc")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "ch", tokens[0].Text)
	assert.Equal(t, "c", tokens[1].Text)
	assert.True(t, tokens[1].Known)

	tokens, err = e.Tokenize("x")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.False(t, tokens[0].Known)
}

func TestEngine_DuplicatesCollapse(t *testing.T) {
	b := testutils.NewFSTBuilder()
	b.AddPath(testutils.Pair("a", "x"), testutils.Pair("", "y"))
	b.AddPath(testutils.Pair("a", "xy"))
	b.AddPath(testutils.Pair("a", "x"), testutils.Pair("", "y"))

	e := newEngine(t, b, runtime.Options{})
	res, err := e.Lookup(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y"}, {"xy"}}, res.SymbolSequences())
}

func TestEngine_WeightOrdering(t *testing.T) {
	for _, transition := range []bool{false, true} {
		b := testutils.NewFSTBuilder().Weighted()
		s1 := b.State()
		s2 := b.State()
		s3 := b.State()
		b.WeightedArc(0, s1, "a", "x", 2)
		b.WeightedArc(0, s2, "a", "y", 0.5)
		b.WeightedArc(0, s3, "a", "z", 2)
		b.FinalWeight(s1, 0)
		b.FinalWeight(s2, 0.25)
		b.FinalWeight(s3, 0)
		if transition {
			b.AllTransitionStates()
		}

		e := newEngine(t, b, runtime.Options{})
		res, err := e.Lookup(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, []string{"y", "x", "z"}, res.Strings(), "ties keep discovery order")
		assert.InDelta(t, 0.75, res[0].Weight, 1e-6)
		assert.InDelta(t, 2.0, res[1].Weight, 1e-6)
	}
}

func TestEngine_DuplicateKeepsLowestWeight(t *testing.T) {
	b := testutils.NewFSTBuilder().Weighted()
	s1 := b.State()
	s2 := b.State()
	b.WeightedArc(0, s1, "a", "x", 3)
	b.WeightedArc(0, s2, "a", "x", 1)
	b.Final(s1)
	b.Final(s2)

	e := newEngine(t, b, runtime.Options{})
	res, err := e.Lookup(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.InDelta(t, 1.0, res[0].Weight, 1e-6)
}

func TestEngine_ConcurrentLookups(t *testing.T) {
	e := newEngine(t, testutils.CreeFixture(), runtime.Options{})
	want := lookupStrings(t, e, "atim")

	done := make(chan []string)
	for i := 0; i < 16; i++ {
		go func() {
			res, _ := e.Lookup(context.Background(), "atim")
			done <- res.Strings()
		}()
	}
	for i := 0; i < 16; i++ {
		assert.Equal(t, want, <-done)
	}
}

func TestEngine_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("Path", func(t *testing.T) {
		b := testutils.NewFSTBuilder()
		b.AddPath(testutils.Chars("ab")...)
		e := newEngine(t, b, runtime.Options{})

		path, a, err := e.Trace(ctx, "ab")
		require.NoError(t, err)
		require.Len(t, path, 3)
		assert.Equal(t, uint32(0), path[0])
		assert.Equal(t, "ab", a.String())

		final, _ := e.Automaton().Final(path[2])
		assert.True(t, final)
	})

	t.Run("First Analysis", func(t *testing.T) {
		e := newEngine(t, testutils.CreeFixture(), runtime.Options{})

		path, a, err := e.Trace(ctx, "atim")
		require.NoError(t, err)
		assert.NotEmpty(t, path)
		assert.Equal(t, lookupStrings(t, e, "atim")[0], a.String())
	})

	t.Run("Rejected", func(t *testing.T) {
		e := newEngine(t, testutils.CreeFixture(), runtime.Options{})

		path, a, err := e.Trace(ctx, "avocado")
		require.NoError(t, err)
		assert.Nil(t, path)
		assert.Empty(t, a.Symbols)
	})

	t.Run("Budget", func(t *testing.T) {
		b := testutils.NewFSTBuilder()
		b.Arc(0, 0, "a", "a")
		b.Final(0)
		e := newEngine(t, b, runtime.Options{MaxSteps: 3})

		_, _, err := e.Trace(ctx, "aaaaaa")
		assert.ErrorIs(t, err, domain.ErrBudgetExceeded)
	})
}
