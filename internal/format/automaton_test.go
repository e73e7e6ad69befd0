package format_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hfstol/internal/format"
	"github.com/aretw0/hfstol/internal/testutils"
	"github.com/aretw0/hfstol/pkg/domain"
)

func TestParse_Fixture(t *testing.T) {
	a, err := format.Parse(testutils.CreeFixture().Bytes())
	require.NoError(t, err)

	assert.False(t, a.Weighted())
	assert.Equal(t, format.TypeUnweighted, a.Header.Type())
	assert.Equal(t, "crk-analyser", a.Header.Container["name"])
	assert.Equal(t, format.EpsilonName, a.Alphabet.Raw[0])
	assert.Equal(t, "", a.Alphabet.Symbols[0])
	assert.Equal(t, int(a.Header.SymbolCount), a.Alphabet.Len())
	assert.Len(t, a.Indices, int(a.Header.IndexTableSize))
	assert.Len(t, a.Transitions, int(a.Header.TransitionTableSize))

	sym, ok := a.Alphabet.Lookup("+3SgO")
	require.True(t, ok)
	assert.GreaterOrEqual(t, int(sym), a.Alphabet.InputCount, "tags only appear on the output side")

	final, _ := a.IndexFinal(0)
	assert.False(t, final, "start state is not final")

	props := a.Header.PropertyMap()
	assert.Equal(t, "false", props["weighted"])
	assert.Equal(t, "HFST_OL", props["type"])
}

func TestParse_Headerless(t *testing.T) {
	b := testutils.NewFSTBuilder().WithoutContainer()
	b.AddPath(testutils.Chars("ab")...)

	a, err := format.Parse(b.Bytes())
	require.NoError(t, err)
	assert.Nil(t, a.Header.Container)
	assert.Equal(t, format.TypeUnweighted, a.Header.Type())
}

func TestParse_Weighted(t *testing.T) {
	b := testutils.NewFSTBuilder().Weighted()
	s := b.State()
	b.WeightedArc(0, s, "a", "b", 1.5)
	b.FinalWeight(s, 0.25)
	b.AsTransitionState(s)

	a, err := format.Parse(b.Bytes())
	require.NoError(t, err)
	assert.True(t, a.Weighted())
	assert.Equal(t, format.TypeWeighted, a.Header.Type())

	var weights []float32
	for _, tr := range a.Transitions {
		if tr.Input != format.NoSymbol {
			weights = append(weights, tr.Weight)
		}
	}
	assert.Equal(t, []float32{1.5}, weights)
}

func TestParse_Flags(t *testing.T) {
	b := testutils.NewFSTBuilder()
	b.AddPath(
		testutils.Flag("@P.CASE.NOM@"),
		testutils.Flag("@R.CASE@"),
		testutils.Flag("@C.CASE@"),
		testutils.Flag("@U.NUM.SG@"),
		testutils.Pair("a", "a"),
	)
	b.Symbol("@X.not.a.flag@")

	a, err := format.Parse(b.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 4, a.Alphabet.FlagCount)
	assert.ElementsMatch(t, []string{"CASE", "NUM"}, a.Alphabet.Features)

	p, _ := a.Alphabet.Lookup("@P.CASE.NOM@")
	require.True(t, a.Alphabet.IsFlag(p))
	assert.Equal(t, format.FlagPositiveSet, a.Alphabet.Flags[p].Op)
	assert.Equal(t, "", a.Alphabet.Symbols[p])

	r, _ := a.Alphabet.Lookup("@R.CASE@")
	assert.Equal(t, int16(0), a.Alphabet.Flags[r].Value)

	bogus, ok := a.Alphabet.Lookup("@X.not.a.flag@")
	require.True(t, ok)
	assert.False(t, a.Alphabet.IsFlag(bogus), "malformed flags are ordinary symbols")
	assert.Equal(t, "@X.not.a.flag@", a.Alphabet.Symbols[bogus])
}

func TestParse_SpecialSymbols(t *testing.T) {
	b := testutils.NewFSTBuilder()
	b.AddPath(testutils.Pair(format.IdentityName, format.IdentityName))
	b.AddPath(testutils.Pair(format.UnknownName, "?"))

	a, err := format.Parse(b.Bytes())
	require.NoError(t, err)
	assert.NotEqual(t, format.NoSymbol, a.Alphabet.Identity)
	assert.NotEqual(t, format.NoSymbol, a.Alphabet.Unknown)
}

func TestParse_Errors(t *testing.T) {
	valid := testutils.CreeFixture().Image()

	tests := []struct {
		name string
		data func() []byte
		kind error
	}{
		{
			name: "empty file",
			data: func() []byte { return nil },
			kind: domain.ErrFormat,
		},
		{
			name: "garbage",
			data: func() []byte { return []byte("definitely not a transducer") },
			kind: domain.ErrFormat,
		},
		{
			name: "truncated tables",
			data: func() []byte { return valid.Data[:len(valid.Data)-3] },
			kind: domain.ErrTruncated,
		},
		{
			name: "truncated header after container",
			data: func() []byte { return valid.Data[:40] },
			kind: domain.ErrTruncated,
		},
		{
			name: "unsupported container type",
			data: func() []byte {
				data := clone(valid.Data)
				copy(data[bytesIndex(data, "HFST_OL"):], "HFST_XX")
				return data
			},
			kind: domain.ErrFormat,
		},
		{
			name: "bad property value",
			data: func() []byte {
				data := clone(valid.Data)
				// The first boolean follows the two uint16 and four uint32 counts.
				binary.LittleEndian.PutUint32(data[headerStart(data)+20:], 7)
				return data
			},
			kind: domain.ErrFormat,
		},
		{
			name: "index target out of range",
			data: func() []byte {
				data := clone(valid.Data)
				a, err := format.Parse(valid.Data)
				require.NoError(t, err)
				for i, e := range a.Indices {
					if e.Input != format.NoSymbol {
						off := valid.IndexOffset + i*6 + 2
						binary.LittleEndian.PutUint32(data[off:], format.TransitionTargetTableStart+1_000_000)
						break
					}
				}
				return data
			},
			kind: domain.ErrCorrupt,
		},
		{
			name: "transition symbol out of range",
			data: func() []byte {
				data := clone(valid.Data)
				a, err := format.Parse(valid.Data)
				require.NoError(t, err)
				for i, tr := range a.Transitions {
					if tr.Input != format.NoSymbol {
						off := valid.TransitionOffset + i*valid.TransitionSize + 2
						binary.LittleEndian.PutUint16(data[off:], 5000)
						break
					}
				}
				return data
			},
			kind: domain.ErrCorrupt,
		},
		{
			name: "transition target out of range",
			data: func() []byte {
				data := clone(valid.Data)
				a, err := format.Parse(valid.Data)
				require.NoError(t, err)
				for i, tr := range a.Transitions {
					if tr.Input != format.NoSymbol {
						off := valid.TransitionOffset + i*valid.TransitionSize + 4
						binary.LittleEndian.PutUint32(data[off:], 1_000_000)
						break
					}
				}
				return data
			},
			kind: domain.ErrCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := format.Parse(tt.data())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var le *domain.LoadError
			require.ErrorAs(t, err, &le)
			assert.GreaterOrEqual(t, le.Offset, 0)
		})
	}
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}

func bytesIndex(data []byte, s string) int {
	for i := 0; i+len(s) <= len(data); i++ {
		if string(data[i:i+len(s)]) == s {
			return i
		}
	}
	return -1
}

// headerStart skips the HFST3 container.
func headerStart(data []byte) int {
	length := int(binary.LittleEndian.Uint16(data[5:]))
	return 5 + 2 + 1 + length
}
