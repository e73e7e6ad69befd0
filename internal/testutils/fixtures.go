package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreeFixture builds a tiny Plains Cree analyser covering a handful of words:
//
//	atim      → atim+N+A+Sg, atimêw+V+TA+Imp+Imm+2Sg+3SgO
//	itwêwina  → itwêwin+N+I+Pl
//	kî-atimik → PV/ki+atimêw+V+TA+Ind+4Sg/Pl+3SgO
func CreeFixture() *FSTBuilder {
	b := NewFSTBuilder().Named("crk-analyser")
	b.AddPath(Seq(Chars("atim"), Out("+N", "+A", "+Sg"))...)
	b.AddPath(Seq(Chars("atim"), Out("ê", "w", "+V", "+TA", "+Imp", "+Imm", "+2Sg", "+3SgO"))...)
	b.AddPath(Seq(Chars("itwêwin"), []Label{Pair("a", "+N")}, Out("+I", "+Pl"))...)
	b.AddPath(Seq(
		[]Label{Pair("k", "PV/ki+"), Pair("î", ""), Pair("-", "")},
		Chars("atim"),
		[]Label{Pair("i", "ê"), Pair("k", "w")},
		Out("+V", "+TA", "+Ind", "+4Sg/Pl", "+3SgO"),
	)...)
	return b
}

// WriteTransducer writes data to a file in a per-test temporary directory and
// returns its path.
func WriteTransducer(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644), "Failed to write transducer fixture")
	return path
}
