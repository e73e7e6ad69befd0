package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hfstol"
	"github.com/aretw0/hfstol/internal/testutils"
	"github.com/aretw0/hfstol/pkg/runner"
)

func newCree(t *testing.T, opts ...hfstol.Option) *hfstol.Transducer {
	t.Helper()
	fst, err := hfstol.OpenBytes("crk", testutils.CreeFixture().Bytes(), opts...)
	require.NoError(t, err)
	return fst
}

func TestRunner_TextOutput(t *testing.T) {
	r := runner.NewRunner(newCree(t))

	var out bytes.Buffer
	err := r.Run(context.Background(), strings.NewReader("atim\r\n\navocado\nitwêwina"), &out)
	require.NoError(t, err)

	want := "atim\tatim+N+A+Sg\t0.000000\n" +
		"atim\tatimêw+V+TA+Imp+Imm+2Sg+3SgO\t0.000000\n" +
		"\n" +
		"avocado\tavocado+?\tinf\n" +
		"\n" +
		"itwêwina\titwêwin+N+I+Pl\t0.000000\n" +
		"\n"
	assert.Equal(t, want, out.String())
}

func TestRunner_JSONOutput(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(newCree(t), runner.WithFormatter(runner.NewJSONFormatter(&out)))

	require.NoError(t, r.Run(context.Background(), strings.NewReader("atim\navocado\n"), nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var rec runner.JSONRecord
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "atim", rec.Input)
	assert.Equal(t, []string{"atim+N+A+Sg", "atimêw+V+TA+Imp+Imm+2Sg+3SgO"}, rec.Strings)
	assert.Len(t, rec.Analyses, 2)

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rec))
	assert.Equal(t, "avocado", rec.Input)
	assert.Empty(t, rec.Strings)
}

func TestRunner_BadWordsDoNotStopTheStream(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(newCree(t, hfstol.WithMaxSteps(2)))

	require.NoError(t, r.Run(context.Background(), strings.NewReader("\xff\natim\n"), &out))
	assert.Equal(t, "\uFFFD\t\uFFFD+?\tinf\n\natim\tatim+?\tinf\n\n", out.String())
}

func TestRunner_PrintsSanitizedWord(t *testing.T) {
	t.Run("Escape Sequence", func(t *testing.T) {
		var out bytes.Buffer
		r := runner.NewRunner(newCree(t))

		require.NoError(t, r.Run(context.Background(), strings.NewReader("\x1b[31mavocado\x1b[0m\n\x1b[1matim\n"), &out))
		assert.Equal(t, "avocado\tavocado+?\tinf\n\n"+
			"atim\tatim+N+A+Sg\t0.000000\n"+
			"atim\tatimêw+V+TA+Imp+Imm+2Sg+3SgO\t0.000000\n\n", out.String())
		assert.NotContains(t, out.String(), "\x1b")
	})

	t.Run("Rejected Word", func(t *testing.T) {
		var out bytes.Buffer
		r := runner.NewRunner(newCree(t))

		require.NoError(t, r.Run(context.Background(), strings.NewReader("\x1b[2Ja\xffb\n"), &out))
		assert.Equal(t, "a\uFFFDb\ta\uFFFDb+?\tinf\n\n", out.String())
	})

	t.Run("JSON Input Field", func(t *testing.T) {
		var out bytes.Buffer
		r := runner.NewRunner(newCree(t), runner.WithFormatter(runner.NewJSONFormatter(&out)))

		require.NoError(t, r.Run(context.Background(), strings.NewReader("at\x07im\n"), nil))
		var rec runner.JSONRecord
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &rec))
		assert.Equal(t, "atim", rec.Input)
		assert.Len(t, rec.Strings, 2)
	})
}

func TestRunner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.NewRunner(newCree(t))
	err := r.Run(ctx, strings.NewReader("atim\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "0.000000", runner.FormatWeight(0))
	assert.Equal(t, "1.500000", runner.FormatWeight(1.5))
}

func TestTextFormatter_Decorate(t *testing.T) {
	var out bytes.Buffer
	f := runner.NewTextFormatter(&out)
	f.Decorate = strings.ToUpper

	r := runner.NewRunner(newCree(t), runner.WithFormatter(f), runner.WithFlushEachWord(true))
	require.NoError(t, r.Run(context.Background(), strings.NewReader("itwêwina\n"), nil))
	assert.Equal(t, "itwêwina\tITWÊWIN+N+I+PL\t0.000000\n\n", out.String())
}
