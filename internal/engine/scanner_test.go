package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/streamexec/internal/domain/script"
	"github.com/alexisbeaulieu97/streamexec/internal/ports"
)

// fakeAnalyzer judges completeness with a scripted rule: text is complete
// when its double quotes are balanced. Bindings list the identifier after a
// leading "let ". Good enough to exercise the scanner's buffering protocol.
type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(source string) ports.Analysis {
	if strings.Count(source, `"`)%2 != 0 {
		return ports.Analysis{}
	}
	if strings.HasPrefix(source, "//") {
		return ports.Analysis{Complete: true, Empty: true}
	}
	analysis := ports.Analysis{Complete: true}
	if rest, ok := strings.CutPrefix(source, "let "); ok {
		name, _, _ := strings.Cut(rest, " ")
		analysis.Bindings.Variables = []string{strings.TrimRight(name, ";")}
	}
	return analysis
}

func collect(t *testing.T, chunks []string) []script.Statement {
	t.Helper()

	var out []script.Statement
	sc := newBoundaryScanner(fakeAnalyzer{})
	emit := func(stmt script.Statement, _ ports.Analysis) error {
		out = append(out, stmt)
		return nil
	}
	for _, chunk := range chunks {
		require.NoError(t, sc.feed([]byte(chunk), emit))
	}
	incomplete, err := sc.flush(emit)
	require.NoError(t, err)
	require.Nil(t, incomplete)
	return out
}

func TestScannerEmitsAtBoundaries(t *testing.T) {
	t.Parallel()

	stmts := collect(t, []string{"a(1); b(2);"})
	require.Len(t, stmts, 2)
	require.Equal(t, "a(1);", stmts[0].Text)
	require.Equal(t, "b(2);", stmts[1].Text)
}

func TestScannerChunkGranularityIsIrrelevant(t *testing.T) {
	t.Parallel()

	source := "a(1);\nb(2); c(3);"
	whole := collect(t, []string{source})

	var byBytes []string
	for _, c := range source {
		byBytes = append(byBytes, string(c))
	}
	perByte := collect(t, byBytes)

	require.Equal(t, whole, perByte)
}

func TestScannerKeepsBufferingPastEmbeddedTerminator(t *testing.T) {
	t.Parallel()

	stmts := collect(t, []string{`log("a;b");`})
	require.Len(t, stmts, 1)
	require.Equal(t, `log("a;b");`, stmts[0].Text)
}

func TestScannerTracksStatementStartLines(t *testing.T) {
	t.Parallel()

	stmts := collect(t, []string{"a(1);\n\nb(2);\nc(3);"})
	require.Len(t, stmts, 3)
	require.Equal(t, 1, stmts[0].Line)
	require.Equal(t, 3, stmts[1].Line)
	require.Equal(t, 4, stmts[2].Line)
}

func TestScannerStartLineForMultilineStatement(t *testing.T) {
	t.Parallel()

	stmts := collect(t, []string{"a(1);\nb(\n  2\n);"})
	require.Len(t, stmts, 2)
	require.Equal(t, 2, stmts[1].Line)
}

func TestScannerFlushReportsIncompleteResidual(t *testing.T) {
	t.Parallel()

	sc := newBoundaryScanner(fakeAnalyzer{})
	emit := func(script.Statement, ports.Analysis) error {
		t.Fatal("nothing should be emitted")
		return nil
	}
	require.NoError(t, sc.feed([]byte("\n\n"+`log("open`), emit))

	incomplete, err := sc.flush(emit)
	require.NoError(t, err)
	require.NotNil(t, incomplete)
	require.Equal(t, `log("open`, incomplete.Text)
	require.Equal(t, 3, incomplete.Line)
}

func TestScannerFlushExecutesCompleteResidual(t *testing.T) {
	t.Parallel()

	var out []script.Statement
	sc := newBoundaryScanner(fakeAnalyzer{})
	emit := func(stmt script.Statement, _ ports.Analysis) error {
		out = append(out, stmt)
		return nil
	}
	require.NoError(t, sc.feed([]byte("a(1)"), emit))
	require.Empty(t, out)

	incomplete, err := sc.flush(emit)
	require.NoError(t, err)
	require.Nil(t, incomplete)
	require.Len(t, out, 1)
	require.Equal(t, "a(1)", out[0].Text)
}

func TestScannerFlushIgnoresWhitespaceResidual(t *testing.T) {
	t.Parallel()

	sc := newBoundaryScanner(fakeAnalyzer{})
	emit := func(script.Statement, ports.Analysis) error {
		t.Fatal("nothing should be emitted")
		return nil
	}
	require.NoError(t, sc.feed([]byte("  \n\t "), emit))

	incomplete, err := sc.flush(emit)
	require.NoError(t, err)
	require.Nil(t, incomplete)
}

func TestScannerDropsEmptyResidual(t *testing.T) {
	t.Parallel()

	sc := newBoundaryScanner(fakeAnalyzer{})
	emit := func(script.Statement, ports.Analysis) error {
		t.Fatal("nothing should be emitted")
		return nil
	}
	require.NoError(t, sc.feed([]byte("// trailing note;"), emit))

	incomplete, err := sc.flush(emit)
	require.NoError(t, err)
	require.Nil(t, incomplete)
}

func TestScannerBindingsPassThrough(t *testing.T) {
	t.Parallel()

	var got ports.Analysis
	sc := newBoundaryScanner(fakeAnalyzer{})
	emit := func(_ script.Statement, analysis ports.Analysis) error {
		got = analysis
		return nil
	}
	require.NoError(t, sc.feed([]byte("let x = 1;"), emit))
	require.Equal(t, []string{"x"}, got.Bindings.Variables)
}
