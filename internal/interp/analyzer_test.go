package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeCompleteStatement(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	analysis := a.Analyze("const x = 1;")

	require.True(t, analysis.Complete)
	require.Equal(t, []string{"x"}, analysis.Bindings.Variables)
}

func TestAnalyzeIncompleteDeclaration(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	require.False(t, a.Analyze("const x =").Complete)
	require.False(t, a.Analyze("const x = ;").Complete)
}

func TestAnalyzeTerminatorInsideString(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})

	// The terminator is part of the string, so the text so far cannot parse.
	require.False(t, a.Analyze(`const s = "a;`).Complete)
	require.True(t, a.Analyze(`const s = "a;b";`).Complete)
}

func TestAnalyzeTerminatorInsideTemplate(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	require.False(t, a.Analyze("const s = `first;").Complete)
	require.True(t, a.Analyze("const s = `first;second`;").Complete)
}

func TestAnalyzeTerminatorInsideComment(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	require.False(t, a.Analyze("const x = 1 /* pause;").Complete)
	require.True(t, a.Analyze("const x = 1 /* pause; */;").Complete)
}

func TestAnalyzeCommentOnlySpanIsEmpty(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})

	analysis := a.Analyze("// just a note;")
	require.True(t, analysis.Complete)
	require.True(t, analysis.Empty)

	analysis = a.Analyze("/* note; */ const x = 1;")
	require.True(t, analysis.Complete)
	require.False(t, analysis.Empty)
}

func TestAnalyzeStrayTerminators(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})

	analysis := a.Analyze(";")
	require.True(t, analysis.Complete)
	require.True(t, analysis.Empty)

	analysis = a.Analyze(";; const x = 1;")
	require.True(t, analysis.Complete)
	require.False(t, analysis.Empty)
	require.Equal(t, []string{"x"}, analysis.Bindings.Variables)
}

func TestAnalyzeUnclosedBlock(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	require.False(t, a.Analyze("function f() { return 1;").Complete)
	require.True(t, a.Analyze("function f() { return 1; }").Complete)
}

func TestAnalyzeMultiStatementSpan(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	analysis := a.Analyze(`const s = "a;b"; const t = 2;`)

	require.True(t, analysis.Complete)
	require.Equal(t, []string{"s", "t"}, analysis.Bindings.Variables)
}

func TestDeclaredNamesTopLevelOnly(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	analysis := a.Analyze(`function outer() { const inner = 1; function nested() {} }`)

	require.True(t, analysis.Complete)
	require.Equal(t, []string{"outer"}, analysis.Bindings.Functions)
	require.Empty(t, analysis.Bindings.Variables)
}

func TestDeclaredNamesDestructuring(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	analysis := a.Analyze(`const {a, b: {c}, d: renamed} = obj, [x, , y] = arr;`)

	require.True(t, analysis.Complete)
	require.Equal(t, []string{"a", "c", "renamed", "x", "y"}, analysis.Bindings.Variables)
}

func TestDeclaredNamesAllForms(t *testing.T) {
	t.Parallel()

	a := NewAnalyzer(Options{})
	analysis := a.Analyze(`const v = 1; function f() {} class C {}`)

	require.True(t, analysis.Complete)
	require.Equal(t, []string{"v"}, analysis.Bindings.Variables)
	require.Equal(t, []string{"f"}, analysis.Bindings.Functions)
	require.Equal(t, []string{"C"}, analysis.Bindings.Classes)
}

func TestComponentRequiresExtension(t *testing.T) {
	t.Parallel()

	source := "component Greeting(name) { return `Hi ${name}`; }"

	base := NewAnalyzer(Options{})
	require.False(t, base.Analyze(source).Complete)

	extended := NewAnalyzer(Options{ComponentTemplates: true})
	analysis := extended.Analyze(source)
	require.True(t, analysis.Complete)
	require.Equal(t, []string{"Greeting"}, analysis.Bindings.Functions)
}
