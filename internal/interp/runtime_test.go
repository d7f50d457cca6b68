package interp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/streamexec/internal/ports"
)

func newTestScope(t *testing.T, initial map[string]any) (ports.Scope, *strings.Builder) {
	t.Helper()

	scope, err := NewRuntime(Options{}).NewScope(initial)
	require.NoError(t, err)

	logs := &strings.Builder{}
	scope.SetSink(func(text string) { logs.WriteString(text) })
	return scope, logs
}

func exec(t *testing.T, scope ports.Scope, source string, hoist ...string) map[string]any {
	t.Helper()

	values, err := scope.Exec(context.Background(), ports.ExecUnit{Source: source, Hoist: hoist})
	require.NoError(t, err)
	return values
}

func TestExecReturnsHoistValues(t *testing.T) {
	t.Parallel()

	scope, _ := newTestScope(t, nil)
	values := exec(t, scope, "const x = 1; const y = x + 2;", "x", "y")

	require.Equal(t, float64(1), values["x"])
	require.Equal(t, float64(3), values["y"])
}

func TestExecLeaksNothingWithoutHoist(t *testing.T) {
	t.Parallel()

	scope, _ := newTestScope(t, nil)
	exec(t, scope, "const hidden = 41;")

	_, ok := scope.Snapshot()["hidden"]
	require.False(t, ok)
}

func TestBindMakesValueVisible(t *testing.T) {
	t.Parallel()

	scope, logs := newTestScope(t, nil)
	scope.Bind("x", float64(1))

	exec(t, scope, "console.log(x);")
	require.Equal(t, "1\n", logs.String())
}

func TestInitialBindingsAreVisible(t *testing.T) {
	t.Parallel()

	scope, logs := newTestScope(t, map[string]any{"greeting": "hello"})
	exec(t, scope, "console.log(greeting);")

	require.Equal(t, "hello\n", logs.String())
}

func TestConsoleLogFormatting(t *testing.T) {
	t.Parallel()

	scope, logs := newTestScope(t, nil)
	exec(t, scope, `console.log(1, "two", true, null, [1, 2]);`)

	require.Equal(t, "1 two true null [1, 2]\n", logs.String())
}

func TestThrowCarriesErrorMessage(t *testing.T) {
	t.Parallel()

	scope, _ := newTestScope(t, nil)
	_, err := scope.Exec(context.Background(), ports.ExecUnit{Source: `throw new Error("e");`})

	var thrown *Thrown
	require.ErrorAs(t, err, &thrown)
	require.Equal(t, "e", thrown.Message())
}

func TestThrowNonErrorValueStringifies(t *testing.T) {
	t.Parallel()

	scope, _ := newTestScope(t, nil)
	_, err := scope.Exec(context.Background(), ports.ExecUnit{Source: `throw 42;`})

	var thrown *Thrown
	require.ErrorAs(t, err, &thrown)
	require.Equal(t, "", thrown.Message())
	require.EqualError(t, thrown, "42")
}

func TestUndefinedReferenceThrows(t *testing.T) {
	t.Parallel()

	scope, _ := newTestScope(t, nil)
	_, err := scope.Exec(context.Background(), ports.ExecUnit{Source: "missing();"})

	var thrown *Thrown
	require.ErrorAs(t, err, &thrown)
	require.Equal(t, "missing is not defined", thrown.Message())
}

func TestFailingUnitLeaksNoPartialBindings(t *testing.T) {
	t.Parallel()

	scope, _ := newTestScope(t, nil)
	_, err := scope.Exec(context.Background(), ports.ExecUnit{
		Source: "const a = 1, b = boom();",
		Hoist:  []string{"a", "b"},
	})
	require.Error(t, err)

	snapshot := scope.Snapshot()
	_, ok := snapshot["a"]
	require.False(t, ok)
}

func TestAssignmentWithoutDeclPersists(t *testing.T) {
	t.Parallel()

	scope, logs := newTestScope(t, nil)
	exec(t, scope, "counter = 10;")
	exec(t, scope, "counter += 5; console.log(counter);")

	require.Equal(t, "15\n", logs.String())
	require.Equal(t, float64(15), scope.Snapshot()["counter"])
}

func TestFunctionsAndClosures(t *testing.T) {
	t.Parallel()

	scope, logs := newTestScope(t, nil)
	values := exec(t, scope,
		"function makeAdder(n) { return (m) => n + m; } const add2 = makeAdder(2);",
		"makeAdder", "add2")
	for name, value := range values {
		scope.Bind(name, value)
	}
	exec(t, scope, "console.log(add2(40));")

	require.Equal(t, "42\n", logs.String())
}

func TestClassInstancesAndMethods(t *testing.T) {
	t.Parallel()

	scope, logs := newTestScope(t, nil)
	values := exec(t, scope, `
		class Counter {
			constructor(start) { this.value = start; }
			bump() { this.value += 1; return this.value; }
		}
	`, "Counter")
	for name, value := range values {
		scope.Bind(name, value)
	}
	exec(t, scope, "const c = new Counter(5); c.bump(); console.log(c.bump());")

	require.Equal(t, "7\n", logs.String())
}

func TestTemplateInterpolation(t *testing.T) {
	t.Parallel()

	scope, logs := newTestScope(t, nil)
	exec(t, scope, "const name = \"world\"; console.log(`hello ${name} ${1 + 1}`);")

	require.Equal(t, "hello world 2\n", logs.String())
}

func TestWhileLoop(t *testing.T) {
	t.Parallel()

	scope, logs := newTestScope(t, nil)
	exec(t, scope, "let n = 0; while (n < 3) { n += 1; } console.log(n);")

	require.Equal(t, "3\n", logs.String())
}

func TestSleepHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	scope, _ := newTestScope(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := scope.Exec(ctx, ports.ExecUnit{Source: "await sleep(60000);"})
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sleep did not unwind on cancellation")
	}
}

func TestSnapshotIsLiveView(t *testing.T) {
	t.Parallel()

	scope, _ := newTestScope(t, nil)
	snapshot := scope.Snapshot()

	scope.Bind("later", "value")
	require.Equal(t, "value", snapshot["later"])
}

func TestComponentTemplatesExtension(t *testing.T) {
	t.Parallel()

	scope, err := NewRuntime(Options{ComponentTemplates: true}).NewScope(nil)
	require.NoError(t, err)

	logs := &strings.Builder{}
	scope.SetSink(func(text string) { logs.WriteString(text) })

	values, err := scope.Exec(context.Background(), ports.ExecUnit{
		Source: "component Greeting(name) { return `Hi ${name}`; }",
		Hoist:  []string{"Greeting"},
	})
	require.NoError(t, err)
	scope.Bind("Greeting", values["Greeting"])

	_, err = scope.Exec(context.Background(), ports.ExecUnit{Source: `console.log(Greeting("dev"));`})
	require.NoError(t, err)
	require.Equal(t, "Hi dev\n", logs.String())
}
