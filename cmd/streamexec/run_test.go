package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/streamexec/internal/engine"
	"github.com/alexisbeaulieu97/streamexec/internal/interp"
)

func TestValidateRunOptions(t *testing.T) {
	t.Parallel()

	t.Run("returns error without a script or git url", func(t *testing.T) {
		t.Parallel()
		err := validateRunOptions(runOptions{})
		require.Error(t, err)
	})

	t.Run("accepts a script path", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, validateRunOptions(runOptions{ScriptPath: "program.js"}))
	})

	t.Run("accepts stdin marker", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, validateRunOptions(runOptions{ScriptPath: "-"}))
	})

	t.Run("git url requires a path inside the repository", func(t *testing.T) {
		t.Parallel()
		err := validateRunOptions(runOptions{GitURL: "https://example.com/repo.git"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "git-path")
	})

	t.Run("git url and script argument are exclusive", func(t *testing.T) {
		t.Parallel()
		err := validateRunOptions(runOptions{
			GitURL:     "https://example.com/repo.git",
			GitPath:    "main.js",
			ScriptPath: "local.js",
		})
		require.Error(t, err)
	})
}

func TestResolveConfigFlagOverrides(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	contents := `version: "1.0"
timeout_ms: 1000
continue_on_error: false
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(contents), 0o644))

	cfg, err := resolveConfig(runOptions{
		ConfigPath:      cfgPath,
		TimeoutMs:       250,
		ContinueOnError: true,
		timeoutSet:      true,
		continueSet:     true,
	})
	require.NoError(t, err)
	require.Equal(t, 250, cfg.TimeoutMs)
	require.True(t, cfg.ContinueOnError)
}

func TestResolveConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := resolveConfig(runOptions{})
	require.NoError(t, err)
	require.Equal(t, "1.0", cfg.Version)
	require.Zero(t, cfg.TimeoutMs)
}

func TestDrivePlainPrintsLogsAndErrors(t *testing.T) {
	t.Parallel()

	dialect := interp.Options{}
	exec, err := engine.New(interp.NewRuntime(dialect), interp.NewAnalyzer(dialect), interp.NewLowerer(dialect), engine.Options{
		ContinueOnError: true,
	})
	require.NoError(t, err)

	program := `console.log("hello");
missing();
console.log("still here");`

	run, err := exec.Submit(context.Background(), strings.NewReader(program))
	require.NoError(t, err)

	out := &bytes.Buffer{}
	err = drivePlain(context.Background(), run, out)
	require.Error(t, err)

	require.Contains(t, out.String(), "hello")
	require.Contains(t, out.String(), "line 2")
	require.Contains(t, out.String(), "still here")
}

func TestRunCommandRequiresArgument(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"run"})

	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)

	require.Error(t, root.Execute())
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"version"})

	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)

	require.NoError(t, root.Execute())
	require.Contains(t, buf.String(), "streamexec")
}
