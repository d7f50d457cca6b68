package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLowerPassesValidSourceThrough(t *testing.T) {
	t.Parallel()

	l := NewLowerer(Options{})
	out, err := l.Lower("const x = 1;")

	require.NoError(t, err)
	require.Equal(t, "const x = 1;", out)
}

func TestLowerRejectsImport(t *testing.T) {
	t.Parallel()

	l := NewLowerer(Options{})
	_, err := l.Lower(`import { x } from "mod";`)

	require.EqualError(t, err, "import declarations are not supported")
}

func TestLowerRejectsExport(t *testing.T) {
	t.Parallel()

	l := NewLowerer(Options{})
	_, err := l.Lower(`export const x = 1;`)

	require.EqualError(t, err, "export declarations are not supported")
}
