package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvocationErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewInvocationError("execution already in progress")
	require.EqualError(t, err, "invocation error: execution already in progress")
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("timeout", "must be positive", nil)
	require.EqualError(t, err, "validation error: timeout: must be positive")
}

func TestValidationErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("bad value")
	err := NewValidationError("", "invalid options", underlying)

	var vErr *ValidationError
	require.True(t, stdErrors.As(err, &vErr))
	require.ErrorIs(t, err, underlying)
}

func TestParseErrorWithLine(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("run.yaml", 12, underlying)

	require.EqualError(t, err, "parse error: run.yaml:12: unexpected token")
	require.ErrorIs(t, err, underlying)
}

func TestParseErrorWithoutLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("run.yaml", 0, fmt.Errorf("no such file"))
	require.EqualError(t, err, "parse error: run.yaml: no such file")
}

func TestSourceErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("reference not found")
	err := NewSourceError("https://example.com/repo.git", underlying)

	require.EqualError(t, err, "source error: https://example.com/repo.git: reference not found")
	require.ErrorIs(t, err, underlying)
}
