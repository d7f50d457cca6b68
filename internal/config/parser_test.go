package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	execerrors "github.com/alexisbeaulieu97/streamexec/pkg/errors"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	validYAML := `version: "1.0"
timeout_ms: 5000
continue_on_error: true
dialect:
  component_templates: true
bindings:
  greeting: hello
  retries: 3
log:
  level: debug
  human: true
`

	invalidYAML := `version: "1.0"
timeout_ms: [not, a, number]
`

	missingVersion := `timeout_ms: 100
`

	badVersion := `version: "beta"
`

	negativeTimeout := `version: "1.0"
timeout_ms: -5
`

	badLogLevel := `version: "1.0"
log:
  level: shout
`

	cases := []struct {
		name     string
		contents string
		assert   func(t *testing.T, cfg *Config, err error)
	}{
		{
			name:     "valid configuration is parsed",
			contents: validYAML,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				require.Equal(t, "1.0", cfg.Version)
				require.Equal(t, 5000, cfg.TimeoutMs)
				require.True(t, cfg.ContinueOnError)
				require.True(t, cfg.Dialect.ComponentTemplates)
				require.Equal(t, "hello", cfg.Bindings["greeting"])
				require.Equal(t, 3, cfg.Bindings["retries"])
				require.Equal(t, "debug", cfg.Log.Level)
				require.True(t, cfg.Log.Human)
			},
		},
		{
			name:     "malformed yaml yields parse error",
			contents: invalidYAML,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				var parseErr *execerrors.ParseError
				require.ErrorAs(t, err, &parseErr)
			},
		},
		{
			name:     "missing version yields validation error",
			contents: missingVersion,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				var valErr *execerrors.ValidationError
				require.ErrorAs(t, err, &valErr)
				require.Contains(t, valErr.Field, "version")
			},
		},
		{
			name:     "non numeric version yields validation error",
			contents: badVersion,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				var valErr *execerrors.ValidationError
				require.ErrorAs(t, err, &valErr)
			},
		},
		{
			name:     "negative timeout yields validation error",
			contents: negativeTimeout,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				var valErr *execerrors.ValidationError
				require.ErrorAs(t, err, &valErr)
			},
		},
		{
			name:     "unknown log level yields validation error",
			contents: badLogLevel,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Error(t, err)
				var valErr *execerrors.ValidationError
				require.ErrorAs(t, err, &valErr)
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.contents), 0o644))

			cfg, err := ParseConfig(path)
			tc.assert(t, cfg, err)
		})
	}
}

func TestParseConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var parseErr *execerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, ValidateConfig(cfg))
	require.Equal(t, "1.0", cfg.Version)
	require.Zero(t, cfg.TimeoutMs)
	require.False(t, cfg.ContinueOnError)
}
