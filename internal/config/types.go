package config

// Config is the run configuration loaded from a YAML file. Flags may
// override individual fields after parsing.
type Config struct {
	Version string `yaml:"version" validate:"required,config_version"`

	// TimeoutMs bounds each statement's execution, in milliseconds.
	// Zero means the engine default.
	TimeoutMs int `yaml:"timeout_ms" validate:"min=0"`

	// ContinueOnError keeps executing statements after a failure.
	ContinueOnError bool `yaml:"continue_on_error"`

	// Dialect selects optional syntax extensions.
	Dialect DialectConfig `yaml:"dialect"`

	// Bindings seed the persistent scope before the first run.
	Bindings map[string]any `yaml:"bindings"`

	// Log configures executor diagnostics.
	Log LogConfig `yaml:"log"`
}

// DialectConfig selects dialect extensions, all off by default.
type DialectConfig struct {
	ComponentTemplates bool `yaml:"component_templates"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Human bool   `yaml:"human"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{Version: "1.0"}
}
