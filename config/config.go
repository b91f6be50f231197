// Package config provides configuration loading and validation for the
// iobject command.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvLogLevel     = "IOBJECT_LOG_LEVEL"
	EnvLogFormat    = "IOBJECT_LOG_FORMAT"
	EnvOutputFormat = "IOBJECT_OUTPUT_FORMAT"
	EnvOutputIndent = "IOBJECT_OUTPUT_INDENT"
	EnvSchema       = "IOBJECT_SCHEMA"
)

// Config is the root configuration structure.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
	Schema  SchemaConfig  `yaml:"schema"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// OutputConfig configures how parsed data is printed.
type OutputConfig struct {
	Format string `yaml:"format"` // "json" or "yaml"
	Indent *int   `yaml:"indent"` // nil means the default of 2
}

// SchemaConfig names a default schema file, used when the input has no
// header and no --schema flag is given.
type SchemaConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	IOBJECT_LOG_LEVEL      - Log level: debug, info, warn, error (default: warn)
//	IOBJECT_LOG_FORMAT     - Log format: json or console (default: console)
//	IOBJECT_OUTPUT_FORMAT  - Output format: json or yaml (default: json)
//	IOBJECT_OUTPUT_INDENT  - Output indentation in spaces (default: 2)
//	IOBJECT_SCHEMA         - Default schema file
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads path when it exists and falls back to environment
// variables and defaults otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies IOBJECT_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv(EnvOutputIndent); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Output.Indent = &n
		}
	}
	if v := os.Getenv(EnvSchema); v != "" {
		cfg.Schema.Path = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "json"
	}
	if cfg.Output.Indent == nil {
		indent := 2
		cfg.Output.Indent = &indent
	}
}

// Validate checks cfg after flags have overridden loaded values.
func (c *Config) Validate() error {
	return validate(c)
}

func validate(cfg *Config) error {
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, disabled, got %q", cfg.Logging.Level)
	}

	validLogFormats := map[string]bool{"json": true, "console": true}
	if !validLogFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	validOutputFormats := map[string]bool{"json": true, "yaml": true}
	if !validOutputFormats[cfg.Output.Format] {
		return fmt.Errorf("output.format must be 'json' or 'yaml', got %q", cfg.Output.Format)
	}

	if cfg.Output.Indent != nil && (*cfg.Output.Indent < 0 || *cfg.Output.Indent > 8) {
		return fmt.Errorf("output.indent must be between 0 and 8, got %d", *cfg.Output.Indent)
	}

	return nil
}
