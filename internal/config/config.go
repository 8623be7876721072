// Package config provides configuration loading and management.
package config

import "runtime"

// Package managers supported by environment bootstrap.
const (
	PackageManagerPip = "pip"
	PackageManagerUV  = "uv"
)

// FeatureDefaults sets the default state of the optional template features.
// Nil means enabled, except FastInstaller which follows the package manager.
type FeatureDefaults struct {
	// Container keeps Dockerfile, compose files and build scripts.
	Container *bool `mapstructure:"container" yaml:"container,omitempty" json:"container,omitempty"`

	// FastInstaller keeps the uv install guide and scripts.
	FastInstaller *bool `mapstructure:"fastInstaller" yaml:"fastInstaller,omitempty" json:"fastInstaller,omitempty"`

	// Migrations keeps the migration directory and its config.
	Migrations *bool `mapstructure:"migrations" yaml:"migrations,omitempty" json:"migrations,omitempty"`

	// Tests keeps the test directory and runner config.
	Tests *bool `mapstructure:"tests" yaml:"tests,omitempty" json:"tests,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty" json:"timestamps,omitempty"`
}

// Config represents the apigen configuration file (~/.apigen/config.yaml).
type Config struct {
	// OutputPath is the default parent directory for new projects.
	// Env: APIGEN_OUTPUT_PATH, Default: "."
	OutputPath string `mapstructure:"outputPath" yaml:"outputPath,omitempty" json:"outputPath,omitempty"`

	// TemplateDir replaces the built-in template with an on-disk tree.
	// Env: APIGEN_TEMPLATE_DIR
	TemplateDir string `mapstructure:"templateDir" yaml:"templateDir,omitempty" json:"templateDir,omitempty"`

	// PackageManager is "pip" or "uv".
	// Env: APIGEN_PACKAGE_MANAGER, Default: "pip"
	PackageManager string `mapstructure:"packageManager" yaml:"packageManager,omitempty" json:"packageManager,omitempty"`

	// Python is the interpreter used to create virtual environments.
	// Env: APIGEN_PYTHON, Default: python3 (python on Windows)
	Python string `mapstructure:"python" yaml:"python,omitempty" json:"python,omitempty"`

	// Features holds feature flag defaults.
	Features FeatureDefaults `mapstructure:"features" yaml:"features,omitempty" json:"features,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty" json:"log,omitempty"`
}

// DefaultPython returns the interpreter name used when none is configured.
func DefaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// DefaultConfig returns a Config with all default values populated.
// Used by `apigen config init` to generate the initial config file.
func DefaultConfig() *Config {
	enabled := true
	return &Config{
		OutputPath:     ".",
		PackageManager: PackageManagerPip,
		Python:         DefaultPython(),
		Features: FeatureDefaults{
			Container:  &enabled,
			Migrations: &enabled,
			Tests:      &enabled,
		},
		Log: LogConfig{Timestamps: &enabled},
	}
}
