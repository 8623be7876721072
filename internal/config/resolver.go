package config

import (
	"fmt"
	"os"

	oerrors "github.com/opmodel/apigen/internal/errors"
	"github.com/opmodel/apigen/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue is a single configuration value and where it came from.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// Features is the resolved state of the optional template features.
type Features struct {
	Container     bool
	FastInstaller bool
	Migrations    bool
	Tests         bool
}

// Resolved is the configuration handed to commands. It is built once per
// invocation and passed explicitly; nothing reads it from a global.
type Resolved struct {
	ConfigPath     ResolvedValue
	OutputPath     ResolvedValue
	TemplateDir    ResolvedValue
	PackageManager ResolvedValue
	Python         ResolvedValue
	Features       Features
	Timestamps     *bool
}

// ResolveOptions carries raw flag values. Empty strings mean "not set".
type ResolveOptions struct {
	ConfigFlag      string
	PathFlag        string
	TemplateDirFlag string
	PythonFlag      string
	UseUVFlag       bool

	NoDockerFlag        bool
	NoFastInstallerFlag bool
	NoMigrationsFlag    bool
	NoTestsFlag         bool

	// Config is the loaded config file, nil when none was read.
	Config *Config
}

// resolveString applies flag > env > config > default precedence.
func resolveString(key, flagValue, envName, configValue, defaultValue string) ResolvedValue {
	result := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}

	candidates := []struct {
		source ConfigSource
		value  string
	}{
		{SourceFlag, flagValue},
		{SourceEnv, envValue(envName)},
		{SourceConfig, configValue},
		{SourceDefault, defaultValue},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}

	return result
}

func envValue(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) APIGEN_CONFIG env, (3) ~/.apigen/config.yaml
// Without a home directory it fails only when neither flag nor env is set.
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	defaultFile := ""
	paths, err := DefaultPaths()
	if err == nil {
		defaultFile = paths.ConfigFile
	}
	resolved := resolveString("config", flagValue, EnvConfig, "", defaultFile)
	if resolved.Value == "" {
		return resolved, err
	}
	return resolved, nil
}

// ResolveAll resolves every value used by the create command.
func ResolveAll(opts ResolveOptions) (*Resolved, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{}
	}

	// The config file is optional.
	configPath, err := ResolveConfigPath(opts.ConfigFlag)
	if err != nil {
		output.Debug("no config path", "error", err)
	}

	uvFlag := ""
	if opts.UseUVFlag {
		uvFlag = PackageManagerUV
	}

	resolved := &Resolved{
		ConfigPath:     configPath,
		OutputPath:     resolveString("outputPath", opts.PathFlag, EnvOutputPath, cfg.OutputPath, "."),
		TemplateDir:    resolveString("templateDir", opts.TemplateDirFlag, EnvTemplateDir, cfg.TemplateDir, ""),
		PackageManager: resolveString("packageManager", uvFlag, EnvPackageManager, cfg.PackageManager, PackageManagerPip),
		Python:         resolveString("python", opts.PythonFlag, EnvPython, cfg.Python, DefaultPython()),
		Timestamps:     cfg.Log.Timestamps,
	}

	switch resolved.PackageManager.Value {
	case PackageManagerPip, PackageManagerUV:
	default:
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("unknown package manager %q", resolved.PackageManager.Value),
			string(resolved.PackageManager.Source),
			"Use \"pip\" or \"uv\".",
		)
	}

	resolved.Features = Features{
		Container:     resolveFeature(opts.NoDockerFlag, cfg.Features.Container, true),
		FastInstaller: resolveFeature(opts.NoFastInstallerFlag, cfg.Features.FastInstaller, resolved.PackageManager.Value == PackageManagerUV),
		Migrations:    resolveFeature(opts.NoMigrationsFlag, cfg.Features.Migrations, true),
		Tests:         resolveFeature(opts.NoTestsFlag, cfg.Features.Tests, true),
	}

	return resolved, nil
}

// resolveFeature: a --no-* flag disables, otherwise the config value, otherwise def.
func resolveFeature(disabledByFlag bool, configValue *bool, def bool) bool {
	if disabledByFlag {
		return false
	}
	if configValue != nil {
		return *configValue
	}
	return def
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values ...ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
