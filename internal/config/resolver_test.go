package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/apigen/internal/errors"
)

// clearEnv blanks every APIGEN_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvConfig, EnvOutputPath, EnvTemplateDir, EnvPackageManager, EnvPython} {
		t.Setenv(name, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestResolveString_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvOutputPath, "/from/env")

	t.Run("flag wins and shadows the rest", func(t *testing.T) {
		got := resolveString("outputPath", "/from/flag", EnvOutputPath, "/from/config", ".")
		assert.Equal(t, "/from/flag", got.Value)
		assert.Equal(t, SourceFlag, got.Source)
		assert.Equal(t, "/from/env", got.Shadowed[SourceEnv])
		assert.Equal(t, "/from/config", got.Shadowed[SourceConfig])
		assert.Equal(t, ".", got.Shadowed[SourceDefault])
	})

	t.Run("env beats config", func(t *testing.T) {
		got := resolveString("outputPath", "", EnvOutputPath, "/from/config", ".")
		assert.Equal(t, "/from/env", got.Value)
		assert.Equal(t, SourceEnv, got.Source)
		assert.NotContains(t, got.Shadowed, SourceFlag)
	})

	t.Run("config beats default", func(t *testing.T) {
		got := resolveString("python", "", EnvPython, "pypy3", "python3")
		assert.Equal(t, "pypy3", got.Value)
		assert.Equal(t, SourceConfig, got.Source)
	})

	t.Run("default when nothing set", func(t *testing.T) {
		got := resolveString("python", "", EnvPython, "", "python3")
		assert.Equal(t, "python3", got.Value)
		assert.Equal(t, SourceDefault, got.Source)
		assert.Empty(t, got.Shadowed)
	})
}

func TestResolveConfigPath(t *testing.T) {
	clearEnv(t)

	got, err := ResolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, got.Source)
	assert.Equal(t, ".apigen", filepath.Base(filepath.Dir(got.Value)))

	t.Setenv(EnvConfig, "/etc/apigen.yaml")
	got, err = ResolveConfigPath("")
	require.NoError(t, err)
	assert.Equal(t, SourceEnv, got.Source)
	assert.Equal(t, "/etc/apigen.yaml", got.Value)

	t.Setenv("HOME", "")
	got, err = ResolveConfigPath("")
	require.NoError(t, err, "env still names the file")
	assert.Equal(t, "/etc/apigen.yaml", got.Value)

	t.Setenv(EnvConfig, "")
	_, err = ResolveConfigPath("")
	assert.Error(t, err)
}

func TestResolveAll_Defaults(t *testing.T) {
	clearEnv(t)

	resolved, err := ResolveAll(ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, ".", resolved.OutputPath.Value)
	assert.Equal(t, PackageManagerPip, resolved.PackageManager.Value)
	assert.Equal(t, DefaultPython(), resolved.Python.Value)
	assert.Empty(t, resolved.TemplateDir.Value)
	assert.Equal(t, Features{Container: true, FastInstaller: false, Migrations: true, Tests: true}, resolved.Features)
}

func TestResolveAll_Features(t *testing.T) {
	clearEnv(t)
	off := false
	on := true

	tests := []struct {
		name string
		opts ResolveOptions
		want Features
	}{
		{
			name: "uv flag keeps fast installer",
			opts: ResolveOptions{UseUVFlag: true},
			want: Features{Container: true, FastInstaller: true, Migrations: true, Tests: true},
		},
		{
			name: "no flags disable everything",
			opts: ResolveOptions{NoDockerFlag: true, NoMigrationsFlag: true, NoTestsFlag: true},
			want: Features{},
		},
		{
			name: "config disables container",
			opts: ResolveOptions{Config: &Config{Features: FeatureDefaults{Container: &off}}},
			want: Features{Migrations: true, Tests: true},
		},
		{
			name: "flag overrides config enable",
			opts: ResolveOptions{NoTestsFlag: true, Config: &Config{Features: FeatureDefaults{Tests: &on}}},
			want: Features{Container: true, Migrations: true},
		},
		{
			name: "config keeps fast installer with pip",
			opts: ResolveOptions{Config: &Config{Features: FeatureDefaults{FastInstaller: &on}}},
			want: Features{Container: true, FastInstaller: true, Migrations: true, Tests: true},
		},
		{
			name: "no fast installer flag beats uv",
			opts: ResolveOptions{UseUVFlag: true, NoFastInstallerFlag: true},
			want: Features{Container: true, Migrations: true, Tests: true},
		},
		{
			name: "config package manager uv",
			opts: ResolveOptions{Config: &Config{PackageManager: "uv"}},
			want: Features{Container: true, FastInstaller: true, Migrations: true, Tests: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := ResolveAll(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resolved.Features)
		})
	}
}

func TestResolveAll_NoHomeDir(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "")

	resolved, err := ResolveAll(ResolveOptions{PathFlag: "/tmp/out"})
	require.NoError(t, err)
	assert.Empty(t, resolved.ConfigPath.Value)
	assert.Equal(t, "/tmp/out", resolved.OutputPath.Value)

	resolved, err = ResolveAll(ResolveOptions{ConfigFlag: "/etc/apigen.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/apigen.yaml", resolved.ConfigPath.Value)
	assert.Equal(t, SourceFlag, resolved.ConfigPath.Source)
}

func TestResolveAll_InvalidPackageManager(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPackageManager, "poetry")

	_, err := ResolveAll(ResolveOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrValidation))
	assert.Contains(t, err.Error(), "poetry")
}
