package templates

import (
	"github.com/opmodel/apigen/internal/venv"
)

// Feature names used as keys in the manifest features map.
const (
	FeatureContainer     = "container"
	FeatureFastInstaller = "fast-installer"
	FeatureMigrations    = "migrations"
	FeatureTests         = "tests"
)

// Template describes a built-in template.
type Template struct {
	// Name is the template identifier.
	Name string

	// Description explains what the generated project contains.
	Description string

	// Default marks the template used when --template is omitted.
	Default bool
}

// Features is the set of optional template features. A disabled feature has
// its manifest paths pruned from the generated project.
type Features struct {
	Container     bool
	FastInstaller bool
	Migrations    bool
	Tests         bool
}

// AllFeatures returns a Features value with every feature enabled.
func AllFeatures() Features {
	return Features{Container: true, FastInstaller: true, Migrations: true, Tests: true}
}

// Enabled reports whether the named feature is on. Unknown names are on.
func (f Features) Enabled(name string) bool {
	switch name {
	case FeatureContainer:
		return f.Container
	case FeatureFastInstaller:
		return f.FastInstaller
	case FeatureMigrations:
		return f.Migrations
	case FeatureTests:
		return f.Tests
	default:
		return true
	}
}

// ProjectData holds the values substituted into template text.
type ProjectData struct {
	// Name replaces the manifest placeholder.
	Name string

	// DisplayName replaces the manifest display placeholder.
	DisplayName string
}

// GenerateOptions configures project generation.
type GenerateOptions struct {
	// Name is the project name; it becomes the destination directory name.
	Name string

	// OutputPath is the parent directory of the new project.
	OutputPath string

	// TemplateName selects a built-in template. Ignored when TemplateDir is set.
	TemplateName string

	// TemplateDir is an on-disk template root.
	TemplateDir string

	// Features selects which optional files survive pruning.
	Features Features

	// Bootstrapper creates the Python environment. Nil skips bootstrapping.
	Bootstrapper *venv.Bootstrapper

	// InstallAsPackage runs an editable install after a successful bootstrap.
	InstallAsPackage bool
}

// GenerateResult describes a generated project.
type GenerateResult struct {
	// ProjectDir is the destination root.
	ProjectDir string

	// TemplateName is the template that was used.
	TemplateName string

	// Dirs are the scaffolded directories, relative to ProjectDir.
	Dirs []string

	// Files are the materialized files still present after pruning.
	Files []string

	// Pruned are the paths removed for disabled features.
	Pruned []string

	// EnvFileCreated is true when the example env file was copied.
	EnvFileCreated bool

	// Bootstrap is the environment setup outcome, nil when skipped.
	Bootstrap *venv.Result

	// Editable is the editable install outcome, nil when not attempted.
	Editable *venv.Result

	// Stage is the last stage reached.
	Stage Stage
}
