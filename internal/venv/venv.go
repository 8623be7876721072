// Package venv bootstraps an isolated Python environment inside a generated
// project and installs its dependencies with pip or uv.
package venv

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/opmodel/apigen/internal/output"
)

// Package managers.
const (
	ManagerPip = "pip"
	ManagerUV  = "uv"
)

// Environment directory names created by each manager.
const (
	PipEnvDir = "venv"
	UVEnvDir  = ".venv"
)

// Options configures a Bootstrapper.
type Options struct {
	// Manager is ManagerPip or ManagerUV.
	Manager string

	// Python is the interpreter used for `-m venv` and to install uv.
	Python string

	// GOOS selects executable paths. Defaults to runtime.GOOS.
	GOOS string

	// Runner executes commands. Defaults to ExecRunner.
	Runner Runner
}

// Result reports the outcome of one bootstrap step. Failures are carried in
// Err rather than returned so callers can downgrade them to warnings.
type Result struct {
	// Success is true when every command in the step exited zero.
	Success bool

	// EnvDir is the environment directory relative to the project.
	EnvDir string

	// Output is the combined output of the commands that ran.
	Output string

	// Err is the first failure, nil on success.
	Err error
}

// Bootstrapper creates virtual environments and installs dependencies.
type Bootstrapper struct {
	manager string
	python  string
	goos    string
	runner  Runner
}

// New creates a Bootstrapper, filling unset options with defaults.
func New(opts Options) *Bootstrapper {
	b := &Bootstrapper{
		manager: opts.Manager,
		python:  opts.Python,
		goos:    opts.GOOS,
		runner:  opts.Runner,
	}
	if b.manager == "" {
		b.manager = ManagerPip
	}
	if b.goos == "" {
		b.goos = runtime.GOOS
	}
	if b.python == "" {
		b.python = "python3"
		if b.goos == "windows" {
			b.python = "python"
		}
	}
	if b.runner == nil {
		b.runner = ExecRunner{}
	}
	return b
}

// Manager returns the configured package manager.
func (b *Bootstrapper) Manager() string {
	return b.manager
}

// EnvDir returns the environment directory name for the configured manager.
func (b *Bootstrapper) EnvDir() string {
	if b.manager == ManagerUV {
		return UVEnvDir
	}
	return PipEnvDir
}

// Setup creates the environment in projectDir and installs requirements.
// Each command runs once; the first failure stops the step.
func (b *Bootstrapper) Setup(ctx context.Context, projectDir, requirements string) Result {
	if b.manager == ManagerUV {
		return b.setupUV(ctx, projectDir, requirements)
	}
	return b.setupPip(ctx, projectDir, requirements)
}

func (b *Bootstrapper) setupPip(ctx context.Context, projectDir, requirements string) Result {
	envPath := filepath.Join(projectDir, PipEnvDir)
	pip := PipPath(envPath, b.goos)

	steps := []step{
		{title: "Creating virtual environment", dir: "", name: b.python, args: []string{"-m", "venv", envPath}},
		{title: "Upgrading pip", dir: "", name: pip, args: []string{"install", "--upgrade", "pip"}},
		{title: "Installing dependencies", dir: "", name: pip, args: []string{"install", "-r", filepath.Join(projectDir, requirements)}},
	}
	return b.runSteps(ctx, PipEnvDir, steps)
}

func (b *Bootstrapper) setupUV(ctx context.Context, projectDir, requirements string) Result {
	var out strings.Builder

	if _, err := b.runner.Run(ctx, projectDir, "uv", "--version"); err != nil {
		output.Warn("uv is not installed, installing it with pip")
		installOut, err := b.run(ctx, step{
			title: "Installing uv",
			dir:   projectDir,
			name:  b.python,
			args:  []string{"-m", "pip", "install", "uv"},
		})
		out.WriteString(installOut)
		if err != nil {
			return Result{EnvDir: UVEnvDir, Output: out.String(), Err: err}
		}
	}

	steps := []step{
		{title: "Creating virtual environment with uv", dir: projectDir, name: "uv", args: []string{"venv", UVEnvDir}},
		{title: "Installing dependencies with uv", dir: projectDir, name: "uv", args: []string{"pip", "install", "-r", requirements}},
	}
	res := b.runSteps(ctx, UVEnvDir, steps)
	res.Output = out.String() + res.Output
	return res
}

// InstallEditable installs the generated project into its environment in
// development mode. Commands run inside projectDir, so the pip path is
// relative to it.
func (b *Bootstrapper) InstallEditable(ctx context.Context, projectDir string) Result {
	var s step
	if b.manager == ManagerUV {
		s = step{title: "Installing project in editable mode", dir: projectDir, name: "uv", args: []string{"pip", "install", "-e", "."}}
	} else {
		pip := PipPath(PipEnvDir, b.goos)
		s = step{title: "Installing project in editable mode", dir: projectDir, name: pip, args: []string{"install", "-e", "."}}
	}
	return b.runSteps(ctx, b.EnvDir(), []step{s})
}

type step struct {
	title string
	dir   string
	name  string
	args  []string
}

func (b *Bootstrapper) runSteps(ctx context.Context, envDir string, steps []step) Result {
	var out strings.Builder
	for _, s := range steps {
		stepOut, err := b.run(ctx, s)
		out.WriteString(stepOut)
		if err != nil {
			return Result{EnvDir: envDir, Output: out.String(), Err: err}
		}
	}
	return Result{Success: true, EnvDir: envDir, Output: out.String()}
}

func (b *Bootstrapper) run(ctx context.Context, s step) (string, error) {
	var out string
	err := output.RunWithSpinner(ctx, func() error {
		var runErr error
		out, runErr = b.runner.Run(ctx, s.dir, s.name, s.args...)
		return runErr
	}, output.WithTitle(s.title+"..."))
	if err != nil {
		return out, fmt.Errorf("%s: %w", strings.ToLower(s.title), err)
	}
	output.Debug("step complete", "step", s.title)
	return out, nil
}

// PipPath returns the pip executable inside envPath for goos.
func PipPath(envPath, goos string) string {
	if goos == "windows" {
		return envPath + `\Scripts\pip`
	}
	return envPath + "/bin/pip"
}
