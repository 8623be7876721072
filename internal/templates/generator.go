package templates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	oerrors "github.com/opmodel/apigen/internal/errors"
	"github.com/opmodel/apigen/internal/output"
)

// Stage is a step of the generation pipeline. Stages run strictly in order
// and none is re-entered.
type Stage int

const (
	StageValidating Stage = iota
	StageScaffolding
	StageMaterializing
	StagePruning
	StageEnvFileCreated
	StageEnvBootstrapping
	StageDone
)

var stageNames = [...]string{
	StageValidating:       "validating",
	StageScaffolding:      "scaffolding",
	StageMaterializing:    "materializing",
	StagePruning:          "pruning",
	StageEnvFileCreated:   "env-file",
	StageEnvBootstrapping: "env-bootstrapping",
	StageDone:             "done",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageError names the pipeline stage that failed. The partial project tree
// is left on disk.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Generator creates a project from a template.
type Generator struct {
	opts  GenerateOptions
	stage Stage
}

// NewGenerator creates a new generator with the given options.
func NewGenerator(opts GenerateOptions) *Generator {
	return &Generator{opts: opts}
}

// Stage returns the stage the generator is in, or the last one it reached.
func (g *Generator) Stage() Stage {
	return g.stage
}

// ProjectDir returns the absolute destination root for the project.
// Bootstrap commands run with different working directories, so a relative
// output path is resolved against the current directory once, here.
func (g *Generator) ProjectDir() string {
	dir := filepath.Join(g.opts.OutputPath, g.opts.Name)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func (g *Generator) enter(s Stage) {
	g.stage = s
	output.Debug("entering stage", "stage", s.String())
}

// Generate runs the pipeline. Failures before the env file stage are fatal
// and returned as *StageError. Bootstrap failures are recorded in the result
// and logged as warnings.
func (g *Generator) Generate(ctx context.Context) (*GenerateResult, error) {
	g.enter(StageValidating)

	fsys, manifest, templateName, err := g.prepare()
	if err != nil {
		return nil, &StageError{Stage: StageValidating, Err: err}
	}

	projectDir := g.ProjectDir()
	result := &GenerateResult{ProjectDir: projectDir, TemplateName: templateName}
	log := output.ProjectLogger(g.opts.Name)

	g.enter(StageScaffolding)
	result.Dirs, err = Scaffold(projectDir, manifest.Layout)
	if err != nil {
		return result, g.fail(result, err)
	}

	g.enter(StageMaterializing)
	renderer := NewRenderer(manifest, ProjectData{Name: g.opts.Name, DisplayName: DisplayName(g.opts.Name)})
	written, err := renderer.Materialize(fsys, projectDir)
	if err != nil {
		return result, g.fail(result, err)
	}
	log.Debug("template materialized", "files", len(written))

	g.enter(StagePruning)
	result.Pruned, err = Prune(projectDir, manifest, g.opts.Features)
	if err != nil {
		return result, g.fail(result, err)
	}
	result.Files = surviving(written, result.Pruned)

	g.enter(StageEnvFileCreated)
	result.EnvFileCreated, err = CreateEnvFile(projectDir, manifest.EnvFile)
	if err != nil {
		return result, g.fail(result, err)
	}
	if !result.EnvFileCreated && manifest.EnvFile.Example != "" {
		log.Warn("template has no example env file, skipping", "file", manifest.EnvFile.Example)
	}

	if g.opts.Bootstrapper != nil {
		g.enter(StageEnvBootstrapping)
		g.bootstrap(ctx, result, manifest)
	}

	g.enter(StageDone)
	result.Stage = StageDone
	return result, nil
}

// prepare validates the name, resolves the template and refuses an existing
// destination. Nothing on disk is touched.
func (g *Generator) prepare() (fs.FS, *Manifest, string, error) {
	if err := ValidateName(g.opts.Name); err != nil {
		return nil, nil, "", err
	}

	projectDir := g.ProjectDir()
	if _, err := os.Lstat(projectDir); err == nil {
		return nil, nil, "", oerrors.NewDestinationExistsError(projectDir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, "", fmt.Errorf("checking destination: %w", err)
	}

	var (
		fsys fs.FS
		name string
		err  error
	)
	if g.opts.TemplateDir != "" {
		fsys, err = DirFS(g.opts.TemplateDir)
		name = g.opts.TemplateDir
	} else {
		name = g.opts.TemplateName
		if name == "" {
			name = DefaultTemplateName
		}
		fsys, err = FS(name)
	}
	if err != nil {
		return nil, nil, "", err
	}

	manifest, err := LoadManifest(fsys)
	if err != nil {
		return nil, nil, "", err
	}

	output.Debug("generating project",
		"template", name,
		"name", g.opts.Name,
		"target", projectDir)

	return fsys, manifest, name, nil
}

func (g *Generator) fail(result *GenerateResult, err error) error {
	result.Stage = g.stage
	return &StageError{Stage: g.stage, Err: err}
}

// bootstrap runs environment setup and the optional editable install.
// Neither failure aborts generation.
func (g *Generator) bootstrap(ctx context.Context, result *GenerateResult, m *Manifest) {
	log := output.ProjectLogger(g.opts.Name)
	b := g.opts.Bootstrapper

	setup := b.Setup(ctx, result.ProjectDir, m.Requirements)
	result.Bootstrap = &setup
	if !setup.Success {
		log.Warn("setting up virtual environment failed", "manager", b.Manager(), "err", setup.Err)
		if setup.Output != "" {
			output.Details(setup.Output)
		}
		return
	}
	log.Info("virtual environment ready", "dir", setup.EnvDir, "manager", b.Manager())

	if !g.opts.InstallAsPackage {
		return
	}

	editable := b.InstallEditable(ctx, result.ProjectDir)
	result.Editable = &editable
	if !editable.Success {
		log.Warn("installing project as package failed", "err", editable.Err)
		if editable.Output != "" {
			output.Details(editable.Output)
		}
		return
	}
	log.Info("project installed as package in development mode")
}

// surviving drops written files that lie under a pruned path.
func surviving(written, pruned []string) []string {
	if len(pruned) == 0 {
		return written
	}
	files := make([]string, 0, len(written))
	for _, f := range written {
		if !underAny(f, pruned) {
			files = append(files, f)
		}
	}
	return files
}

func underAny(rel string, roots []string) bool {
	for _, root := range roots {
		if rel == root || (len(rel) > len(root) && rel[:len(root)] == root && rel[len(root)] == '/') {
			return true
		}
	}
	return false
}
