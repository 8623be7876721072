package templates

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/apigen/internal/errors"
	"github.com/opmodel/apigen/internal/testutil"
	"github.com/opmodel/apigen/internal/venv"
)

// scriptedRunner records commands and fails any whose argv starts with a listed prefix.
type scriptedRunner struct {
	calls []string
	fail  []string
}

func (r *scriptedRunner) Run(_ context.Context, _ string, name string, args ...string) (string, error) {
	argv := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, argv)
	for _, prefix := range r.fail {
		if strings.HasPrefix(argv, prefix) {
			return "failed", &oerrors.SubprocessError{Command: []string{name}, Output: "failed", Err: errors.New("exit status 1")}
		}
	}
	return "", nil
}

func TestGenerate_AllFeaturesDisabled(t *testing.T) {
	out := t.TempDir()

	result, err := NewGenerator(GenerateOptions{
		Name:       "my_service",
		OutputPath: out,
		Features:   Features{},
	}).Generate(context.Background())
	require.NoError(t, err)

	project := filepath.Join(out, "my_service")
	assert.Equal(t, project, result.ProjectDir)
	assert.Equal(t, StageDone, result.Stage)
	assert.True(t, result.EnvFileCreated)
	assert.Nil(t, result.Bootstrap)

	for _, gone := range []string{
		"Dockerfile", "docker-compose.yml", "docker-compose-prod.yml", ".dockerignore",
		"docker-build.sh", "docker-build.bat",
		"UV_INSTALL.md", "install_with_uv.sh", "install_with_uv.bat",
		"alembic", "alembic.ini",
		"tests", "pytest.ini",
	} {
		_, err := os.Lstat(filepath.Join(project, gone))
		assert.True(t, errors.Is(err, os.ErrNotExist), "%s should be pruned", gone)
	}

	example, err := os.ReadFile(filepath.Join(project, ".env.example"))
	require.NoError(t, err)
	env, err := os.ReadFile(filepath.Join(project, ".env"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(example, env), ".env must be byte-identical to .env.example")

	// No placeholder survives in Python or Markdown files.
	err = filepath.WalkDir(project, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if ext := filepath.Ext(p); ext != ".py" && ext != ".md" {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		assert.NotContains(t, string(data), "fastapi_template_new", p)
		assert.NotContains(t, string(data), "FastAPI Template", p)
		return nil
	})
	require.NoError(t, err)

	readme, err := os.ReadFile(filepath.Join(project, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "# My Service")
	assert.Contains(t, string(readme), "`my_service`")

	marker, err := os.ReadFile(filepath.Join(project, "app", "api", "v1", "__init__.py"))
	require.NoError(t, err)
	assert.Equal(t, "\"\"\"app.api.v1 module.\"\"\"\n", string(marker))

	assert.NotContains(t, result.Files, "Dockerfile")
	assert.Contains(t, result.Files, "app/main.py")
	assert.NotContains(t, result.Files, "tests/conftest.py")
}

func TestGenerate_FeatureTree(t *testing.T) {
	out := t.TempDir()

	_, err := NewGenerator(GenerateOptions{
		Name:       "svc",
		OutputPath: out,
		Features:   Features{Container: true, Tests: true},
	}).Generate(context.Background())
	require.NoError(t, err)

	project := filepath.Join(out, "svc")
	var top []string
	for _, f := range testutil.ListFiles(t, project) {
		if !strings.Contains(f, "/") {
			top = append(top, f)
		}
	}
	want := []string{
		".dockerignore", ".env", ".env.example", ".gitignore",
		"Dockerfile", "README.md",
		"docker-build.bat", "docker-build.sh",
		"docker-compose-prod.yml", "docker-compose.yml",
		"pyproject.toml", "pytest.ini", "requirements.txt", "run.py", "setup.py",
	}
	if diff := cmp.Diff(want, top); diff != "" {
		t.Errorf("top-level files mismatch (-want +got):\n%s", diff)
	}
	assert.DirExists(t, filepath.Join(project, "tests"))
	assert.NoDirExists(t, filepath.Join(project, "alembic"))

	info, err := os.Stat(filepath.Join(project, "docker-build.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestGenerate_DestinationExists(t *testing.T) {
	out := t.TempDir()
	opts := GenerateOptions{Name: "svc", OutputPath: out, Features: AllFeatures()}

	_, err := NewGenerator(opts).Generate(context.Background())
	require.NoError(t, err)

	before := testutil.ListFiles(t, filepath.Join(out, "svc"))

	g := NewGenerator(opts)
	_, err = g.Generate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrDestinationExists))
	assert.Equal(t, StageValidating, g.Stage())

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageValidating, stageErr.Stage)

	assert.Equal(t, before, testutil.ListFiles(t, filepath.Join(out, "svc")), "existing project left untouched")
}

// dirRunner records the working directory of every command.
type dirRunner struct {
	dirs  []string
	argvs []string
}

func (r *dirRunner) Run(_ context.Context, dir string, name string, args ...string) (string, error) {
	r.dirs = append(r.dirs, dir)
	r.argvs = append(r.argvs, strings.Join(append([]string{name}, args...), " "))
	return "", nil
}

func TestGenerate_RelativeOutputPath(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)

	runner := &dirRunner{}
	result, err := NewGenerator(GenerateOptions{
		Name:             "my_service",
		OutputPath:       ".",
		Bootstrapper:     venv.New(venv.Options{Manager: venv.ManagerPip, Python: "python3", GOOS: "linux", Runner: runner}),
		InstallAsPackage: true,
	}).Generate(context.Background())
	require.NoError(t, err)

	project := filepath.Join(work, "my_service")
	assert.Equal(t, project, result.ProjectDir)
	assert.True(t, filepath.IsAbs(result.ProjectDir))
	require.NotNil(t, result.Editable)
	assert.True(t, result.Editable.Success)

	last := len(runner.argvs) - 1
	require.GreaterOrEqual(t, last, 0)
	assert.Equal(t, "venv/bin/pip install -e .", runner.argvs[last])
	assert.Equal(t, project, runner.dirs[last])
	assert.Equal(t, "python3 -m venv "+filepath.Join(project, "venv"), runner.argvs[0])
}

func TestGenerate_InvalidNameTouchesNothing(t *testing.T) {
	out := t.TempDir()

	_, err := NewGenerator(GenerateOptions{Name: "1bad", OutputPath: out}).Generate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrInvalidName))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_TemplateDirWithoutManifest(t *testing.T) {
	tmplDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "README.md"), []byte("# FastAPI Template\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, ".env.example"), []byte("NAME=fastapi_template_new\n"), 0o644))
	out := t.TempDir()

	result, err := NewGenerator(GenerateOptions{
		Name:        "custom-api",
		OutputPath:  out,
		TemplateDir: tmplDir,
		Features:    AllFeatures(),
	}).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tmplDir, result.TemplateName)

	readme, err := os.ReadFile(filepath.Join(out, "custom-api", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Custom Api\n", string(readme))

	env, err := os.ReadFile(filepath.Join(out, "custom-api", ".env"))
	require.NoError(t, err)
	assert.Equal(t, "NAME=custom-api\n", string(env))
}

func TestGenerate_MissingEnvExampleIsSkipped(t *testing.T) {
	tmplDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "README.md"), []byte("hi\n"), 0o644))
	out := t.TempDir()

	result, err := NewGenerator(GenerateOptions{Name: "svc", OutputPath: out, TemplateDir: tmplDir}).Generate(context.Background())
	require.NoError(t, err)
	assert.False(t, result.EnvFileCreated)
	assert.Equal(t, StageDone, result.Stage)
}

func TestGenerate_UnknownTemplate(t *testing.T) {
	_, err := NewGenerator(GenerateOptions{Name: "svc", OutputPath: t.TempDir(), TemplateName: "rails"}).Generate(context.Background())
	require.Error(t, err)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageValidating, stageErr.Stage)
}

func TestGenerate_Bootstrap(t *testing.T) {
	tests := []struct {
		name          string
		installEdit   bool
		fail          []string
		wantSetup     bool
		wantEditable  *bool
		wantCallCount int
	}{
		{name: "setup only", wantSetup: true, wantCallCount: 3},
		{name: "setup and editable", installEdit: true, wantSetup: true, wantEditable: boolPtr(true), wantCallCount: 4},
		{name: "setup fails skips editable", installEdit: true, fail: []string{"python3 -m venv"}, wantSetup: false, wantCallCount: 1},
		{name: "editable fails", installEdit: true, fail: []string{"pip-editable"}, wantSetup: true, wantEditable: boolPtr(false), wantCallCount: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			runner := &scriptedRunner{}
			for _, f := range tt.fail {
				if f == "pip-editable" {
					f = filepath.Join(out, "svc", "venv") + "/bin/pip install -e"
				}
				runner.fail = append(runner.fail, f)
			}

			g := NewGenerator(GenerateOptions{
				Name:             "svc",
				OutputPath:       out,
				Features:         AllFeatures(),
				Bootstrapper:     venv.New(venv.Options{Manager: venv.ManagerPip, Python: "python3", GOOS: "linux", Runner: runner}),
				InstallAsPackage: tt.installEdit,
			})
			result, err := g.Generate(context.Background())

			require.NoError(t, err, "bootstrap failures are not fatal")
			assert.Equal(t, StageDone, result.Stage)
			require.NotNil(t, result.Bootstrap)
			assert.Equal(t, tt.wantSetup, result.Bootstrap.Success)
			if tt.wantEditable == nil {
				assert.Nil(t, result.Editable)
			} else {
				require.NotNil(t, result.Editable)
				assert.Equal(t, *tt.wantEditable, result.Editable.Success)
			}
			assert.Len(t, runner.calls, tt.wantCallCount)
		})
	}
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "validating", StageValidating.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "stage(42)", Stage(42).String())
}

func boolPtr(b bool) *bool { return &b }
