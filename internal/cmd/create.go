package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/apigen/internal/config"
	oerrors "github.com/opmodel/apigen/internal/errors"
	"github.com/opmodel/apigen/internal/output"
	"github.com/opmodel/apigen/internal/templates"
	"github.com/opmodel/apigen/internal/venv"
)

// createOptions holds the create command flags.
type createOptions struct {
	path             string
	template         string
	templateDir      string
	python           string
	useUV            bool
	noVenv           bool
	installAsPackage bool
	noDocker         bool
	noFastInstaller  bool
	noMigrations     bool
	noTests          bool
}

// NewCreateCmd creates the create command.
func NewCreateCmd() *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create <project-name>",
		Short: "Create a new API project from a template",
		Long: `Create a new CRUD web-API project.

The project name must start with a letter and contain only letters, digits,
underscores or hyphens. The project is written to <path>/<project-name>, which
must not exist yet.

Features:
  container       Dockerfile, compose files, build scripts   (--no-docker)
  fast-installer  uv install guide and scripts               (--no-fast-installer, default on with --use-uv)
  migrations      alembic/ and alembic.ini                   (--no-migrations)
  tests           tests/ and pytest.ini                      (--no-tests)

Examples:
  # Create a project in the current directory and set up venv with pip
  apigen create my_service

  # Use uv and install the project in editable mode
  apigen create my_service --use-uv --install-as-package

  # Only generate files
  apigen create my_service --path ./services --no-venv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.path, "path", "", "Output directory (env: APIGEN_OUTPUT_PATH, default: .)")
	cmd.Flags().StringVarP(&opts.template, "template", "t", templates.GetDefault().Name,
		fmt.Sprintf("Template to use (%s)", strings.Join(templates.Names(), ", ")))
	cmd.Flags().StringVar(&opts.templateDir, "template-dir", "", "Use an on-disk template tree (env: APIGEN_TEMPLATE_DIR)")
	cmd.Flags().StringVar(&opts.python, "python", "", "Python interpreter for the virtual environment (env: APIGEN_PYTHON)")
	cmd.Flags().BoolVar(&opts.useUV, "use-uv", false, "Use uv instead of pip and keep the uv install scripts")
	cmd.Flags().BoolVar(&opts.noVenv, "no-venv", false, "Skip virtual environment creation")
	cmd.Flags().BoolVar(&opts.installAsPackage, "install-as-package", false, "Install the project in development mode after setting up the environment")
	cmd.Flags().BoolVar(&opts.noDocker, "no-docker", false, "Leave out container files")
	cmd.Flags().BoolVar(&opts.noFastInstaller, "no-fast-installer", false, "Leave out the uv install guide and scripts")
	cmd.Flags().BoolVar(&opts.noMigrations, "no-migrations", false, "Leave out migration tooling")
	cmd.Flags().BoolVar(&opts.noTests, "no-tests", false, "Leave out the test suite")

	return cmd
}

func runCreate(cmd *cobra.Command, name string, opts *createOptions) error {
	resolved, err := config.ResolveAll(config.ResolveOptions{
		ConfigFlag:          configFlag,
		PathFlag:            opts.path,
		TemplateDirFlag:     opts.templateDir,
		PythonFlag:          opts.python,
		UseUVFlag:           opts.useUV,
		NoDockerFlag:        opts.noDocker,
		NoFastInstallerFlag: opts.noFastInstaller,
		NoMigrationsFlag:    opts.noMigrations,
		NoTestsFlag:         opts.noTests,
		Config:              GetConfig(),
	})
	if err != nil {
		return reportError(err)
	}
	config.LogResolvedValues(resolved.OutputPath, resolved.TemplateDir, resolved.PackageManager, resolved.Python)

	genOpts := templates.GenerateOptions{
		Name:         name,
		OutputPath:   resolved.OutputPath.Value,
		TemplateName: opts.template,
		TemplateDir:  resolved.TemplateDir.Value,
		Features: templates.Features{
			Container:     resolved.Features.Container,
			FastInstaller: resolved.Features.FastInstaller,
			Migrations:    resolved.Features.Migrations,
			Tests:         resolved.Features.Tests,
		},
		InstallAsPackage: opts.installAsPackage,
	}
	if !opts.noVenv {
		genOpts.Bootstrapper = venv.New(venv.Options{
			Manager: resolved.PackageManager.Value,
			Python:  resolved.Python.Value,
		})
	}

	output.Info(fmt.Sprintf("creating project %s", output.StyleNoun.Render(name)),
		"path", filepath.Join(genOpts.OutputPath, name))

	result, err := templates.NewGenerator(genOpts).Generate(cmd.Context())
	if err != nil {
		return reportError(err)
	}

	printSummary(name, resolved.PackageManager.Value, result)
	return nil
}

// reportError logs err once and hands main an exit code.
func reportError(err error) error {
	output.Error(err.Error())
	exitErr := oerrors.NewExitError(err, oerrors.ExitGeneralError)
	exitErr.Printed = true
	return exitErr
}

// summaryDescriptions annotates well-known paths in the project tree.
var summaryDescriptions = map[string]string{
	"app/":              "Application package",
	"app/api/":          "Versioned routes",
	"app/core/":         "Settings and exceptions",
	"app/models/":       "ORM models",
	"app/schemas/":      "Request and response schemas",
	"app/services/":     "Business rules",
	"app/repositories/": "Database access",
	"app/utils/":        "Response envelope helpers",
	"app/main.py":       "Application entry point",
	"tests/":            "Test suite",
	"alembic/":          "Database migrations",
	".env":              "Local settings",
	".env.example":      "Settings template",
	"requirements.txt":  "Dependencies",
	"run.py":            "Development server",
}

// summaryTree selects the top of the project tree: first-level directories,
// the application subpackages and top-level files.
func summaryTree(result *templates.GenerateResult) map[string]string {
	entries := make(map[string]string)
	pruned := make(map[string]bool, len(result.Pruned))
	for _, p := range result.Pruned {
		pruned[p] = true
	}

	for _, dir := range result.Dirs {
		top := strings.SplitN(dir, "/", 2)[0]
		if pruned[top] || strings.Count(dir, "/") > 1 {
			continue
		}
		entries[dir+"/"] = summaryDescriptions[dir+"/"]
	}
	for _, f := range result.Files {
		if !strings.Contains(f, "/") || f == "app/main.py" {
			entries[f] = summaryDescriptions[f]
		}
	}
	if result.EnvFileCreated {
		entries[".env"] = summaryDescriptions[".env"]
	}
	return entries
}

func printSummary(name, manager string, result *templates.GenerateResult) {
	output.Println("")
	output.Println(output.FormatCheckmark(fmt.Sprintf("Project %s created at %s",
		output.StyleNoun.Render(name), output.StyleNoun.Render(result.ProjectDir))))
	output.Println("")
	output.Print(output.RenderFileTree(name, summaryTree(result)))

	if len(result.Pruned) > 0 {
		output.Println("")
		output.Println(output.StyleDim.Render("Left out for disabled features:"))
		for _, p := range result.Pruned {
			output.Println("  " + output.StylePruned.Render(p))
		}
	}

	bootstrapped := result.Bootstrap != nil && result.Bootstrap.Success
	if result.Bootstrap != nil && !bootstrapped {
		output.Println("")
		output.Println(output.FormatWarning("Virtual environment setup failed; create it by hand:"))
	}
	if result.Editable != nil && !result.Editable.Success {
		output.Println(output.FormatWarning("Editable install failed; run it again inside the environment."))
	}

	output.Println("")
	output.Println(output.StyleSummary.Render("Next steps:"))
	for i, step := range venv.NextSteps(result.ProjectDir, manager, runtime.GOOS, bootstrapped) {
		output.Println(fmt.Sprintf("  %d. %s", i+1, step.Title))
		for _, c := range step.Commands {
			output.Println("     " + output.StyleCommand.Render("$ "+c))
		}
	}

	if result.Editable == nil {
		output.Println("")
		output.Println(output.StyleDim.Render("To install the project as a package in development mode:"))
		if manager == config.PackageManagerUV {
			output.Println("     " + output.StyleCommand.Render("$ uv pip install -e ."))
		} else {
			output.Println("     " + output.StyleCommand.Render("$ pip install -e ."))
		}
	}
}
