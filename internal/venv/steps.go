package venv

import "fmt"

// DocsURL is where the generated application serves its API documentation.
const DocsURL = "http://localhost:8000/api/v1/docs"

// Step is one numbered instruction shown after generation.
type Step struct {
	Title    string
	Commands []string
}

// ActivateCommand returns the shell command that activates envDir.
func ActivateCommand(projectPath, envDir, goos string) string {
	if goos == "windows" {
		return fmt.Sprintf(`%s\%s\Scripts\activate`, projectPath, envDir)
	}
	return fmt.Sprintf("source %s/%s/bin/activate", projectPath, envDir)
}

// NextSteps builds the post-generation instructions for the given outcome.
// When bootstrapped is false the steps include creating the environment by hand.
func NextSteps(projectPath, manager, goos string, bootstrapped bool) []Step {
	envDir := PipEnvDir
	if manager == ManagerUV {
		envDir = UVEnvDir
	}

	var steps []Step
	switch {
	case bootstrapped:
		steps = append(steps, Step{
			Title:    "Activate the virtual environment",
			Commands: []string{ActivateCommand(projectPath, envDir, goos)},
		})
	case manager == ManagerUV:
		steps = append(steps,
			Step{
				Title: "Create and activate a virtual environment",
				Commands: []string{
					fmt.Sprintf("uv venv %s/%s", projectPath, envDir),
					ActivateCommand(projectPath, envDir, goos),
				},
			},
			Step{
				Title:    "Install dependencies",
				Commands: []string{fmt.Sprintf("uv pip install -r %s/requirements.txt", projectPath)},
			},
		)
	default:
		steps = append(steps,
			Step{
				Title: "Create and activate a virtual environment",
				Commands: []string{
					fmt.Sprintf("python -m venv %s/%s", projectPath, envDir),
					ActivateCommand(projectPath, envDir, goos),
				},
			},
			Step{
				Title:    "Install dependencies",
				Commands: []string{fmt.Sprintf("pip install -r %s/requirements.txt", projectPath)},
			},
		)
	}

	steps = append(steps,
		Step{Title: "Update the .env file with your configuration"},
		Step{
			Title:    "Run the application",
			Commands: []string{"cd " + projectPath, "python run.py"},
		},
		Step{Title: "Open the API documentation at " + DocsURL},
	)
	return steps
}
