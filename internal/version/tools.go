package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"time"
)

// toolVersionRegex matches version output like "Python 3.12.1" or "uv 0.4.18".
var toolVersionRegex = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?(?:[-+][a-zA-Z0-9.]+)?`)

// ToolInfo describes an external tool used by environment bootstrap.
type ToolInfo struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Version string `json:"version"`
	Found   bool   `json:"found"`
	Message string `json:"message,omitempty"`
}

// String returns a one-line description of the tool.
func (t ToolInfo) String() string {
	if !t.Found {
		return fmt.Sprintf("  %-8s not found", t.Name+":")
	}
	if t.Version == "" {
		return fmt.Sprintf("  %-8s %s (%s)", t.Name+":", t.Path, t.Message)
	}
	return fmt.Sprintf("  %-8s %s (%s)", t.Name+":", t.Version, t.Path)
}

// DetectTool looks name up on PATH and runs it with --version.
func DetectTool(name string) ToolInfo {
	path, err := exec.LookPath(name)
	if err != nil {
		return ToolInfo{Name: name, Message: "not found in PATH"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--version")
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return ToolInfo{Name: name, Path: path, Found: true, Message: "failed to get version: " + err.Error()}
	}

	return ToolInfo{Name: name, Path: path, Found: true, Version: extractVersion(out.String())}
}

// extractVersion pulls the first version-looking token out of tool output.
func extractVersion(output string) string {
	return toolVersionRegex.FindString(output)
}
