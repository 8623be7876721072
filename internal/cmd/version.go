package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/apigen/internal/output"
	"github.com/opmodel/apigen/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show apigen version information.

Displays:
  - apigen version, commit, and build date
  - Python toolchain found on PATH (python3, uv)`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	tools := []version.ToolInfo{
		version.DetectTool("python3"),
		version.DetectTool("uv"),
	}
	output.Println(version.FullVersionString(version.Get(), tools))
	return nil
}
