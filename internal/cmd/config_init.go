package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/opmodel/apigen/internal/config"
	oerrors "github.com/opmodel/apigen/internal/errors"
	"github.com/opmodel/apigen/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Write a default configuration file.

The file is written to the resolved config path:
  --config flag > APIGEN_CONFIG env > ~/.apigen/config.yaml

Examples:
  # Initialize configuration
  apigen config init

  # Overwrite existing configuration
  apigen config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

func runConfigInit(force bool) error {
	if GetConfigPath() == "" {
		return reportError(oerrors.Wrap(oerrors.ErrNotFound, "could not determine config path; set --config or APIGEN_CONFIG"))
	}
	path, err := config.ExpandPath(GetConfigPath())
	if err != nil {
		return reportError(err)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return reportError(oerrors.NewValidationError(
			"configuration already exists",
			path,
			"Use --force to overwrite existing configuration.",
		))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return reportError(oerrors.Wrap(err, "could not create config directory"))
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return reportError(err)
	}
	header := []byte("# apigen configuration. Flags and APIGEN_* environment variables take precedence.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return reportError(oerrors.Wrap(err, "could not write config file"))
	}

	output.Println(output.FormatCheckmark("Configuration written to " + output.StyleNoun.Render(path)))
	output.Println("Validate with: apigen config vet")
	return nil
}
