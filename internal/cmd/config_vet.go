package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/opmodel/apigen/internal/config"
	oerrors "github.com/opmodel/apigen/internal/errors"
	"github.com/opmodel/apigen/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the apigen configuration file against its schema.

Checks performed:
  1. Config file exists at the resolved path
  2. Config file is valid YAML
  3. Only known keys are used and values have the right types

The config path is resolved using precedence:
  --config flag > APIGEN_CONFIG env > ~/.apigen/config.yaml

Examples:
  # Validate default configuration
  apigen config vet

  # Validate custom config path
  apigen config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	if GetConfigPath() == "" {
		return reportError(oerrors.Wrap(oerrors.ErrNotFound, "could not determine config path; set --config or APIGEN_CONFIG"))
	}
	path, err := config.ExpandPath(GetConfigPath())
	if err != nil {
		return reportError(err)
	}

	output.Debug("validating config", "path", path, "source", configPath.Source)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return reportError(oerrors.NewNotFoundError(
			"configuration file not found",
			path,
			"Run 'apigen config init' to create default configuration.",
		))
	}

	validator, err := config.NewValidator()
	if err != nil {
		return reportError(err)
	}
	if err := validator.ValidateFile(path); err != nil {
		return reportError(oerrors.NewValidationError(err.Error(), path, "Compare with the output of 'apigen config init'."))
	}

	output.Println(output.FormatCheckmark("Configuration is valid: " + path))
	return nil
}
