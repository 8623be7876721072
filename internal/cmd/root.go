// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/apigen/internal/config"
	"github.com/opmodel/apigen/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool

	// Loaded during PersistentPreRunE
	loadedConfig *config.Config
	configPath   config.ResolvedValue
)

// NewRootCmd creates the root command for the apigen CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apigen",
		Short: "CRUD web-API project generator",
		Long: `apigen stamps out a new CRUD web-API project from a built-in template.

It scaffolds the package layout, copies the template with the project name
substituted, drops files for disabled features, writes .env and can create
a ready-to-use Python virtual environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: APIGEN_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewCreateCmd())
	rootCmd.AddCommand(NewTemplatesCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads the config file.
func initializeGlobals(cmd *cobra.Command) error {
	resolvedPath, pathErr := config.ResolveConfigPath(configFlag)
	configPath = resolvedPath

	var loadErr error
	loadedConfig = nil
	if pathErr == nil {
		loadedConfig, loadErr = config.NewLoader().Load(resolvedPath.Value)
	}

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if loadedConfig != nil && loadedConfig.Log.Timestamps != nil {
		logCfg.Timestamps = loadedConfig.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	// Commands that don't need config keep working with defaults.
	switch {
	case pathErr != nil:
		output.Debug("config path error", "error", pathErr)
	case loadErr != nil:
		output.Warn("ignoring unreadable config file", "path", resolvedPath.Value, "error", loadErr)
	}

	output.Debug("initializing CLI", "config", resolvedPath.Value, "source", resolvedPath.Source)
	return nil
}

// GetConfig returns the loaded config file, or nil when none was read.
func GetConfig() *config.Config {
	return loadedConfig
}

// GetConfigPath returns the config path resolved in PersistentPreRunE, or
// the --config flag when no default path could be determined.
func GetConfigPath() string {
	if configPath.Value != "" {
		return configPath.Value
	}
	return configFlag
}
