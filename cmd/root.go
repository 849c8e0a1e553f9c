package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"consoleplus/pkg/config"
)

var (
	// Root command flags
	verbose   bool
	configDir string

	// Root command
	rootCmd = &cobra.Command{
		Use:   "consoleplus",
		Short: "Clipboard paste and persistent history for a developer console",
		Long: `consoleplus adds two features to a game's developer console:
pasting the clipboard with a key chord, and keeping the command history
between sessions.

The run command starts an interactive console in the terminal that hosts
the plugin.`,
		Version:           "1.0.0",
		Run:               runRoot,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (default ~/.consoleplus)")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig resolves the settings directory when the flag is not given
func initConfig() {
	if configDir != "" {
		return
	}
	if dir, err := config.DefaultConfigDir(); err == nil {
		configDir = dir
	}
}

// settingsManager returns the manager for the selected settings directory
func settingsManager() *config.FileSettingsManager {
	return config.NewFileSettingsManager(configDir)
}

// loadSettings reads the settings file, creating it with defaults on first use
func loadSettings() (*config.FileSettingsManager, config.Settings, error) {
	manager := settingsManager()
	settings, err := manager.Load()
	if err != nil {
		return nil, config.Settings{}, err
	}
	return manager, settings, nil
}

func runRoot(cmd *cobra.Command, args []string) {
	// Always show help when root command is called without subcommands
	cmd.Help()
}
