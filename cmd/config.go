package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"consoleplus/pkg/config"
)

// Config command flags
var configForce bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
	Long: `Manage the consoleplus settings file.

Settings live in settings.toml inside the settings directory
(--config-dir, default ~/.consoleplus). The file is created with
default values the first time any command needs it.`,
}

// configShowCmd prints the effective settings
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configInitCmd writes the settings file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the settings file with default values",
	Long: `Create the settings file with default values.

An existing file is left alone unless --force is given.

Example:
  consoleplus config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configPathCmd prints where the settings file lives
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  cobra.NoArgs,
	Run:   runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing settings file")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	manager, settings, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := config.Encode(settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if verbose {
		fmt.Fprintf(out, "# %s\n", manager.Path())
	}
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	manager := settingsManager()

	var err error
	if configForce {
		err = manager.Save(config.DefaultSettings())
	} else {
		err = manager.Initialize()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Settings file: %s\n", manager.Path())
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) {
	fmt.Fprintln(cmd.OutOrStdout(), settingsManager().Path())
}
