package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"consoleplus/pkg/app"
	"consoleplus/pkg/logging"
	"consoleplus/pkg/paste"
)

var (
	// Run command flags
	clipboardText string
	repeatWindow  time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive console",
	Long: `Start a terminal session hosting the plugin.

Press ` + "`" + ` to open the console, type commands and press Enter to run them.
The configured chord (LeftControl+V by default) pastes the clipboard into
the command line. History is saved when the console closes.

Examples:
  # Use the settings in ~/.consoleplus
  consoleplus run

  # Paste fixed text instead of the system clipboard
  consoleplus run --clipboard "player.additem 0000000f 100"`,
	Aliases: []string{"start"},
	Args:    cobra.NoArgs,
	RunE:    runConsole,
}

func init() {
	runCmd.Flags().StringVar(&clipboardText, "clipboard", "", "paste this text instead of reading the system clipboard")
	runCmd.Flags().DurationVar(&repeatWindow, "repeat-window", app.DefaultAppConfig().RepeatWindow, "how long a key counts as held after its last event")
}

func runConsole(cmd *cobra.Command, args []string) error {
	manager, settings, err := loadSettings()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(settings.Log.Level)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}

	logPath := manager.ResolvePath(settings.Log.File)
	logger, closeLog, err := logging.Open(logPath, level)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := app.DefaultAppConfig()
	cfg.Settings = settings
	cfg.HistoryPath = manager.ResolvePath(settings.History.File)
	cfg.RepeatWindow = repeatWindow
	cfg.Logger = logger
	if clipboardText != "" {
		cfg.Clipboard = paste.NewStaticClipboard(clipboardText)
	}

	if verbose {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Settings: %s\n", manager.Path())
		fmt.Fprintf(out, "History:  %s\n", cfg.HistoryPath)
		fmt.Fprintf(out, "Log:      %s\n", logPath)
	}

	logger.Info("starting console",
		"settings", manager.Path(),
		"chord", fmt.Sprintf("%s+%s", settings.CopyPaste.PrimaryKey, settings.CopyPaste.SecondaryKey),
		"paste_mode", settings.PasteMode())

	if err := app.RunInteractive(cfg); err != nil {
		return fmt.Errorf("error running console: %w", err)
	}
	return nil
}
