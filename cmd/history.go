package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"consoleplus/pkg/history"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or clear the saved command history",
	Long: `Inspect or clear the console command history saved between sessions.

The history file is set by [history] file in the settings and is resolved
against the settings directory.`,
}

// historyListCmd prints the saved history
var historyListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List saved commands, oldest first",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runHistoryList,
}

// historyClearCmd empties the saved history
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the saved history",
	Long: `Empty the saved history file.

The same can be done from inside the console with the ClearConsoleHistory
(or ClearHistory) command.`,
	Args: cobra.NoArgs,
	RunE: runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}

// historyStore opens the history file named by the settings
func historyStore() (*history.FileStore, error) {
	manager, settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return history.NewFileStore(manager.ResolvePath(settings.History.File)), nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := historyStore()
	if err != nil {
		return err
	}

	entries, err := store.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No saved history found.")
		if verbose {
			fmt.Fprintf(out, "History file: %s\n", store.Path())
		}
		return nil
	}

	fmt.Fprintf(out, "Found %d saved command(s):\n\n", len(entries))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, entry := range entries {
		fmt.Fprintf(w, "%d\t%s\n", i+1, entry)
	}
	w.Flush()

	if verbose {
		fmt.Fprintf(out, "\nHistory file: %s\n", store.Path())
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := historyStore()
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}
