package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consoleplus/pkg/config"
	"consoleplus/pkg/fault"
	"consoleplus/pkg/history"
)

// execute runs the root command with args and returns everything it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	verbose = false
	configDir = ""
	configForce = false

	output := &bytes.Buffer{}
	rootCmd.SetOut(output)
	rootCmd.SetErr(output)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return output.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "consoleplus", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "history", "config"})

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestHelpOutput(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"--help"}, []string{"run", "history", "config", "--config-dir"}},
		{[]string{"run", "--help"}, []string{"Start the interactive console", "--clipboard", "--repeat-window"}},
		{[]string{"history", "--help"}, []string{"list", "clear"}},
		{[]string{"config", "--help"}, []string{"show", "init", "path"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "config", "path", "--config-dir", dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "settings.toml")+"\n", out)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "config", "init", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "settings.toml"))
	assert.FileExists(t, filepath.Join(dir, "settings.toml"))

	out, err = execute(t, "config", "show", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "[copy_paste]")
	assert.Contains(t, out, `primary_key = "LeftControl"`)
	assert.Contains(t, out, `secondary_key = "V"`)
	assert.Contains(t, out, "[history]")
}

func TestConfigInit_KeepsExistingUnlessForced(t *testing.T) {
	dir := t.TempDir()
	manager := config.NewFileSettingsManager(dir)

	custom := config.DefaultSettings()
	custom.CopyPaste.PasteType = 1
	require.NoError(t, manager.Save(custom))

	_, err := execute(t, "config", "init", "--config-dir", dir)
	require.NoError(t, err)
	loaded, err := manager.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.CopyPaste.PasteType)

	_, err = execute(t, "config", "init", "--force", "--config-dir", dir)
	require.NoError(t, err)
	loaded, err = manager.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), loaded)
}

func TestConfigShow_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("[copy_paste]\npaste_type = 7\n"), 0644))

	_, err := execute(t, "config", "show", "--config-dir", dir)

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.ErrorConfig))
}

func TestHistoryList(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "history", "list", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No saved history found.")

	require.NoError(t, history.NewFileStore(filepath.Join(dir, "history.txt")).Save([]string{"tgm", "coc riverwood"}))

	out, err = execute(t, "history", "ls", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 saved command(s)")
	assert.Contains(t, out, "1  tgm")
	assert.Contains(t, out, "2  coc riverwood")
}

func TestHistoryList_UsesConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	settings := config.DefaultSettings()
	settings.History.File = "commands.txt"
	require.NoError(t, config.NewFileSettingsManager(dir).Save(settings))
	require.NoError(t, history.NewFileStore(filepath.Join(dir, "commands.txt")).Save([]string{"tcl"}))

	out, err := execute(t, "history", "list", "--verbose", "--config-dir", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "1  tcl")
	assert.Contains(t, out, filepath.Join(dir, "commands.txt"))
}

func TestHistoryClear(t *testing.T) {
	dir := t.TempDir()
	store := history.NewFileStore(filepath.Join(dir, "history.txt"))
	require.NoError(t, store.Save([]string{"tgm"}))

	out, err := execute(t, "history", "clear", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared.")

	entries, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
