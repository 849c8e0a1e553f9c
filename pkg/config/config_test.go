package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consoleplus/pkg/fault"
	"consoleplus/pkg/history"
	"consoleplus/pkg/input"
	"consoleplus/pkg/paste"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.True(t, s.General.CopyPaste)
	assert.True(t, s.General.CacheCommands)
	assert.Equal(t, input.KeyLeftControl, s.CopyPaste.PrimaryKey)
	assert.Equal(t, input.KeyV, s.CopyPaste.SecondaryKey)
	assert.Equal(t, paste.ModeInsertAtCaret, s.PasteMode())
	assert.Equal(t, 10*time.Millisecond, s.InputDelay())
	assert.Equal(t, history.Policy{Limit: 50, AllowDuplicates: true}, s.HistoryPolicy())
	assert.False(t, s.History.ReloadOnOpen)
	assert.Equal(t, "history.txt", s.History.File)
	assert.Equal(t, "info", s.Log.Level)
	assert.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(s *Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"append mode", func(s *Settings) { s.CopyPaste.PasteType = 1 }, false},
		{"unknown paste mode", func(s *Settings) { s.CopyPaste.PasteType = 2 }, true},
		{"missing primary key", func(s *Settings) { s.CopyPaste.PrimaryKey = input.KeyNone }, true},
		{"missing secondary key", func(s *Settings) { s.CopyPaste.SecondaryKey = input.KeyNone }, true},
		{"same keys", func(s *Settings) { s.CopyPaste.SecondaryKey = input.KeyLeftControl }, true},
		{"negative delay", func(s *Settings) { s.CopyPaste.InputDelay = -1 }, true},
		{"zero delay", func(s *Settings) { s.CopyPaste.InputDelay = 0 }, false},
		{"negative limit", func(s *Settings) { s.History.Limit = -5 }, true},
		{"unlimited history", func(s *Settings) { s.History.Limit = 0 }, false},
		{"empty history file", func(s *Settings) { s.History.File = " " }, true},
		{"bad log level", func(s *Settings) { s.Log.Level = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)

			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileSettingsManager_LoadCreatesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "consoleplus")
	fsm := NewFileSettingsManager(dir)

	settings, err := fsm.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)

	_, err = os.Stat(filepath.Join(dir, "settings.toml"))
	assert.NoError(t, err, "settings file should be written on first load")
}

func TestFileSettingsManager_LoadPartialFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[general]
cache_commands = false

[copy_paste]
primary_key = "RightControl"
secondary_key = 0x2F
paste_type = 1
input_delay = 25

[history]
limit = 10
allow_duplicates = false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(content), 0644))

	settings, err := NewFileSettingsManager(dir).Load()
	require.NoError(t, err)

	assert.True(t, settings.General.CopyPaste, "missing keys keep defaults")
	assert.False(t, settings.General.CacheCommands)
	assert.Equal(t, input.KeyRightControl, settings.CopyPaste.PrimaryKey)
	assert.Equal(t, input.KeyV, settings.CopyPaste.SecondaryKey)
	assert.Equal(t, paste.ModeAppendAtEnd, settings.PasteMode())
	assert.Equal(t, 25*time.Millisecond, settings.InputDelay())
	assert.Equal(t, history.Policy{Limit: 10, AllowDuplicates: false}, settings.HistoryPolicy())
	assert.Equal(t, "history.txt", settings.History.File)
}

func TestFileSettingsManager_LoadScanCodes(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		wantPrimary   input.KeyCode
		wantSecondary input.KeyCode
	}{
		{
			name:          "integers are raw scan codes",
			content:       "[copy_paste]\nprimary_key = 0x1D\nsecondary_key = 0x05\n",
			wantPrimary:   input.KeyLeftControl,
			wantSecondary: input.Key4,
		},
		{
			name:          "decimal integer in digit range",
			content:       "[copy_paste]\nprimary_key = 29\nsecondary_key = 11\n",
			wantPrimary:   input.KeyLeftControl,
			wantSecondary: input.Key0,
		},
		{
			name:          "names",
			content:       "[copy_paste]\nprimary_key = \"RightAlt\"\nsecondary_key = \"5\"\n",
			wantPrimary:   input.KeyRightAlt,
			wantSecondary: input.Key5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(tt.content), 0644))

			settings, err := NewFileSettingsManager(dir).Load()
			require.NoError(t, err)

			assert.Equal(t, tt.wantPrimary, settings.CopyPaste.PrimaryKey)
			assert.Equal(t, tt.wantSecondary, settings.CopyPaste.SecondaryKey)
		})
	}
}

func TestFileSettingsManager_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", "[general\ncopy_paste = true"},
		{"unknown key name", "[copy_paste]\nprimary_key = \"Hyper\""},
		{"invalid paste type", "[copy_paste]\npaste_type = 3"},
		{"negative limit", "[history]\nlimit = -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(tt.content), 0644))

			_, err := NewFileSettingsManager(dir).Load()
			require.Error(t, err)
			assert.True(t, fault.Is(err, fault.ErrorConfig))
		})
	}
}

func TestFileSettingsManager_SaveAndLoad(t *testing.T) {
	fsm := NewFileSettingsManager(t.TempDir())

	settings := DefaultSettings()
	settings.General.CopyPaste = false
	settings.CopyPaste.PrimaryKey = input.KeyLeftAlt
	settings.CopyPaste.SecondaryKey = input.KeyInsert
	settings.CopyPaste.InputDelay = 50
	settings.History.ReloadOnOpen = true
	settings.History.File = "/var/tmp/history.txt"
	settings.Log.Level = "debug"

	require.NoError(t, fsm.Save(settings))

	loaded, err := fsm.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)

	_, err = os.Stat(fsm.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileSettingsManager_SaveRejectsInvalid(t *testing.T) {
	fsm := NewFileSettingsManager(t.TempDir())
	settings := DefaultSettings()
	settings.CopyPaste.PasteType = 9

	err := fsm.Save(settings)
	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.ErrorConfig))

	_, err = os.Stat(fsm.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestFileSettingsManager_Paths(t *testing.T) {
	fsm := NewFileSettingsManager("/etc/consoleplus")

	assert.Equal(t, "/etc/consoleplus", fsm.Dir())
	assert.Equal(t, filepath.Join("/etc/consoleplus", "settings.toml"), fsm.Path())
	assert.Equal(t, filepath.Join("/etc/consoleplus", "history.txt"), fsm.ResolvePath("history.txt"))
	assert.Equal(t, "/tmp/history.txt", fsm.ResolvePath("/tmp/history.txt"))
}

func TestEncode(t *testing.T) {
	data, err := Encode(DefaultSettings())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "[copy_paste]")
	assert.Contains(t, text, `primary_key = "LeftControl"`)
	assert.Contains(t, text, `secondary_key = "V"`)
	assert.Contains(t, text, "limit = 50")
}
