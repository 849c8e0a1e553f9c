// Package config provides settings management functionality
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"consoleplus/pkg/fault"
	"consoleplus/pkg/history"
	"consoleplus/pkg/input"
	"consoleplus/pkg/logging"
	"consoleplus/pkg/paste"
)

// SettingsManager interface defines the contract for settings operations
type SettingsManager interface {
	Load() (Settings, error)
	Save(settings Settings) error
	Path() string
}

// Settings is the plugin's configuration. It is read once at startup and
// never changes for the rest of the session.
type Settings struct {
	General   GeneralSettings   `toml:"general"`
	CopyPaste CopyPasteSettings `toml:"copy_paste"`
	History   HistorySettings   `toml:"history"`
	Log       LogSettings       `toml:"log"`
}

// GeneralSettings switches the plugin's features on and off
type GeneralSettings struct {
	CopyPaste     bool `toml:"copy_paste"`
	CacheCommands bool `toml:"cache_commands"`
}

// CopyPasteSettings configures the paste chord
type CopyPasteSettings struct {
	PrimaryKey   input.KeyCode `toml:"primary_key"`
	SecondaryKey input.KeyCode `toml:"secondary_key"`
	// PasteType is 0 to insert at the caret, 1 to append at the end
	PasteType int `toml:"paste_type"`
	// InputDelay is in milliseconds
	InputDelay int `toml:"input_delay"`
}

// HistorySettings configures the command history cache
type HistorySettings struct {
	Limit           int    `toml:"limit"`
	AllowDuplicates bool   `toml:"allow_duplicates"`
	ReloadOnOpen    bool   `toml:"reload_on_open"`
	File            string `toml:"file"`
}

// LogSettings configures the plugin log
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultSettings returns the default settings
func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			CopyPaste:     true,
			CacheCommands: true,
		},
		CopyPaste: CopyPasteSettings{
			PrimaryKey:   input.KeyLeftControl,
			SecondaryKey: input.KeyV,
			PasteType:    int(paste.ModeInsertAtCaret),
			InputDelay:   10,
		},
		History: HistorySettings{
			Limit:           50,
			AllowDuplicates: true,
			File:            "history.txt",
		},
		Log: LogSettings{
			Level: "info",
			File:  "consoleplus.log",
		},
	}
}

// Validate checks if the settings are valid
func (s Settings) Validate() error {
	if s.CopyPaste.PrimaryKey == input.KeyNone {
		return fmt.Errorf("primary key cannot be empty")
	}
	if s.CopyPaste.SecondaryKey == input.KeyNone {
		return fmt.Errorf("secondary key cannot be empty")
	}
	if s.CopyPaste.PrimaryKey == s.CopyPaste.SecondaryKey {
		return fmt.Errorf("primary and secondary key must differ, both are %s", s.CopyPaste.PrimaryKey)
	}

	if _, err := paste.ParseMode(s.CopyPaste.PasteType); err != nil {
		return err
	}

	if s.CopyPaste.InputDelay < 0 {
		return fmt.Errorf("input delay cannot be negative, got: %d", s.CopyPaste.InputDelay)
	}

	if err := s.HistoryPolicy().Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.History.File) == "" {
		return fmt.Errorf("history file cannot be empty")
	}

	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return err
	}

	return nil
}

// PasteMode returns the configured paste mode. Validate guarantees it parses.
func (s Settings) PasteMode() paste.Mode {
	mode, _ := paste.ParseMode(s.CopyPaste.PasteType)
	return mode
}

// InputDelay returns the delay between the chord and the paste
func (s Settings) InputDelay() time.Duration {
	return time.Duration(s.CopyPaste.InputDelay) * time.Millisecond
}

// HistoryPolicy returns the history bounds
func (s Settings) HistoryPolicy() history.Policy {
	return history.Policy{
		Limit:           s.History.Limit,
		AllowDuplicates: s.History.AllowDuplicates,
	}
}

// FileSettingsManager implements SettingsManager using a TOML file
type FileSettingsManager struct {
	configDir  string
	configFile string
}

// NewFileSettingsManager creates a new file-based settings manager
func NewFileSettingsManager(configDir string) *FileSettingsManager {
	return &FileSettingsManager{
		configDir:  configDir,
		configFile: "settings.toml",
	}
}

// DefaultConfigDir returns ~/.consoleplus
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".consoleplus"), nil
}

// Initialize creates the configuration directory and writes the default
// settings if no settings file exists
func (fsm *FileSettingsManager) Initialize() error {
	if err := os.MkdirAll(fsm.configDir, 0755); err != nil {
		return fault.New(fault.ErrorConfig, "initialize", "failed to create config directory", err)
	}

	if _, err := os.Stat(fsm.Path()); os.IsNotExist(err) {
		if err := fsm.write(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to initialize settings file: %w", err)
		}
	}

	return nil
}

// Load reads the settings file over the defaults, creating it first if it is
// missing. Keys absent from the file keep their default values.
func (fsm *FileSettingsManager) Load() (Settings, error) {
	if err := fsm.Initialize(); err != nil {
		return Settings{}, err
	}

	settings := DefaultSettings()
	if _, err := toml.DecodeFile(fsm.Path(), &settings); err != nil {
		return Settings{}, fault.New(fault.ErrorConfig, "load settings", "failed to parse "+fsm.Path(), err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, fault.New(fault.ErrorConfig, "load settings", "invalid settings", err)
	}

	return settings, nil
}

// Save validates and writes settings
func (fsm *FileSettingsManager) Save(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return fault.New(fault.ErrorConfig, "save settings", "invalid settings", err)
	}

	if err := os.MkdirAll(fsm.configDir, 0755); err != nil {
		return fault.New(fault.ErrorConfig, "save settings", "failed to create config directory", err)
	}

	return fsm.write(settings)
}

// Path returns the full path to the settings file
func (fsm *FileSettingsManager) Path() string {
	return filepath.Join(fsm.configDir, fsm.configFile)
}

// Dir returns the configuration directory
func (fsm *FileSettingsManager) Dir() string {
	return fsm.configDir
}

// ResolvePath makes a settings-relative file name absolute against the
// configuration directory
func (fsm *FileSettingsManager) ResolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(fsm.configDir, name)
}

// Encode renders settings as TOML
func Encode(settings Settings) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# consoleplus settings\n\n")
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return buf.Bytes(), nil
}

// write saves settings to a temporary file first, then renames it into place
func (fsm *FileSettingsManager) write(settings Settings) error {
	data, err := Encode(settings)
	if err != nil {
		return fault.New(fault.ErrorConfig, "save settings", "failed to encode settings", err)
	}

	configPath := fsm.Path()
	tempPath := configPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fault.New(fault.ErrorConfig, "save settings", "failed to write temporary settings file", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		os.Remove(tempPath)
		return fault.New(fault.ErrorConfig, "save settings", "failed to rename temporary settings file", err)
	}

	return nil
}
