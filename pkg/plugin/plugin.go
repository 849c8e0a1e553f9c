// Package plugin wires the paste chord and the history cache to the host's
// menu and input events.
package plugin

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"consoleplus/pkg/chord"
	"consoleplus/pkg/config"
	"consoleplus/pkg/history"
	"consoleplus/pkg/host"
	"consoleplus/pkg/input"
	"consoleplus/pkg/paste"
)

// Command names registered on the host console
const (
	ClearHistoryCommand      = "ClearConsoleHistory"
	ClearHistoryShortCommand = "ClearHistory"
)

// Host is everything the plugin needs from the host process
type Host struct {
	Provider host.Provider
	Queue    host.TaskQueue
	Menus    *host.MenuSource
	Inputs   *input.Source
	Commands host.CommandRegistry
}

// Plugin owns the chord detector, paste engine and history cache for one
// session. It is a menu sink and, while the console is open and copy-paste is
// enabled, an input sink.
type Plugin struct {
	settings config.Settings
	host     Host
	logger   *slog.Logger

	detector *chord.Detector
	engine   *paste.Engine
	cache    *history.Cache

	consoleOpen  atomic.Bool
	pastePending atomic.Bool
}

// Options overrides the plugin's default collaborators
type Options struct {
	// Clipboard defaults to the system clipboard
	Clipboard paste.Clipboard
	// Store defaults to a FileStore at HistoryPath
	Store history.Store
	// HistoryPath is the history file used when Store is nil
	HistoryPath string
	Logger      *slog.Logger
}

// New creates a plugin. Settings must already be validated.
func New(settings config.Settings, h Host, opts Options) *Plugin {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store := opts.Store
	if store == nil {
		path := opts.HistoryPath
		if path == "" {
			path = settings.History.File
		}
		store = history.NewFileStore(path)
	}

	p := &Plugin{
		settings: settings,
		host:     h,
		logger:   logger,
		detector: chord.NewDetector(settings.CopyPaste.PrimaryKey, settings.CopyPaste.SecondaryKey),
	}

	p.engine = paste.NewEngine(paste.EngineConfig{
		Provider:  h.Provider,
		Queue:     h.Queue,
		Clipboard: opts.Clipboard,
		Mode:      settings.PasteMode(),
		Delay:     settings.InputDelay(),
		Logger:    logger.With("component", "paste"),
	})

	p.cache = history.NewCache(history.CacheConfig{
		Store:        store,
		Provider:     h.Provider,
		Policy:       settings.HistoryPolicy(),
		ReloadOnOpen: settings.History.ReloadOnOpen,
		Logger:       logger.With("component", "history"),
	})

	return p
}

// Register subscribes to menu events and adds the console commands
func (p *Plugin) Register() error {
	p.host.Menus.AddSink(p)

	if p.host.Commands != nil {
		err := p.host.Commands.RegisterCommand(ClearHistoryCommand, ClearHistoryShortCommand, p.clearHistory)
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", ClearHistoryCommand, err)
		}
	}

	p.logger.Info("plugin registered",
		"copy_paste", p.settings.General.CopyPaste,
		"cache_commands", p.settings.General.CacheCommands,
		"chord", fmt.Sprintf("%s+%s", p.settings.CopyPaste.PrimaryKey, p.settings.CopyPaste.SecondaryKey),
		"paste_mode", p.engine.Mode(),
	)
	return nil
}

// Unregister removes the plugin from the host's event sources
func (p *Plugin) Unregister() {
	p.host.Menus.RemoveSink(p)
	p.host.Inputs.RemoveSink(p)
}

// Detector returns the chord detector
func (p *Plugin) Detector() *chord.Detector {
	return p.detector
}

// Cache returns the history cache
func (p *Plugin) Cache() *history.Cache {
	return p.cache
}

// ProcessMenuEvent implements host.MenuSink
func (p *Plugin) ProcessMenuEvent(ev host.MenuEvent) {
	if ev.Name != host.ConsoleMenu {
		return
	}

	p.detector.Reset()
	p.consoleOpen.Store(ev.Opening)

	if ev.Opening {
		p.logger.Debug("console opened")
		if p.settings.General.CacheCommands {
			p.enqueue("restore history", p.cache.Restore)
		}
		// A paste still in flight from before the close re-adds the
		// listener itself when it lands.
		if p.settings.General.CopyPaste && !p.pastePending.Load() {
			p.host.Inputs.AddSink(p)
		}
		return
	}

	p.logger.Debug("console closed")
	if p.settings.General.CacheCommands {
		p.enqueue("persist history", p.cache.Persist)
	}
	if p.settings.General.CopyPaste {
		p.host.Inputs.RemoveSink(p)
	}
}

// ProcessInput implements input.Sink
func (p *Plugin) ProcessInput(batch []input.ButtonEvent) {
	if !p.detector.Process(batch) {
		return
	}

	text, err := p.engine.ReadClipboard()
	if err != nil {
		p.logger.Debug("paste chord ignored", "error", err)
		return
	}

	// Stop listening until the paste lands so the chord cannot fire again
	// in between.
	p.host.Inputs.RemoveSink(p)
	p.pastePending.Store(true)
	p.engine.Schedule(text, func() {
		p.pastePending.Store(false)
		if p.settings.General.CopyPaste && p.consoleOpen.Load() {
			p.host.Inputs.AddSink(p)
		}
	})
}

// clearHistory runs on the UI thread like every console command
func (p *Plugin) clearHistory([]string) error {
	if err := p.cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear console history: %w", err)
	}
	return nil
}

func (p *Plugin) enqueue(what string, task func()) {
	if !p.host.Queue.Enqueue(task) {
		p.logger.Debug("ui queue rejected task", "task", what)
	}
}
