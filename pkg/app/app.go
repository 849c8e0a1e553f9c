// Package app provides the interactive host that runs the plugin: a tcell
// screen standing in for the game, with a drop-down developer console
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"consoleplus/pkg/config"
	"consoleplus/pkg/host"
	"consoleplus/pkg/input"
	"consoleplus/pkg/menu"
	"consoleplus/pkg/paste"
	"consoleplus/pkg/plugin"
)

// ToggleRune opens and closes the console
const ToggleRune = '`'

// Application represents the host application
type Application struct {
	// Host surfaces
	console  *host.Console
	queue    *host.UIQueue
	menus    *host.MenuSource
	inputs   *input.Source
	commands *host.Commands

	plugin *plugin.Plugin
	keys   *KeyTranslator

	// UI components
	screen  tcell.Screen
	panel   *menu.ConsolePanel
	overlay *menu.OverlayManager

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex

	// State
	isRunning  bool
	panelShown bool

	config AppConfig
	logger *slog.Logger
	now    func() time.Time
}

// AppConfig contains application configuration
type AppConfig struct {
	Settings config.Settings
	// HistoryPath is the resolved history file
	HistoryPath string
	// RepeatWindow is how long a key counts as held after its last event
	RepeatWindow time.Duration
	// FrameInterval is the redraw and key release period
	FrameInterval time.Duration

	// Screen defaults to the terminal
	Screen tcell.Screen
	// Clipboard defaults to the system clipboard
	Clipboard paste.Clipboard
	Logger    *slog.Logger
}

// DefaultAppConfig returns default application configuration
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Settings:      config.DefaultSettings(),
		RepeatWindow:  550 * time.Millisecond,
		FrameInterval: 50 * time.Millisecond, // 20 FPS
	}
}

// NewApplication creates a new application instance
func NewApplication(cfg AppConfig) (*Application, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if cfg.RepeatWindow <= 0 {
		cfg.RepeatWindow = DefaultAppConfig().RepeatWindow
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultAppConfig().FrameInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	app := &Application{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}

	if err := app.initializeComponents(); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	return app, nil
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	app.commands = host.NewCommands()
	app.console = host.NewConsole(app.commands)
	app.queue = host.NewUIQueue(64, app.logger.With("component", "ui"))
	app.menus = host.NewMenuSource()
	app.inputs = input.NewSource()
	app.keys = NewKeyTranslator(app.config.RepeatWindow)

	app.plugin = plugin.New(app.config.Settings, plugin.Host{
		Provider: app.console,
		Queue:    app.queue,
		Menus:    app.menus,
		Inputs:   app.inputs,
		Commands: app.commands,
	}, plugin.Options{
		Clipboard:   app.config.Clipboard,
		HistoryPath: app.config.HistoryPath,
		Logger:      app.logger,
	})
	if err := app.plugin.Register(); err != nil {
		return err
	}

	screen := app.config.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("failed to create screen: %w", err)
		}
	}
	app.screen = screen
	app.panel = menu.NewConsolePanel(host.ConsoleMenu, screen)
	app.overlay = menu.NewOverlayManager(screen)

	return nil
}

// Start starts the application
func (app *Application) Start() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.isRunning {
		return fmt.Errorf("application is already running")
	}

	if err := app.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	app.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))

	if err := app.queue.Start(); err != nil {
		app.screen.Fini()
		return fmt.Errorf("failed to start ui queue: %w", err)
	}

	app.ctx, app.cancel = context.WithCancel(context.Background())
	app.isRunning = true
	app.drawBackground()

	app.wg.Add(2)
	go app.handleUserInput()
	go app.updateUI()

	app.logger.Info("application started")
	return nil
}

// Stop closes the console, flushing its history, and shuts the application down
func (app *Application) Stop() error {
	app.mu.Lock()
	if !app.isRunning {
		app.mu.Unlock()
		return nil
	}
	app.isRunning = false
	app.cancel()
	app.mu.Unlock()

	// Same close path as Esc so history is persisted.
	if app.console.IsOpen() {
		app.closeConsole()
	}

	// Wake PollEvent so the input loop can exit.
	app.screen.PostEvent(tcell.NewEventInterrupt(nil))

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		app.logger.Warn("timeout waiting for goroutines")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	queueErr := app.queue.Stop(ctx)

	app.plugin.Unregister()
	app.screen.Fini()

	app.logger.Info("application stopped")
	if queueErr != nil {
		return fmt.Errorf("failed to stop ui queue: %w", queueErr)
	}
	return nil
}

// IsRunning returns whether the application is running
func (app *Application) IsRunning() bool {
	app.mu.RLock()
	defer app.mu.RUnlock()

	return app.isRunning
}

// Done returns a channel closed once Stop has been called
func (app *Application) Done() <-chan struct{} {
	app.mu.RLock()
	defer app.mu.RUnlock()

	if app.ctx == nil {
		return nil
	}
	return app.ctx.Done()
}

// Console returns the in-memory console
func (app *Application) Console() *host.Console {
	return app.console
}

// Queue returns the UI task queue
func (app *Application) Queue() *host.UIQueue {
	return app.queue
}

// ToggleConsole opens the console when closed and closes it when open
func (app *Application) ToggleConsole() {
	if app.console.IsOpen() {
		app.closeConsole()
		return
	}
	app.openConsole()
}

// openConsole makes the console live, then announces it
func (app *Application) openConsole() {
	app.keys.Reset()
	app.console.Open()
	app.menus.Dispatch(host.MenuEvent{Name: host.ConsoleMenu, Opening: true})
}

// closeConsole announces the close first so the history is persisted while
// the console is still live, then tears it down on the UI thread
func (app *Application) closeConsole() {
	app.menus.Dispatch(host.MenuEvent{Name: host.ConsoleMenu, Opening: false})
	if !app.queue.Enqueue(app.console.Close) {
		app.console.Close()
	}
}

// handleUserInput polls the screen for events until the application stops
func (app *Application) handleUserInput() {
	defer app.wg.Done()

	for {
		event := app.screen.PollEvent()
		if event == nil {
			return
		}

		select {
		case <-app.ctx.Done():
			return
		default:
		}

		switch ev := event.(type) {
		case *tcell.EventKey:
			app.handleKeyEvent(ev)
		case *tcell.EventResize:
			app.handleResize()
		}
	}
}

// handleKeyEvent handles keyboard events
func (app *Application) handleKeyEvent(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyCtrlQ {
		app.logger.Debug("quit requested")
		go func() {
			if err := app.Stop(); err != nil {
				app.logger.Error("failed to stop application", "error", err)
			}
		}()
		return
	}

	if ev.Key() == tcell.KeyRune && ev.Rune() == ToggleRune && ev.Modifiers()&tcell.ModCtrl == 0 {
		app.ToggleConsole()
		return
	}

	if !app.console.IsOpen() {
		return
	}

	if ev.Key() == tcell.KeyEscape {
		app.closeConsole()
		return
	}

	ks, ok := DecodeKey(ev)
	if !ok {
		return
	}

	// The keystroke's edit is queued ahead of anything the batch schedules,
	// so a paste always sees the chord's own character.
	if edit := app.editFor(ks); edit != nil {
		app.queue.Enqueue(edit)
	}

	for _, batch := range app.keys.Translate(ks, app.now()) {
		app.logger.Debug("input", "batch", batch)
		app.inputs.Dispatch(batch)
	}
}

// editFor returns the console edit a keystroke performs
func (app *Application) editFor(ks Keystroke) func() {
	c := app.console
	if ks.Rune != 0 {
		r := ks.Rune
		return func() { c.InsertRune(r) }
	}

	switch ks.Code {
	case input.KeyBackspace:
		return c.Backspace
	case input.KeyDelete:
		return c.Delete
	case input.KeyLeft:
		return func() { c.MoveCaret(-1) }
	case input.KeyRight:
		return func() { c.MoveCaret(1) }
	case input.KeyHome:
		return c.Home
	case input.KeyEnd:
		return c.End
	case input.KeyUp:
		return func() { c.Browse(-1) }
	case input.KeyDown:
		return func() { c.Browse(1) }
	case input.KeyEnter:
		return c.Submit
	}
	return nil
}

// handleResize redraws the background under the panel
func (app *Application) handleResize() {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.screen.Sync()
	app.overlay.Clear()
	app.panelShown = false
	app.drawBackground()
}

// updateUI releases idle keys and redraws the console
func (app *Application) updateUI() {
	defer app.wg.Done()

	ticker := time.NewTicker(app.config.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			if released := app.keys.Flush(app.now()); len(released) > 0 {
				app.inputs.Dispatch(released)
			}
			app.updateDisplay()
		}
	}
}

// updateDisplay draws the console over the background, or restores the
// background once the console has closed
func (app *Application) updateDisplay() {
	app.mu.Lock()
	defer app.mu.Unlock()

	if !app.isRunning {
		return
	}

	snap := app.console.Snapshot()
	switch {
	case snap.Open:
		if !app.panelShown {
			app.overlay.SaveRegion(app.panel.Bounds())
			app.panelShown = true
		}
		app.panel.Draw(snap)
	case app.panelShown:
		app.overlay.Restore()
		app.panel.Draw(snap)
		app.panelShown = false
	default:
		return
	}

	app.screen.Show()
}

// drawBackground paints the stand-in game screen
func (app *Application) drawBackground() {
	app.screen.Clear()

	width, height := app.screen.Size()
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	lines := []string{
		"consoleplus",
		fmt.Sprintf("Press %c to open the console, Ctrl+Q to quit.", ToggleRune),
		fmt.Sprintf("Paste with %s+%s.", app.config.Settings.CopyPaste.PrimaryKey, app.config.Settings.CopyPaste.SecondaryKey),
	}

	top := height - len(lines) - 1
	if top < 0 {
		top = 0
	}
	for i, line := range lines {
		line = runewidth.Truncate(line, width, "")
		x := (width - runewidth.StringWidth(line)) / 2
		for _, ch := range line {
			app.screen.SetContent(x, top+i, ch, nil, style)
			x += runewidth.RuneWidth(ch)
		}
	}

	app.screen.Show()
}
