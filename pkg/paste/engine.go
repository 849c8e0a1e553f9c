package paste

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"consoleplus/pkg/fault"
	"consoleplus/pkg/host"
)

// ErrEmptyClipboard is returned by ReadClipboard when there is nothing to paste
var ErrEmptyClipboard = fault.New(fault.ErrorEmptyClipboard, "read clipboard", "clipboard has no text", nil)

// Engine applies pastes to the console entry after a fixed delay
type Engine struct {
	provider  host.Provider
	queue     host.TaskQueue
	clipboard Clipboard
	mode      Mode
	delay     time.Duration
	logger    *slog.Logger

	// afterFunc is time.AfterFunc; tests replace it to control the delay
	afterFunc func(d time.Duration, f func()) *time.Timer
}

// EngineConfig contains the engine's collaborators and settings
type EngineConfig struct {
	Provider  host.Provider
	Queue     host.TaskQueue
	Clipboard Clipboard
	Mode      Mode
	Delay     time.Duration
	Logger    *slog.Logger
}

// NewEngine creates a paste engine
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clip := cfg.Clipboard
	if clip == nil {
		clip = SystemClipboard{}
	}

	return &Engine{
		provider:  cfg.Provider,
		queue:     cfg.Queue,
		clipboard: clip,
		mode:      cfg.Mode,
		delay:     cfg.Delay,
		logger:    logger,
		afterFunc: time.AfterFunc,
	}
}

// Mode returns the configured paste mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// ReadClipboard returns the clipboard text with one trailing line break
// removed. An unreadable or empty clipboard yields ErrEmptyClipboard.
func (e *Engine) ReadClipboard() (string, error) {
	text, err := e.clipboard.ReadText()
	if err != nil {
		e.logger.Debug("clipboard unreadable", "error", err)
		return "", ErrEmptyClipboard
	}

	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	if text == "" {
		return "", ErrEmptyClipboard
	}
	return text, nil
}

// Schedule applies text after the configured delay, on the UI queue. done
// runs on the UI queue once the paste is applied or discarded, or right away
// on the timer goroutine if the queue refuses the task. There is no way to
// cancel a scheduled paste.
func (e *Engine) Schedule(text string, done func()) {
	id := uuid.NewString()
	e.logger.Debug("paste scheduled", "id", id, "delay", e.delay, "mode", e.mode)

	finish := func() {
		if done != nil {
			done()
		}
	}

	e.afterFunc(e.delay, func() {
		accepted := e.queue.Enqueue(func() {
			defer finish()

			if err := e.Apply(text); err != nil {
				e.logger.Debug("paste discarded", "id", id, "error", err)
				return
			}
			e.logger.Debug("paste applied", "id", id)
		})
		if !accepted {
			e.logger.Debug("paste dropped, ui queue stopped", "id", id)
			finish()
		}
	})
}

// Apply pastes text into the console entry. It must run on the UI queue.
// When the console is not available nothing is written.
func (e *Engine) Apply(text string) error {
	surface, ok := e.provider.Surface()
	if !ok {
		return host.Unavailable("apply paste", "console")
	}

	oldText, err := surface.GetText(host.CommandEntryTextPath)
	if err != nil {
		return err
	}

	var caret uint
	if e.mode == ModeInsertAtCaret {
		if caret, err = surface.GetUint(host.CommandEntryCaretPath); err != nil {
			return err
		}
	}

	result := Splice(Request{
		ClipboardText: text,
		OldText:       oldText,
		Caret:         caret,
		Mode:          e.mode,
	})

	if err := surface.SetText(host.CommandEntryTextPath, result.Text); err != nil {
		return err
	}
	return surface.Invoke(host.SetSelectionMethod, result.Caret, result.Caret)
}
