package app

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"consoleplus/pkg/input"
)

// Keystroke is a decoded terminal key event
type Keystroke struct {
	Code input.KeyCode
	Rune rune // printable rune, 0 for special keys
	Ctrl bool
}

// specialKeys maps the non-printing keys the console edits with
var specialKeys = map[tcell.Key]input.KeyCode{
	tcell.KeyBackspace:  input.KeyBackspace,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyDelete:     input.KeyDelete,
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyEscape:     input.KeyEscape,
	tcell.KeyLeft:       input.KeyLeft,
	tcell.KeyRight:      input.KeyRight,
	tcell.KeyUp:         input.KeyUp,
	tcell.KeyDown:       input.KeyDown,
	tcell.KeyHome:       input.KeyHome,
	tcell.KeyEnd:        input.KeyEnd,
	tcell.KeyInsert:     input.KeyInsert,
}

// DecodeKey maps a tcell key event to a scan code. ok is false for keys the
// console has no use for.
func DecodeKey(ev *tcell.EventKey) (ks Keystroke, ok bool) {
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0

	switch key := ev.Key(); {
	case key == tcell.KeyRune:
		code, found := input.KeyForRune(ev.Rune())
		if !found {
			code = input.KeyNone
		}
		return Keystroke{Code: code, Rune: ev.Rune(), Ctrl: ctrl}, true

	case ctrl && key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
		r := rune('a' + (key - tcell.KeyCtrlA))
		code, _ := input.KeyForRune(r)
		return Keystroke{Code: code, Rune: r, Ctrl: true}, true
	}

	if code, found := specialKeys[ev.Key()]; found {
		return Keystroke{Code: code, Ctrl: ctrl}, true
	}
	return Keystroke{}, false
}

// KeyTranslator turns terminal key events into host button-event batches.
//
// Terminals report a key press once and then auto-repeat it, with no release
// event. A key seen again within the repeat window is reported as held; a key
// not seen for a whole window, or replaced by another key, is released. The
// Ctrl modifier is tracked as LeftControl the same way.
type KeyTranslator struct {
	window time.Duration

	mu      sync.Mutex
	pressed map[input.KeyCode]time.Time
}

// NewKeyTranslator creates a translator with the given repeat window
func NewKeyTranslator(window time.Duration) *KeyTranslator {
	return &KeyTranslator{
		window:  window,
		pressed: make(map[input.KeyCode]time.Time),
	}
}

// Translate returns the batches produced by ks arriving at now, in dispatch
// order
func (kt *KeyTranslator) Translate(ks Keystroke, now time.Time) [][]input.ButtonEvent {
	kt.mu.Lock()
	defer kt.mu.Unlock()

	var batches [][]input.ButtonEvent

	var released []input.ButtonEvent
	for code, seen := range kt.pressed {
		stale := now.Sub(seen) > kt.window
		switch {
		case code == input.KeyLeftControl:
			if stale || !ks.Ctrl {
				released = append(released, input.Up(code))
			}
		case stale || code != ks.Code:
			released = append(released, input.Up(code))
		}
	}
	for _, ev := range released {
		delete(kt.pressed, ev.Key)
	}
	if len(released) > 0 {
		batches = append(batches, released)
	}

	var batch []input.ButtonEvent
	if ks.Ctrl {
		if _, held := kt.pressed[input.KeyLeftControl]; held {
			batch = append(batch, input.Held(input.KeyLeftControl))
		} else {
			batches = append(batches, []input.ButtonEvent{input.Down(input.KeyLeftControl)})
			batch = append(batch, input.Held(input.KeyLeftControl))
		}
		kt.pressed[input.KeyLeftControl] = now
	}

	if ks.Code != input.KeyNone {
		if _, held := kt.pressed[ks.Code]; held {
			batch = append(batch, input.Held(ks.Code))
		} else {
			batch = append(batch, input.Down(ks.Code))
		}
		kt.pressed[ks.Code] = now
	}

	if len(batch) > 0 {
		batches = append(batches, batch)
	}
	return batches
}

// Flush releases every key not seen within the window. It returns nil when
// nothing was released.
func (kt *KeyTranslator) Flush(now time.Time) []input.ButtonEvent {
	kt.mu.Lock()
	defer kt.mu.Unlock()

	var released []input.ButtonEvent
	for code, seen := range kt.pressed {
		if now.Sub(seen) > kt.window {
			released = append(released, input.Up(code))
			delete(kt.pressed, code)
		}
	}
	return released
}

// Reset forgets all pressed keys without releasing them
func (kt *KeyTranslator) Reset() {
	kt.mu.Lock()
	defer kt.mu.Unlock()

	kt.pressed = make(map[input.KeyCode]time.Time)
}
