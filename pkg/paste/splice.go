// Package paste merges clipboard text into the console's command entry.
//
// The host inserts the secondary key of the paste chord as an ordinary
// keystroke before the paste is applied, so the entry text the engine reads
// already carries that one extra character. Splice removes it while merging.
package paste

import (
	"fmt"
)

// Mode selects where clipboard text goes
type Mode int

const (
	// ModeInsertAtCaret inserts at the caret, or appends when the caret is at the end
	ModeInsertAtCaret Mode = iota
	// ModeAppendAtEnd always appends
	ModeAppendAtEnd
)

// String returns the string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeInsertAtCaret:
		return "cursor"
	case ModeAppendAtEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ParseMode converts a settings value (0 or 1) into a Mode
func ParseMode(v int) (Mode, error) {
	switch Mode(v) {
	case ModeInsertAtCaret, ModeAppendAtEnd:
		return Mode(v), nil
	default:
		return ModeInsertAtCaret, fmt.Errorf("invalid paste mode: %d (0 - cursor, 1 - end)", v)
	}
}

// Request is one paste. Lengths and indices count runes.
type Request struct {
	ClipboardText string
	OldText       string
	Caret         uint
	Mode          Mode
}

// Result is the entry text and caret after a paste
type Result struct {
	Text  string
	Caret uint
}

// Splice computes the entry after pasting req.ClipboardText and dropping the
// raw keystroke character the host typed for the chord
func Splice(req Request) Result {
	old := []rune(req.OldText)
	clip := []rune(req.ClipboardText)

	if req.Mode == ModeAppendAtEnd {
		return appendAtEnd(old, clip)
	}

	// Only the keystroke itself is in the entry: start from empty.
	if len(old) == 1 {
		old = old[:0]
	}

	caret := int(req.Caret)
	if caret >= len(old) {
		return appendAtEnd(old, clip)
	}

	text := make([]rune, 0, len(old)+len(clip))
	text = append(text, old[:caret]...)
	text = append(text, clip...)
	text = append(text, old[caret:]...)

	if caret == 0 {
		// Nothing precedes the caret, so there is no keystroke to drop.
		return Result{Text: string(text), Caret: uint(len(clip))}
	}

	text = append(text[:caret-1], text[caret:]...)
	return Result{Text: string(text), Caret: uint(caret + len(clip) - 1)}
}

func appendAtEnd(old, clip []rune) Result {
	text := make([]rune, 0, len(old)+len(clip))
	text = append(text, old...)
	text = append(text, clip...)

	if len(old) > 0 {
		i := len(old) - 1
		text = append(text[:i], text[i+1:]...)
	}
	return Result{Text: string(text), Caret: uint(len(text))}
}
