// Package host defines the collaborators the plugin talks to inside the host
// process: the console UI surface, the UI task queue, menu events and the
// console command registry. It also provides an in-memory Console that
// implements them for the interactive harness and tests.
package host

import (
	"consoleplus/pkg/fault"
)

// Variable paths and methods exposed by the console UI
const (
	CommandsPath          = "_global.Console.ConsoleInstance.Commands"
	CommandEntryTextPath  = "_global.Console.ConsoleInstance.CommandEntry.text"
	CommandEntryCaretPath = "_global.Console.ConsoleInstance.CommandEntry.caretIndex"
	SetSelectionMethod    = "Selection.setSelection"
)

// ConsoleMenu is the menu name the console's open/close events carry
const ConsoleMenu = "Console"

// Surface is the console UI's variable store. Implementations are only safe
// to call from the UI task queue.
type Surface interface {
	GetText(path string) (string, error)
	GetUint(path string) (uint, error)
	SetText(path, value string) error
	Invoke(method string, args ...any) error
	GetArray(path string) ([]any, error)
	SetArray(path string, values []any) error
}

// Provider looks up the console's surface. ok is false while the console
// menu is not open.
type Provider interface {
	Surface() (surface Surface, ok bool)
}

// Unavailable builds the error returned when a surface or one of its
// variables cannot be retrieved
func Unavailable(op, what string) error {
	return fault.New(fault.ErrorUnavailableSurface, op, what+" is not available", nil)
}

// Strings keeps the string entries of an array variable in order and reports
// how many non-string entries were dropped
func Strings(values []any) (strs []string, skipped int) {
	strs = make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			skipped++
			continue
		}
		strs = append(strs, s)
	}
	return strs, skipped
}

// Values converts a string list into array variable values
func Values(strs []string) []any {
	values := make([]any, len(strs))
	for i, s := range strs {
		values[i] = s
	}
	return values
}
