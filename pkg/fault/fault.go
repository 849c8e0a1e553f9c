// Package fault provides the error taxonomy shared by the plugin components
package fault

import (
	"errors"
	"fmt"
)

// ErrorType represents different kinds of plugin errors
type ErrorType int

const (
	ErrorUnavailableSurface ErrorType = iota
	ErrorEmptyClipboard
	ErrorPersistence
	ErrorMalformedEntry
	ErrorConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	types := []string{
		"unavailable_surface", "empty_clipboard", "persistence", "malformed_entry", "config",
	}

	if e >= 0 && int(e) < len(types) {
		return types[e]
	}
	return "unknown"
}

// Error is a classified error. Only ErrorConfig is ever fatal; the rest are
// recovered where they occur.
type Error struct {
	Type    ErrorType
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Op != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Type, e.Op, e.Message)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a classified error
func New(errorType ErrorType, op, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}

// Is reports whether any error in err's chain is a fault of the given type
func Is(err error, errorType ErrorType) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Type == errorType
	}
	return false
}
