// Package input models raw keyboard button events and the listener set they are dispatched to
package input

import (
	"fmt"
	"sync"
)

// Transition represents the state change a button event reports
type Transition int

const (
	// TransitionDown is the first frame a key is pressed
	TransitionDown Transition = iota
	// TransitionHeld is every following frame while the key stays pressed
	TransitionHeld
	// TransitionUp is the frame the key is released
	TransitionUp
)

// String returns the string representation of Transition
func (t Transition) String() string {
	switch t {
	case TransitionDown:
		return "down"
	case TransitionHeld:
		return "held"
	case TransitionUp:
		return "up"
	default:
		return "unknown"
	}
}

// ButtonEvent is a single key transition
type ButtonEvent struct {
	Key        KeyCode
	Transition Transition
}

// String returns a human-readable form such as "LeftControl:held"
func (e ButtonEvent) String() string {
	return fmt.Sprintf("%s:%s", e.Key, e.Transition)
}

// Down returns a down event for key
func Down(key KeyCode) ButtonEvent { return ButtonEvent{Key: key, Transition: TransitionDown} }

// Held returns a held event for key
func Held(key KeyCode) ButtonEvent { return ButtonEvent{Key: key, Transition: TransitionHeld} }

// Up returns an up event for key
func Up(key KeyCode) ButtonEvent { return ButtonEvent{Key: key, Transition: TransitionUp} }

// Sink receives input batches in the order the host produced them
type Sink interface {
	ProcessInput(batch []ButtonEvent)
}

// Source is the host's set of registered input sinks. Sinks are compared by
// identity, so they must be comparable (pointer receivers in practice).
type Source struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewSource creates an empty input source
func NewSource() *Source {
	return &Source{}
}

// AddSink registers a sink. Adding a sink that is already registered is a no-op.
func (s *Source) AddSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sinks {
		if existing == sink {
			return
		}
	}
	s.sinks = append(s.sinks, sink)
}

// RemoveSink unregisters a sink
func (s *Source) RemoveSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.sinks {
		if existing == sink {
			s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)
			return
		}
	}
}

// HasSink reports whether sink is registered
func (s *Source) HasSink(sink Sink) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.sinks {
		if existing == sink {
			return true
		}
	}
	return false
}

// Dispatch delivers batch to every registered sink. Sinks may add or remove
// themselves while being dispatched to.
func (s *Source) Dispatch(batch []ButtonEvent) {
	if len(batch) == 0 {
		return
	}

	s.mu.RLock()
	sinks := make([]Sink, len(s.sinks))
	copy(sinks, s.sinks)
	s.mu.RUnlock()

	for _, sink := range sinks {
		sink.ProcessInput(batch)
	}
}
