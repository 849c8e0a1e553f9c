// Package chord detects a two-key chord: a primary key held down followed by
// a press of a secondary key.
//
// The secondary key only counts on its down edge, so key-repeat (reported as
// held) never completes a chord. A completed chord resets the detector, so a
// single press fires at most once.
package chord

import (
	"sync"

	"consoleplus/pkg/input"
)

// State is the detector's progress toward a chord
type State struct {
	PrimaryHeld   bool
	SecondaryDown bool
}

// Complete reports whether both halves of the chord were observed
func (s State) Complete() bool {
	return s.PrimaryHeld && s.SecondaryDown
}

// Detector tracks chord state across input batches
type Detector struct {
	primary   input.KeyCode
	secondary input.KeyCode

	mu    sync.Mutex
	state State
}

// NewDetector creates a detector for primary+secondary
func NewDetector(primary, secondary input.KeyCode) *Detector {
	return &Detector{
		primary:   primary,
		secondary: secondary,
	}
}

// Keys returns the configured primary and secondary keys
func (d *Detector) Keys() (primary, secondary input.KeyCode) {
	return d.primary, d.secondary
}

// Process consumes one batch in order and reports whether the chord completed
// with it. On completion the state is cleared before returning.
func (d *Detector) Process(batch []input.ButtonEvent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, ev := range batch {
		if ev.Key == d.primary {
			// Only the held state counts; the first down frame and the up
			// frame both clear it, along with any secondary press seen
			// under the previous hold.
			d.state.PrimaryHeld = ev.Transition == input.TransitionHeld
			if !d.state.PrimaryHeld {
				d.state.SecondaryDown = false
			}
		}
		if d.state.PrimaryHeld && ev.Key == d.secondary && ev.Transition == input.TransitionDown {
			d.state.SecondaryDown = true
		}
	}

	if !d.state.Complete() {
		return false
	}

	d.state = State{}
	return true
}

// Reset clears any partial chord
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state = State{}
}

// State returns a snapshot of the current state
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}
