package host

import (
	"fmt"
	"strings"
	"sync"
)

// MenuEvent reports a menu opening or closing
type MenuEvent struct {
	Name    string
	Opening bool
}

// MenuSink receives menu open/close events
type MenuSink interface {
	ProcessMenuEvent(ev MenuEvent)
}

// MenuSource is the host's set of registered menu sinks
type MenuSource struct {
	mu    sync.RWMutex
	sinks []MenuSink
}

// NewMenuSource creates an empty menu event source
func NewMenuSource() *MenuSource {
	return &MenuSource{}
}

// AddSink registers a sink once
func (s *MenuSource) AddSink(sink MenuSink) {
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
func (s *MenuSource) RemoveSink(sink MenuSink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.sinks {
		if existing == sink {
			s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)
			return
		}
	}
}

// Dispatch delivers ev to every registered sink
func (s *MenuSource) Dispatch(ev MenuEvent) {
	s.mu.RLock()
	sinks := make([]MenuSink, len(s.sinks))
	copy(sinks, s.sinks)
	s.mu.RUnlock()

	for _, sink := range sinks {
		sink.ProcessMenuEvent(ev)
	}
}

// CommandFunc runs a console command with its arguments
type CommandFunc func(args []string) error

// CommandRegistry lets the plugin add console commands. Handlers run on the
// UI thread.
type CommandRegistry interface {
	RegisterCommand(name, shortName string, fn CommandFunc) error
}

// Commands is a case-insensitive CommandRegistry
type Commands struct {
	mu       sync.RWMutex
	commands map[string]CommandFunc
}

// NewCommands creates an empty registry
func NewCommands() *Commands {
	return &Commands{
		commands: make(map[string]CommandFunc),
	}
}

// RegisterCommand implements CommandRegistry
func (c *Commands) RegisterCommand(name, shortName string, fn CommandFunc) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("command %s has no handler", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range []string{name, shortName} {
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, exists := c.commands[key]; exists {
			return fmt.Errorf("command %s is already registered", n)
		}
	}

	c.commands[strings.ToLower(name)] = fn
	if shortName != "" {
		c.commands[strings.ToLower(shortName)] = fn
	}
	return nil
}

// Execute runs the command named by the first word of line. handled is false
// when no such command is registered.
func (c *Commands) Execute(line string) (handled bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	c.mu.RLock()
	fn, ok := c.commands[strings.ToLower(fields[0])]
	c.mu.RUnlock()

	if !ok {
		return false, nil
	}
	return true, fn(fields[1:])
}
