package host

import (
	"fmt"
	"sync"
)

// maxOutputLines bounds the console's scrollback
const maxOutputLines = 200

// Console is an in-memory developer console: a commands array, a single-line
// command entry with a caret, and a scrollback of output lines. It implements
// Provider and Surface, and exposes the raw editing operations a host applies
// for each keystroke.
type Console struct {
	commands *Commands

	mu       sync.Mutex
	open     bool
	history  []any
	text     []rune
	caret    int
	selStart int
	selEnd   int
	output   []string
	browse   int // index into history while browsing with Up/Down, -1 when not browsing
}

// ConsoleSnapshot is a copy of the console state for rendering
type ConsoleSnapshot struct {
	Open     bool
	Text     string
	Caret    int
	Commands []string
	Output   []string
}

// NewConsole creates a closed console. commands may be nil.
func NewConsole(commands *Commands) *Console {
	return &Console{
		commands: commands,
		browse:   -1,
	}
}

// Open marks the console menu open
func (c *Console) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = true
	c.browse = -1
}

// Close marks the console menu closed
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open = false
}

// IsOpen returns whether the console menu is open
func (c *Console) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.open
}

// Surface implements Provider
func (c *Console) Surface() (Surface, bool) {
	if !c.IsOpen() {
		return nil, false
	}
	return c, true
}

// GetText implements Surface
func (c *Console) GetText(path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path != CommandEntryTextPath {
		return "", Unavailable("get text", path)
	}
	return string(c.text), nil
}

// GetUint implements Surface
func (c *Console) GetUint(path string) (uint, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path != CommandEntryCaretPath {
		return 0, Unavailable("get uint", path)
	}
	return uint(c.caret), nil
}

// SetText implements Surface. The caret is clamped to the new text.
func (c *Console) SetText(path, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path != CommandEntryTextPath {
		return Unavailable("set text", path)
	}
	c.text = []rune(value)
	c.caret = clamp(c.caret, 0, len(c.text))
	return nil
}

// Invoke implements Surface
func (c *Console) Invoke(method string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if method != SetSelectionMethod {
		return Unavailable("invoke", method)
	}
	if len(args) != 2 {
		return fmt.Errorf("%s takes 2 arguments, got %d", method, len(args))
	}

	start, err := toInt(args[0])
	if err != nil {
		return fmt.Errorf("%s start: %w", method, err)
	}
	end, err := toInt(args[1])
	if err != nil {
		return fmt.Errorf("%s end: %w", method, err)
	}

	c.selStart = clamp(start, 0, len(c.text))
	c.selEnd = clamp(end, 0, len(c.text))
	c.caret = c.selEnd
	return nil
}

// GetArray implements Surface
func (c *Console) GetArray(path string) ([]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path != CommandsPath {
		return nil, Unavailable("get array", path)
	}
	values := make([]any, len(c.history))
	copy(values, c.history)
	return values, nil
}

// SetArray implements Surface
func (c *Console) SetArray(path string, values []any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if path != CommandsPath {
		return Unavailable("set array", path)
	}
	c.history = make([]any, len(values))
	copy(c.history, values)
	c.browse = -1
	return nil
}

// InsertRune types r at the caret
func (c *Console) InsertRune(r rune) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := make([]rune, 0, len(c.text)+1)
	text = append(text, c.text[:c.caret]...)
	text = append(text, r)
	text = append(text, c.text[c.caret:]...)
	c.text = text
	c.caret++
}

// Backspace deletes the rune before the caret
func (c *Console) Backspace() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.caret == 0 {
		return
	}
	c.text = append(c.text[:c.caret-1], c.text[c.caret:]...)
	c.caret--
}

// Delete deletes the rune under the caret
func (c *Console) Delete() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.caret >= len(c.text) {
		return
	}
	c.text = append(c.text[:c.caret], c.text[c.caret+1:]...)
}

// MoveCaret moves the caret by delta runes
func (c *Console) MoveCaret(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.caret = clamp(c.caret+delta, 0, len(c.text))
}

// Home moves the caret to the start of the entry
func (c *Console) Home() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.caret = 0
}

// End moves the caret to the end of the entry
func (c *Console) End() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.caret = len(c.text)
}

// Browse walks the commands array: -1 for older, +1 for newer. Walking past
// the newest entry clears the entry.
func (c *Console) Browse(direction int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, _ := Strings(c.history)
	if len(entries) == 0 {
		return
	}

	switch {
	case c.browse == -1 && direction < 0:
		c.browse = len(entries) - 1
	case c.browse == -1:
		return
	default:
		c.browse += direction
	}

	if c.browse >= len(entries) {
		c.browse = -1
		c.text = nil
		c.caret = 0
		return
	}
	if c.browse < 0 {
		c.browse = 0
	}

	c.text = []rune(entries[c.browse])
	c.caret = len(c.text)
}

// Submit appends the entry to the commands array, clears it and runs any
// registered command it names
func (c *Console) Submit() {
	c.mu.Lock()
	line := string(c.text)
	if line == "" {
		c.mu.Unlock()
		return
	}
	c.history = append(c.history, line)
	c.text = nil
	c.caret = 0
	c.browse = -1
	c.appendOutputLocked("> " + line)
	c.mu.Unlock()

	if c.commands == nil {
		return
	}

	handled, err := c.commands.Execute(line)
	switch {
	case err != nil:
		c.Print(fmt.Sprintf("%s: %v", line, err))
	case !handled:
		c.Print(fmt.Sprintf("Script command %q not found.", line))
	}
}

// Print appends a line to the console output
func (c *Console) Print(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.appendOutputLocked(line)
}

// Snapshot returns a copy of the console state
func (c *Console) Snapshot() ConsoleSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	commands, _ := Strings(c.history)
	output := make([]string, len(c.output))
	copy(output, c.output)

	return ConsoleSnapshot{
		Open:     c.open,
		Text:     string(c.text),
		Caret:    c.caret,
		Commands: commands,
		Output:   output,
	}
}

func (c *Console) appendOutputLocked(line string) {
	c.output = append(c.output, line)
	if len(c.output) > maxOutputLines {
		c.output = c.output[len(c.output)-maxOutputLines:]
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
