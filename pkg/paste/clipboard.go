package paste

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard reads text from a clipboard
type Clipboard interface {
	ReadText() (string, error)
}

// SystemClipboard reads the operating system clipboard
type SystemClipboard struct{}

// ReadText implements Clipboard
func (SystemClipboard) ReadText() (string, error) {
	return clipboard.ReadAll()
}

// StaticClipboard holds text in memory
type StaticClipboard struct {
	mu   sync.RWMutex
	text string
}

// NewStaticClipboard creates a clipboard holding text
func NewStaticClipboard(text string) *StaticClipboard {
	return &StaticClipboard{text: text}
}

// ReadText implements Clipboard
func (c *StaticClipboard) ReadText() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.text, nil
}

// SetText replaces the clipboard contents
func (c *StaticClipboard) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.text = text
}
