// Package menu draws the drop-down developer console
package menu

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"consoleplus/pkg/host"
)

const (
	prompt    = "> "
	minHeight = 5
)

// ConsolePanel renders a console snapshot across the top of the screen
type ConsolePanel struct {
	screen tcell.Screen
	title  string

	style       tcell.Style
	titleStyle  tcell.Style
	outputStyle tcell.Style
	entryStyle  tcell.Style
}

// NewConsolePanel creates a new console panel
func NewConsolePanel(title string, screen tcell.Screen) *ConsolePanel {
	base := tcell.StyleDefault.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite)
	return &ConsolePanel{
		screen:      screen,
		title:       title,
		style:       base,
		titleStyle:  base.Bold(true),
		outputStyle: base.Foreground(tcell.ColorSilver),
		entryStyle:  base.Foreground(tcell.ColorYellow),
	}
}

// Bounds returns the panel rectangle: full width, top half of the screen
func (p *ConsolePanel) Bounds() (x, y, width, height int) {
	width, screenHeight := p.screen.Size()
	height = screenHeight / 2
	if height < minHeight {
		height = minHeight
	}
	if height > screenHeight {
		height = screenHeight
	}
	return 0, 0, width, height
}

// Draw renders snap and places the cursor at the entry caret. Nothing is
// drawn for a closed console.
func (p *ConsolePanel) Draw(snap host.ConsoleSnapshot) {
	if !snap.Open {
		p.screen.HideCursor()
		return
	}

	x, y, width, height := p.Bounds()
	if width < 4 || height < 3 {
		return
	}
	p.drawBorder(x, y, width, height)

	title := fmt.Sprintf(" %s (%d) ", p.title, len(snap.Commands))
	title = runewidth.Truncate(title, width-2, "")
	p.drawText(x+(width-runewidth.StringWidth(title))/2, y, title, p.titleStyle)

	inner := width - 2

	// Output fills the rows above the entry line, newest at the bottom.
	rows := height - 3
	lines := snap.Output
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	top := y + 1 + rows - len(lines)
	for i, line := range lines {
		p.drawText(x+1, top+i, runewidth.Truncate(line, inner, "..."), p.outputStyle)
	}

	entryY := y + height - 2
	p.drawText(x+1, entryY, prompt, p.entryStyle)
	visible, caretCol := EntryView(snap.Text, snap.Caret, inner-runewidth.StringWidth(prompt))
	p.drawText(x+1+runewidth.StringWidth(prompt), entryY, visible, p.entryStyle)
	p.screen.ShowCursor(x+1+runewidth.StringWidth(prompt)+caretCol, entryY)
}

// EntryView fits text into width columns keeping the caret visible. It
// returns the visible slice and the caret's column within it.
func EntryView(text string, caret, width int) (visible string, caretCol int) {
	runes := []rune(text)
	if caret < 0 {
		caret = 0
	}
	if caret > len(runes) {
		caret = len(runes)
	}
	if width <= 1 {
		return "", 0
	}

	// Scroll so the caret, plus one cell for the cursor, fits.
	start := 0
	for runewidth.StringWidth(string(runes[start:caret])) > width-1 {
		start++
	}

	visible = runewidth.Truncate(string(runes[start:]), width, "")
	caretCol = runewidth.StringWidth(string(runes[start:caret]))
	return visible, caretCol
}

// drawBorder draws the panel border and fills its background
func (p *ConsolePanel) drawBorder(x, y, width, height int) {
	p.screen.SetContent(x, y, '┌', nil, p.style)
	p.screen.SetContent(x+width-1, y, '┐', nil, p.style)
	for cx := x + 1; cx < x+width-1; cx++ {
		p.screen.SetContent(cx, y, '─', nil, p.style)
	}

	for cy := y + 1; cy < y+height-1; cy++ {
		p.screen.SetContent(x, cy, '│', nil, p.style)
		p.screen.SetContent(x+width-1, cy, '│', nil, p.style)
		for cx := x + 1; cx < x+width-1; cx++ {
			p.screen.SetContent(cx, cy, ' ', nil, p.style)
		}
	}

	p.screen.SetContent(x, y+height-1, '└', nil, p.style)
	p.screen.SetContent(x+width-1, y+height-1, '┘', nil, p.style)
	for cx := x + 1; cx < x+width-1; cx++ {
		p.screen.SetContent(cx, y+height-1, '─', nil, p.style)
	}
}

// drawText draws text at the specified position, advancing by display width
func (p *ConsolePanel) drawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		p.screen.SetContent(x, y, ch, nil, style)
		x += runewidth.RuneWidth(ch)
	}
}
