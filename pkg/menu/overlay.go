package menu

import (
	"github.com/gdamore/tcell/v2"
)

// OverlayManager keeps the screen cells a panel covers so they can be put
// back when the panel closes
type OverlayManager struct {
	screen       tcell.Screen
	savedContent [][]SavedCell
	x, y         int
}

// SavedCell represents a saved screen cell
type SavedCell struct {
	Char  rune
	Comb  []rune
	Style tcell.Style
}

// NewOverlayManager creates a new overlay manager
func NewOverlayManager(screen tcell.Screen) *OverlayManager {
	return &OverlayManager{
		screen: screen,
	}
}

// SaveRegion saves the cells of a rectangle, clipped to the screen
func (om *OverlayManager) SaveRegion(x, y, width, height int) {
	screenWidth, screenHeight := om.screen.Size()
	if x+width > screenWidth {
		width = screenWidth - x
	}
	if y+height > screenHeight {
		height = screenHeight - y
	}
	if width <= 0 || height <= 0 {
		om.savedContent = nil
		return
	}

	om.x, om.y = x, y
	om.savedContent = make([][]SavedCell, height)
	for row := 0; row < height; row++ {
		om.savedContent[row] = make([]SavedCell, width)
		for col := 0; col < width; col++ {
			mainc, combc, style, _ := om.screen.GetContent(x+col, y+row)
			om.savedContent[row][col] = SavedCell{
				Char:  mainc,
				Comb:  combc,
				Style: style,
			}
		}
	}
}

// HasSaved reports whether a region is waiting to be restored
func (om *OverlayManager) HasSaved() bool {
	return om.savedContent != nil
}

// Restore writes the saved region back and forgets it
func (om *OverlayManager) Restore() {
	if om.savedContent == nil {
		return
	}

	for row := range om.savedContent {
		for col, cell := range om.savedContent[row] {
			om.screen.SetContent(om.x+col, om.y+row, cell.Char, cell.Comb, cell.Style)
		}
	}
	om.savedContent = nil
}

// Clear drops the saved region without restoring it
func (om *OverlayManager) Clear() {
	om.savedContent = nil
}
