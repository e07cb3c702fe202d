package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/endlessutopia/internal/theme"
	"github.com/samdwyer/endlessutopia/internal/world"
)

// Renderer handles drawing world regions to the screen.
type Renderer struct {
	screen *Screen
	theme  *theme.Def
}

// NewRenderer creates a new renderer for the given screen and theme.
func NewRenderer(screen *Screen, def *theme.Def) *Renderer {
	screen.SetStyle(def.BackgroundStyle())
	return &Renderer{screen: screen, theme: def}
}

// Frame is everything drawn in one pass.
type Frame struct {
	Region  [][]world.Tile // Row-major, drawn from the top-left corner
	CursorX int            // Screen position of the cursor
	CursorY int
	Status  string   // Bottom line
	Overlay []string // Optional lines drawn over the region
}

// Render draws the frame and flushes it to the terminal.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()

	for y, row := range f.Region {
		for x, tile := range row {
			r.screen.SetContent(x, y, tile.Rune(), r.theme.BiomeStyle(tile.Biome))
		}
	}

	cursorStyle := r.theme.BiomeStyle(world.BiomeLandmarkPresent).Bold(true)
	r.screen.SetContent(f.CursorX, f.CursorY, r.theme.CursorRune(), cursorStyle)

	for i, line := range f.Overlay {
		r.drawText(2, 1+i, line, r.theme.StatusStyle().Reverse(true))
	}

	_, height := r.screen.Size()
	r.RenderMessage(f.Status, height-1)

	r.screen.Show()
}

// RenderMessage displays a message on the given row, clearing the rest of it.
func (r *Renderer) RenderMessage(msg string, y int) {
	width, _ := r.screen.Size()
	style := r.theme.StatusStyle()
	x := r.drawText(0, y, msg, style)
	for ; x < width; x++ {
		r.screen.SetContent(x, y, ' ', style)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) int {
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, style)
		x++
	}
	return x
}
