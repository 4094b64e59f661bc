package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"quadmap/internal/render"
)

// rect is a screen area in cells
type rect struct {
	x, y          int
	width, height int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.width && y >= r.y && y < r.y+r.height
}

// drawPanel clears the area, draws the border and centers the title on the top edge
func drawPanel(screen tcell.Screen, r rect, title string) {
	// Clear the entire panel area first (make it opaque)
	for row := r.y + 1; row < r.y+r.height-1; row++ {
		for col := r.x + 1; col < r.x+r.width-1; col++ {
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}

	style := render.StyleLabel
	screen.SetContent(r.x, r.y, '┌', nil, style)
	screen.SetContent(r.x+r.width-1, r.y, '┐', nil, style)
	screen.SetContent(r.x, r.y+r.height-1, '└', nil, style)
	screen.SetContent(r.x+r.width-1, r.y+r.height-1, '┘', nil, style)

	for i := 1; i < r.width-1; i++ {
		screen.SetContent(r.x+i, r.y, '─', nil, style)
		screen.SetContent(r.x+i, r.y+r.height-1, '─', nil, style)
	}
	for i := 1; i < r.height-1; i++ {
		screen.SetContent(r.x, r.y+i, '│', nil, style)
		screen.SetContent(r.x+r.width-1, r.y+i, '│', nil, style)
	}

	if title != "" {
		title = " " + title + " "
		tx := r.x + (r.width-runewidth.StringWidth(title))/2
		drawString(screen, tx, r.y, title, style, r.width-2)
	}
}

// drawString writes text truncated to maxWidth cells and returns the cells used
func drawString(screen tcell.Screen, x, y int, text string, style tcell.Style, maxWidth int) int {
	if maxWidth <= 0 {
		return 0
	}
	text = runewidth.Truncate(text, maxWidth, "…")

	col := x
	for _, ch := range text {
		screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
	return col - x
}

// drawBar fills a whole row with style and writes text from the left
func drawBar(screen tcell.Screen, y, width int, text string, style tcell.Style) {
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
	drawString(screen, 0, y, text, style, width)
}
