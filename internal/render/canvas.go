package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Canvas represents a 2D grid of cells for the map surface
type Canvas struct {
	width  int
	height int
	cells  [][]Cell
}

// Cell represents a single character cell with style
type Cell struct {
	Char  rune
	Style tcell.Style
}

// NewCanvas creates a new blank canvas
func NewCanvas(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
		for j := range cells[i] {
			cells[i][j] = Cell{Char: ' ', Style: tcell.StyleDefault}
		}
	}

	return &Canvas{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Set sets the character and style at the given position
// Coordinates are 0-indexed with (0,0) at top-left
func (c *Canvas) Set(x, y int, char rune, style tcell.Style) {
	if c.inside(x, y) {
		c.cells[y][x] = Cell{Char: char, Style: style}
	}
}

// Put draws a glyph in the given foreground while keeping the cell's background
func (c *Canvas) Put(x, y int, char rune, style tcell.Style) {
	if !c.inside(x, y) {
		return
	}
	_, bg, _ := c.cells[y][x].Style.Decompose()
	_, sbg, _ := style.Decompose()
	if sbg == tcell.ColorDefault {
		style = style.Background(bg)
	}
	c.cells[y][x] = Cell{Char: char, Style: style}
}

// Get retrieves the cell at the given position
func (c *Canvas) Get(x, y int) Cell {
	if c.inside(x, y) {
		return c.cells[y][x]
	}
	return Cell{Char: ' ', Style: tcell.StyleDefault}
}

// SetBackground paints a cell background, leaving its glyph alone
func (c *Canvas) SetBackground(x, y int, col colorful.Color) {
	if c.inside(x, y) {
		c.cells[y][x].Style = c.cells[y][x].Style.Background(toTcell(col))
	}
}

// Background returns the cell background, or fallback when it has none
func (c *Canvas) Background(x, y int, fallback colorful.Color) colorful.Color {
	if !c.inside(x, y) {
		return fallback
	}
	_, bg, _ := c.cells[y][x].Style.Decompose()
	return fromTcell(bg, fallback)
}

// Tint blends col over the cell background with the given opacity
func (c *Canvas) Tint(x, y int, col colorful.Color, opacity float64) {
	if !c.inside(x, y) {
		return
	}
	under := c.Background(x, y, ColorMapBase)
	c.SetBackground(x, y, under.BlendRgb(col, opacity).Clamped())
}

// Clear resets the entire canvas to spaces with default style
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{Char: ' ', Style: tcell.StyleDefault}
		}
	}
}

// DrawText draws a string at the given position and returns the cells used.
// Wide runes take two cells.
func (c *Canvas) DrawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, char := range text {
		c.Put(col, y, char, style)
		w := runewidth.RuneWidth(char)
		if w == 2 {
			c.Put(col+1, y, ' ', style)
		}
		if w < 1 {
			w = 1
		}
		col += w
	}
	return col - x
}

// DrawBox draws a box outline using box-drawing characters
func (c *Canvas) DrawBox(x, y, width, height int, style tcell.Style) {
	if width < 2 || height < 2 {
		return
	}

	// Corners
	c.Set(x, y, '┌', style)
	c.Set(x+width-1, y, '┐', style)
	c.Set(x, y+height-1, '└', style)
	c.Set(x+width-1, y+height-1, '┘', style)

	for i := 1; i < width-1; i++ {
		c.Set(x+i, y, '─', style)
		c.Set(x+i, y+height-1, '─', style)
	}

	for i := 1; i < height-1; i++ {
		c.Set(x, y+i, '│', style)
		c.Set(x+width-1, y+i, '│', style)
	}
}

// FillRect fills a rectangle with a character
func (c *Canvas) FillRect(x, y, width, height int, char rune, style tcell.Style) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			c.Set(x+dx, y+dy, char, style)
		}
	}
}

// Width returns the canvas width
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height
func (c *Canvas) Height() int {
	return c.height
}

// Blit renders the canvas to a tcell screen
func (c *Canvas) Blit(screen tcell.Screen, offsetX, offsetY int) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cell := c.cells[y][x]
			screen.SetContent(offsetX+x, offsetY+y, cell.Char, nil, cell.Style)
		}
	}
}

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func toTcell(col colorful.Color) tcell.Color {
	r, g, b := col.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func fromTcell(col tcell.Color, fallback colorful.Color) colorful.Color {
	if col == tcell.ColorDefault {
		return fallback
	}
	r, g, b := col.RGB()
	if r < 0 || g < 0 || b < 0 {
		return fallback
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}
