package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"quadmap/internal/debug"
	"quadmap/internal/geo"
)

// MapRenderer draws the background, backdrop features and point overlay to a canvas
type MapRenderer struct {
	features   []*geo.Feature
	background *Background
	canvas     *Canvas
}

// NewMapRenderer creates a new map renderer
func NewMapRenderer(features []*geo.Feature, background *Background, canvas *Canvas) *MapRenderer {
	if background == nil {
		background = NewBackground(nil)
	}
	return &MapRenderer{
		features:   features,
		background: background,
		canvas:     canvas,
	}
}

// Render redraws everything for the given points and view.
// The whole frame is recomputed; nothing from the previous pass is reused.
func (m *MapRenderer) Render(coords []geo.Coordinate, view geo.ViewState) {
	m.canvas.Clear()

	proj := geo.NewProjection(m.viewport(), view)
	if !proj.Valid() {
		return
	}

	m.background.Paint(m.canvas, view)
	m.RenderBackdrop(proj)

	overlay, ok := BuildOverlay(coords, proj.Viewport(), view)
	if !ok {
		return
	}
	m.RenderOverlay(overlay)
}

func (m *MapRenderer) viewport() geo.Viewport {
	return geo.Viewport{Width: float64(m.canvas.Width()), Height: float64(m.canvas.Height())}
}

// RenderBackdrop draws the visible backdrop features
func (m *MapRenderer) RenderBackdrop(proj geo.Projection) {
	if len(m.features) == 0 {
		return
	}

	visible := geo.FilterByBounds(m.features, proj.GetBounds())
	if debug.Enabled() {
		debug.Log("Rendering %d backdrop features (of %d total)", len(visible), len(m.features))
	}

	for _, feature := range visible {
		m.RenderFeature(proj, feature)
	}
}

// RenderFeature draws a single backdrop feature
func (m *MapRenderer) RenderFeature(proj geo.Projection, feature *geo.Feature) {
	style := GetStyleForFeature(feature.Type)
	char := GetCharForFeature(feature.Type)

	if feature.IsPoint() {
		point := proj.Cell(feature.Point.Lat, feature.Point.Lng)
		m.canvas.Put(point.X, point.Y, '•', style)

		// Render label if available and not too close to edge
		if feature.Name != "" && point.X < m.canvas.Width()-runewidth.StringWidth(feature.Name)-1 {
			m.canvas.DrawText(point.X+1, point.Y, feature.Name, style)
		}
	} else if feature.IsLine() {
		for i := 0; i < len(feature.Points)-1; i++ {
			p1 := proj.Cell(feature.Points[i].Lat, feature.Points[i].Lng)
			p2 := proj.Cell(feature.Points[i+1].Lat, feature.Points[i+1].Lng)
			m.DrawLine(p1.X, p1.Y, p2.X, p2.Y, char, style)
		}
	}
}

// RenderOverlay draws fill, edges and markers in that order
func (m *MapRenderer) RenderOverlay(o Overlay) {
	if o.Closed() {
		m.fillPolygon(o)
	}

	for _, s := range o.Segments {
		from, to := geo.PixelCell(s.From), geo.PixelCell(s.To)
		m.DrawLine(from.X, from.Y, to.X, to.Y, edgeChar(s), StyleEdge)
	}

	for _, marker := range o.Markers {
		m.drawMarker(marker)
	}
}

// fillPolygon tints every cell whose center lies inside the polygon
func (m *MapRenderer) fillPolygon(o Overlay) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range o.Polygon {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}

	x0 := max(0, int(math.Floor(minX)))
	x1 := min(m.canvas.Width()-1, int(math.Ceil(maxX)))
	y0 := max(0, int(math.Floor(minY)))
	y1 := min(m.canvas.Height()-1, int(math.Ceil(maxY)))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if o.Contains(geo.Pixel{X: float64(x) + 0.5, Y: float64(y) + 0.5}) {
				m.canvas.Tint(x, y, ColorFill, FillOpacity)
			}
		}
	}
}

// drawMarker centers the label on the point's cell
func (m *MapRenderer) drawMarker(marker Marker) {
	cell := geo.PixelCell(marker.At)
	label := " " + marker.ID + " "
	width := runewidth.StringWidth(label)
	m.canvas.DrawText(cell.X-width/2, cell.Y, label, StyleMarker)
}

// edgeChar picks a glyph matching the segment slope (screen y grows downward)
func edgeChar(s Segment) rune {
	dx := s.To.X - s.From.X
	dy := s.To.Y - s.From.Y

	switch {
	case math.Abs(dx) >= 2*math.Abs(dy):
		return '─'
	case math.Abs(dy) >= 2*math.Abs(dx):
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// DrawLine implements Bresenham's line algorithm for drawing lines on the canvas
func (m *MapRenderer) DrawLine(x0, y0, x1, y1 int, char rune, style tcell.Style) {
	// Off-screen points far from the view would otherwise walk millions of cells
	if !m.lineMayBeVisible(x0, y0, x1, y1) {
		return
	}

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}

	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy

	for {
		m.canvas.Put(x0, y0, char, style)

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err

		if e2 > -dy {
			err -= dy
			x0 += sx
		}

		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

const maxLineSpan = 1 << 14

func (m *MapRenderer) lineMayBeVisible(x0, y0, x1, y1 int) bool {
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) {
		return false
	}
	if (x0 >= m.canvas.Width() && x1 >= m.canvas.Width()) || (y0 >= m.canvas.Height() && y1 >= m.canvas.Height()) {
		return false
	}
	return abs(x1-x0) < maxLineSpan && abs(y1-y0) < maxLineSpan
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// UpdateCanvas updates the renderer's canvas
func (m *MapRenderer) UpdateCanvas(canvas *Canvas) {
	m.canvas = canvas
}

// Canvas returns the canvas being drawn to
func (m *MapRenderer) Canvas() *Canvas {
	return m.canvas
}
