package ui

import (
	"github.com/gdamore/tcell/v2"

	"quadmap/internal/debug"
	"quadmap/internal/geo"
	"quadmap/internal/render"
	"quadmap/internal/widget"
)

// Zoom buttons sit in the bottom-left corner, one row above the edge
const (
	zoomInLabel  = "[+]"
	zoomOutLabel = "[-]"
	zoomInX      = 1
	zoomOutX     = 5
)

// pointer tracks the physical mouse between press and release
type pointer struct {
	down     bool
	moved    bool
	consumed bool // press landed on a button or the pointer left the map
	x, y     int
}

// MapView displays the map surface and binds mouse input to the widget
type MapView struct {
	widget   *widget.Map
	renderer *render.MapRenderer
	canvas   *render.Canvas
	width    int
	height   int
	ptr      pointer
}

// NewMapView creates a new map view
func NewMapView(width, height int, w *widget.Map, features []*geo.Feature, bg *render.Background) *MapView {
	canvas := render.NewCanvas(width, height)
	return &MapView{
		widget:   w,
		renderer: render.NewMapRenderer(features, bg, canvas),
		canvas:   canvas,
		width:    width,
		height:   height,
	}
}

// Viewport returns the measured map surface
func (m *MapView) Viewport() geo.Viewport {
	return geo.Viewport{Width: float64(m.width), Height: float64(m.height)}
}

// Draw renders the map, the overlay for coords and, when asked, the zoom buttons
func (m *MapView) Draw(screen tcell.Screen, coords []geo.Coordinate, view geo.ViewState, zoomButtons bool) {
	m.renderer.Render(coords, view)

	if zoomButtons && m.height > 2 {
		y := m.buttonRow()
		m.canvas.DrawText(zoomInX, y, zoomInLabel, render.StyleButton)
		m.canvas.DrawText(zoomOutX, y, zoomOutLabel, render.StyleButton)
	}

	m.canvas.Blit(screen, 0, 0)
}

func (m *MapView) buttonRow() int {
	return m.height - 2
}

// zoomButtonAt returns +1 or -1 for a hit on a zoom button, 0 otherwise
func (m *MapView) zoomButtonAt(x, y int) int {
	if y != m.buttonRow() {
		return 0
	}
	switch {
	case x >= zoomInX && x < zoomInX+len(zoomInLabel):
		return 1
	case x >= zoomOutX && x < zoomOutX+len(zoomOutLabel):
		return -1
	}
	return 0
}

// HandleMouse turns a tcell mouse event into widget pointer calls.
// covered is true when (x, y) lies under a panel drawn on top of the map.
// A release only counts as a click when the pointer did not move since the press.
func (m *MapView) HandleMouse(ev *tcell.EventMouse, p widget.Props, covered bool) {
	x, y := ev.Position()
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !m.ptr.down:
		m.ptr = pointer{down: true, x: x, y: y}
		if covered {
			m.ptr.consumed = true
			return
		}
		if p.PlacementEnabled {
			if dir := m.zoomButtonAt(x, y); dir != 0 {
				m.ptr.consumed = true
				if dir > 0 {
					m.widget.ZoomIn(p)
				} else {
					m.widget.ZoomOut(p)
				}
				return
			}
		}
		m.widget.PointerDown(p, float64(x), float64(y))

	case pressed:
		if m.ptr.consumed || (x == m.ptr.x && y == m.ptr.y) {
			return
		}
		if covered || !m.inside(x, y) {
			debug.Log("pointer left map at %d,%d", x, y)
			m.ptr.consumed = true
			m.widget.PointerLeave(p)
			return
		}
		m.ptr.moved = true
		m.ptr.x, m.ptr.y = x, y
		m.widget.PointerMove(p, float64(x), float64(y))

	case m.ptr.down:
		ptr := m.ptr
		m.ptr = pointer{}
		if ptr.consumed {
			return
		}
		m.widget.PointerUp(p)
		if !ptr.moved && !covered {
			// Aim at the cell centre so the marker lands in the clicked cell
			m.widget.Click(p, float64(x)+0.5, float64(y)+0.5)
		}
	}
}

// ResetPointer forgets a press in progress
func (m *MapView) ResetPointer() {
	m.ptr = pointer{}
}

func (m *MapView) inside(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// UpdateDimensions updates the view dimensions when the screen is resized
func (m *MapView) UpdateDimensions(width, height int) {
	m.width = width
	m.height = height

	m.canvas = render.NewCanvas(width, height)
	m.renderer.UpdateCanvas(m.canvas)
	debug.Log("Map viewport resized to %dx%d", width, height)
}
