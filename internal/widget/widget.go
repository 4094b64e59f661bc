// Package widget interprets pointer, click and zoom-button input for the
// quadrilateral map. It never owns the view or the points: every event
// carries a Props snapshot from the host and results leave through Callbacks.
package widget

import (
	"quadmap/internal/debug"
	"quadmap/internal/geo"
	"quadmap/internal/points"
)

// dragScale converts a pointer delta in pixels to degrees at zoom 1
const dragScale = 0.0001

// State of the interaction state machine
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "Dragging"
	}
	return "Idle"
}

// Props is the host snapshot valid for a single event
type Props struct {
	Points           []geo.Coordinate
	View             geo.ViewState
	Viewport         geo.Viewport
	Draggable        bool
	PlacementEnabled bool
}

// Callbacks are the widget outputs; any of them may be nil
type Callbacks struct {
	OnPointAdded    func(geo.Coordinate)
	OnCenterChanged func(geo.LatLng)
	OnZoomChanged   func(int)
	OnOffsetChanged func(geo.Offset)
}

// dragSession lives from pointer-down to pointer-up
type dragSession struct {
	active  bool
	originX float64
	originY float64
}

// Map is the interaction state machine
type Map struct {
	callbacks Callbacks
	drag      dragSession
}

// New creates a widget in the Idle state
func New(callbacks Callbacks) *Map {
	return &Map{callbacks: callbacks}
}

// State returns Dragging while a drag session is open
func (m *Map) State() State {
	if m.drag.active {
		return Dragging
	}
	return Idle
}

// gate drops an open session once the host has turned dragging off
func (m *Map) gate(p Props) bool {
	if !p.Draggable {
		m.drag = dragSession{}
		return false
	}
	return true
}

// PointerDown starts a drag session at (x, y)
func (m *Map) PointerDown(p Props, x, y float64) {
	if !m.gate(p) {
		return
	}
	m.drag = dragSession{active: true, originX: x, originY: y}
}

// PointerMove pans by the delta since the previous pointer position
func (m *Map) PointerMove(p Props, x, y float64) {
	if !m.gate(p) || !m.drag.active {
		return
	}

	m.pan(p, x-m.drag.originX, y-m.drag.originY)
	m.drag.originX = x
	m.drag.originY = y
}

// PointerUp ends the drag session
func (m *Map) PointerUp(p Props) {
	if !m.gate(p) {
		return
	}
	m.drag = dragSession{}
}

// PointerLeave ends the drag session when the pointer exits the surface
func (m *Map) PointerLeave(p Props) {
	m.PointerUp(p)
}

// PanBy applies a single pan step, as if dragged by (dx, dy)
func (m *Map) PanBy(p Props, dx, dy float64) {
	if !m.gate(p) {
		return
	}
	m.pan(p, dx, dy)
}

func (m *Map) pan(p Props, dx, dy float64) {
	if m.callbacks.OnOffsetChanged != nil {
		m.callbacks.OnOffsetChanged(geo.Offset{
			X: p.View.Offset.X + dx,
			Y: p.View.Offset.Y + dy,
		})
	}

	if m.callbacks.OnCenterChanged != nil {
		inv := 1 / float64(p.View.Zoom)
		m.callbacks.OnCenterChanged(geo.LatLng{
			Lat: p.View.Center.Lat - dy*dragScale*inv,
			Lng: p.View.Center.Lng - dx*dragScale*inv,
		})
	}
}

// Click places a point at (x, y) when placement is allowed.
// It reports whether OnPointAdded was called.
func (m *Map) Click(p Props, x, y float64) bool {
	switch {
	case !p.PlacementEnabled, m.callbacks.OnPointAdded == nil:
		return false
	case len(p.Points) >= points.Capacity:
		debug.Log("placement ignored: shape already closed")
		return false
	case m.drag.active:
		debug.Log("placement ignored: drag in progress")
		return false
	case !p.Viewport.Valid():
		debug.Log("placement ignored: viewport not measured")
		return false
	}

	c := geo.ToCoordinate(geo.Pixel{X: x, Y: y}, p.Viewport, p.View)
	coord := geo.Coordinate{Lat: c.Lat, Lng: c.Lng, ID: points.Label(len(p.Points))}

	debug.Log("placing %s at %.6f, %.6f", coord.ID, coord.Lat, coord.Lng)
	m.callbacks.OnPointAdded(coord)
	return true
}

// ZoomIn asks the host to zoom in one level
func (m *Map) ZoomIn(p Props) {
	m.zoomTo(p.View.Zoom + 1)
}

// ZoomOut asks the host to zoom out one level
func (m *Map) ZoomOut(p Props) {
	m.zoomTo(p.View.Zoom - 1)
}

func (m *Map) zoomTo(zoom int) {
	if m.callbacks.OnZoomChanged != nil {
		m.callbacks.OnZoomChanged(geo.ClampZoom(zoom))
	}
}
