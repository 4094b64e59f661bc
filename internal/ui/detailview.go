package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"quadmap/internal/geo"
	"quadmap/internal/render"
	"quadmap/internal/widget"
)

// DetailView displays the current view state and how the background is laid out
type DetailView struct {
	view     geo.ViewState
	viewport geo.Viewport
	state    widget.State
	area     rect
}

// NewDetailView creates a new detail view
func NewDetailView(x, y, width, height int) *DetailView {
	return &DetailView{
		area: rect{x: x, y: y, width: width, height: height},
	}
}

// SetState sets the values to display
func (d *DetailView) SetState(view geo.ViewState, vp geo.Viewport, state widget.State) {
	d.view = view
	d.viewport = vp
	d.state = state
}

// Lines returns the rows the panel shows, without decoration
func (d *DetailView) Lines() []string {
	v := d.view
	posX, posY := geo.BackgroundPosition(v.Offset)

	lines := []string{
		fmt.Sprintf("Center:     %.6f, %.6f", v.Center.Lat, v.Center.Lng),
		fmt.Sprintf("Zoom:       %d", v.Zoom),
		fmt.Sprintf("Offset:     %+.0f, %+.0f px", v.Offset.X, v.Offset.Y),
		fmt.Sprintf("Background: %.1f%% at %.1f%% %.1f%%", geo.BackgroundScale(v.Zoom), posX, posY),
		fmt.Sprintf("Viewport:   %.0fx%.0f", d.viewport.Width, d.viewport.Height),
		fmt.Sprintf("Pointer:    %s", d.state),
	}

	proj := geo.NewProjection(d.viewport, v)
	if proj.Valid() {
		b := proj.GetBounds()
		lines = append(lines,
			fmt.Sprintf("Lat:        %.4f to %.4f", b.MinLat, b.MaxLat),
			fmt.Sprintf("Lng:        %.4f to %.4f", b.MinLon, b.MaxLon),
		)
	}
	return lines
}

// Draw renders the detail view to the screen
func (d *DetailView) Draw(screen tcell.Screen) {
	a := d.area
	if a.width < 3 || a.height < 3 {
		return
	}
	drawPanel(screen, a, "View")

	for i, line := range d.Lines() {
		if i >= a.height-2 {
			break
		}
		drawString(screen, a.x+2, a.y+1+i, line, render.StyleLabel, a.width-4)
	}

	instructions := " Press i to return "
	drawString(screen, a.x+(a.width-len(instructions))/2, a.y+a.height-1, instructions, render.StyleLabel.Dim(true), a.width-2)
}

// Area returns the panel rectangle
func (d *DetailView) Area() rect {
	return d.area
}

// UpdateDimensions updates the view dimensions
func (d *DetailView) UpdateDimensions(x, y, width, height int) {
	d.area = rect{x: x, y: y, width: width, height: height}
}
