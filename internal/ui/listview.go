package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"quadmap/internal/geo"
	"quadmap/internal/points"
	"quadmap/internal/render"
)

// ListView lists the placed points in insertion order
type ListView struct {
	coords []geo.Coordinate
	title  string
	hint   string
	area   rect
}

// NewListView creates a new point list view
func NewListView(x, y, width, height int) *ListView {
	return &ListView{
		title: "Points",
		area:  rect{x: x, y: y, width: width, height: height},
	}
}

// Update refreshes the list with a copy of coords
func (l *ListView) Update(title string, coords []geo.Coordinate) {
	l.title = fmt.Sprintf("%s %d/%d", title, len(coords), points.Capacity)
	l.coords = append(l.coords[:0], coords...)

	l.hint = ""
	if len(coords) == points.Capacity {
		l.hint = "Region closed"
	}
}

// SetHint replaces the footer line, e.g. with placement instructions
func (l *ListView) SetHint(hint string) {
	l.hint = hint
}

// Lines returns the rows the panel shows, without decoration
func (l *ListView) Lines() []string {
	lines := make([]string, 0, len(l.coords)+1)
	for _, c := range l.coords {
		lines = append(lines, fmt.Sprintf("%-3s %11.6f, %11.6f", c.ID, c.Lat, c.Lng))
	}
	if len(l.coords) == 0 {
		lines = append(lines, "No points")
	}
	return lines
}

// Draw renders the list view to the screen
func (l *ListView) Draw(screen tcell.Screen) {
	a := l.area
	if a.width < 3 || a.height < 3 {
		return
	}
	drawPanel(screen, a, l.title)

	inner := a.width - 2
	rows := a.height - 2
	for i, line := range l.Lines() {
		if i >= rows {
			break
		}
		style := render.StyleListItem
		if i == len(l.coords)-1 {
			style = render.StyleListSelected
		}
		drawString(screen, a.x+1, a.y+1+i, line, style, inner)
	}

	if l.hint != "" {
		drawString(screen, a.x+2, a.y+a.height-1, l.hint, render.StyleLabel.Dim(true), inner-2)
	}
}

// Area returns the panel rectangle, used to keep clicks off the map
func (l *ListView) Area() rect {
	return l.area
}

// UpdateDimensions updates the view dimensions
func (l *ListView) UpdateDimensions(x, y, width, height int) {
	l.area = rect{x: x, y: y, width: width, height: height}
}
