package render

import (
	"quadmap/internal/geo"
	"quadmap/internal/points"
)

// Marker is a labelled point position
type Marker struct {
	ID string
	At geo.Pixel
}

// Segment joins two consecutive points. Closing marks the 4th→1st edge.
type Segment struct {
	From    geo.Pixel
	To      geo.Pixel
	Closing bool
}

// Overlay is the geometry derived from the placed points for one render pass
type Overlay struct {
	Markers  []Marker
	Segments []Segment
	Polygon  []geo.Pixel // set only once the shape is closed
}

// Closed reports whether the overlay carries the filled polygon
func (o Overlay) Closed() bool {
	return len(o.Polygon) == points.Capacity
}

// BuildOverlay projects the points for the current view. It keeps no state, so the
// same inputs always give the same overlay. An unmeasured viewport yields no overlay.
func BuildOverlay(coords []geo.Coordinate, vp geo.Viewport, view geo.ViewState) (Overlay, bool) {
	if !vp.Valid() || view.Zoom == 0 {
		return Overlay{}, false
	}

	var o Overlay
	pixels := make([]geo.Pixel, len(coords))
	for i, c := range coords {
		pixels[i] = geo.ToPixel(c.LatLng(), vp, view)
		o.Markers = append(o.Markers, Marker{ID: c.ID, At: pixels[i]})
	}

	for i := 0; i+1 < len(pixels); i++ {
		o.Segments = append(o.Segments, Segment{From: pixels[i], To: pixels[i+1]})
	}

	if len(pixels) == points.Capacity {
		o.Segments = append(o.Segments, Segment{From: pixels[3], To: pixels[0], Closing: true})
		o.Polygon = pixels
	}

	return o, true
}

// Contains tests if a pixel is inside the polygon using ray casting
func (o Overlay) Contains(p geo.Pixel) bool {
	poly := o.Polygon
	if len(poly) < 3 {
		return false
	}

	inside := false
	n := len(poly)
	for i := 0; i < n; i++ {
		pi, pj := poly[i], poly[(i+1)%n]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}
	return inside
}
