package geo

import (
	"math"
	"strconv"
)

// Zoom limits shared by every view.
const (
	MinZoom = 1
	MaxZoom = 18
)

const (
	pixelsPerDegree = 1000.0
	degreesPerPixel = 0.001
	offsetFactor    = 0.1
	baseZoom        = 13.0
)

// LatLng is a bare geographic position
type LatLng struct {
	Lat float64
	Lng float64
}

// Coordinate is a placed point. ID is assigned once at creation (D1..D4).
type Coordinate struct {
	Lat float64
	Lng float64
	ID  string
}

// LatLng drops the label
func (c Coordinate) LatLng() LatLng {
	return LatLng{Lat: c.Lat, Lng: c.Lng}
}

// Offset is the background pan accumulator in pixels
type Offset struct {
	X float64
	Y float64
}

// ViewState is the navigable map state owned by the host
type ViewState struct {
	Center LatLng
	Zoom   int
	Offset Offset
}

// Viewport is the measured size of the drawing surface
type Viewport struct {
	Width  float64
	Height float64
}

// Valid reports whether the surface has been measured
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0 &&
		!math.IsInf(v.Width, 0) && !math.IsInf(v.Height, 0)
}

// Pixel is a sub-cell position inside the viewport, (0, 0) at top-left
type Pixel struct {
	X float64
	Y float64
}

// Point represents a screen coordinate
type Point struct {
	X int
	Y int
}

// ClampZoom keeps a zoom level inside [MinZoom, MaxZoom]
func ClampZoom(zoom int) int {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// ToPixel maps a position to viewport pixels.
// Latitude grows upward on screen, so the y term is inverted.
func ToPixel(c LatLng, vp Viewport, view ViewState) Pixel {
	zoom := float64(view.Zoom)
	return Pixel{
		X: vp.Width/2 + (c.Lng-view.Center.Lng)*pixelsPerDegree*zoom + view.Offset.X*offsetFactor,
		Y: vp.Height/2 - (c.Lat-view.Center.Lat)*pixelsPerDegree*zoom + view.Offset.Y*offsetFactor,
	}
}

// ToCoordinate maps a viewport pixel back to a position rounded to 6 decimals.
// The background offset is not taken into account here, so it is not an exact
// inverse of ToPixel once the view has been dragged.
func ToCoordinate(px Pixel, vp Viewport, view ViewState) LatLng {
	inv := 1 / float64(view.Zoom)
	lat := view.Center.Lat + (vp.Height/2-px.Y)*degreesPerPixel*inv
	lng := view.Center.Lng + (px.X-vp.Width/2)*degreesPerPixel*inv
	return LatLng{Lat: Round6(lat), Lng: Round6(lng)}
}

// Round6 rounds to six decimal places the way a fixed-point string would
func Round6(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 6, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// BackgroundScale returns the background image width as a percentage of the viewport width
func BackgroundScale(zoom int) float64 {
	return 100 * float64(zoom) / baseZoom
}

// BackgroundPosition returns the background anchor as percentages (CSS background-position)
func BackgroundPosition(off Offset) (xPercent, yPercent float64) {
	return 50 + off.X*offsetFactor, 50 + off.Y*offsetFactor
}

// Projection binds a viewport and a view so callers can project repeatedly
type Projection struct {
	viewport Viewport
	view     ViewState
}

// NewProjection creates a projection for one render pass
func NewProjection(vp Viewport, view ViewState) Projection {
	return Projection{viewport: vp, view: view}
}

// Viewport returns the surface size the projection was built for
func (p Projection) Viewport() Viewport {
	return p.viewport
}

// View returns the view state the projection was built for
func (p Projection) View() ViewState {
	return p.view
}

// Valid reports whether projecting is meaningful
func (p Projection) Valid() bool {
	return p.viewport.Valid() && p.view.Zoom != 0
}

// Project converts lat/lng to pixel coordinates
func (p Projection) Project(lat, lng float64) Pixel {
	return ToPixel(LatLng{Lat: lat, Lng: lng}, p.viewport, p.view)
}

// Unproject converts pixel coordinates back to lat/lng
func (p Projection) Unproject(x, y float64) LatLng {
	return ToCoordinate(Pixel{X: x, Y: y}, p.viewport, p.view)
}

// Cell converts lat/lng to the terminal cell containing it
func (p Projection) Cell(lat, lng float64) Point {
	return PixelCell(p.Project(lat, lng))
}

// PixelCell returns the cell a pixel falls into
func PixelCell(px Pixel) Point {
	return Point{X: int(math.Floor(px.X)), Y: int(math.Floor(px.Y))}
}

// GetBounds returns the geographic bounds visible on screen.
// The offset shift of ToPixel is folded back in so backdrop filtering
// matches what is drawn.
func (p Projection) GetBounds() *Bounds {
	shiftX := p.view.Offset.X * offsetFactor
	shiftY := p.view.Offset.Y * offsetFactor

	topLeft := p.Unproject(-shiftX, -shiftY)
	bottomRight := p.Unproject(p.viewport.Width-shiftX, p.viewport.Height-shiftY)

	return &Bounds{
		MinLat: math.Min(topLeft.Lat, bottomRight.Lat),
		MaxLat: math.Max(topLeft.Lat, bottomRight.Lat),
		MinLon: math.Min(topLeft.Lng, bottomRight.Lng),
		MaxLon: math.Max(topLeft.Lng, bottomRight.Lng),
	}
}
