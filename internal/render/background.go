package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"quadmap/internal/debug"
	"quadmap/internal/geo"
)

// Background is the static picture standing in for map tiles. It is laid out
// like a CSS no-repeat background: width as a percentage of the viewport and
// a percentage anchor.
type Background struct {
	src    image.Image
	scaled *image.RGBA
}

// LoadBackground decodes a PNG, JPEG or WebP file
func LoadBackground(path string) (*Background, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open background: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode background: %w", err)
	}

	debug.Log("Loaded %s background %dx%d from %s", format, img.Bounds().Dx(), img.Bounds().Dy(), path)
	return NewBackground(img), nil
}

// NewBackground wraps an already decoded image; nil means a plain base colour
func NewBackground(img image.Image) *Background {
	return &Background{src: img}
}

// Layout returns where the image lands in viewport pixels for the given view
func Layout(vp geo.Viewport, view geo.ViewState, srcW, srcH int) (left, top, width, height float64) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, 0, 0
	}

	width = vp.Width * geo.BackgroundScale(view.Zoom) / 100
	height = width * float64(srcH) / float64(srcW)

	px, py := geo.BackgroundPosition(view.Offset)
	left = (vp.Width - width) * px / 100
	top = (vp.Height - height) * py / 100
	return left, top, width, height
}

// Paint fills the canvas background for the view, then applies the white wash
func (b *Background) Paint(c *Canvas, view geo.ViewState) {
	vp := geo.Viewport{Width: float64(c.Width()), Height: float64(c.Height())}

	var img *image.RGBA
	var left, top float64
	if b != nil && b.src != nil && vp.Valid() {
		var w, h float64
		left, top, w, h = Layout(vp, view, b.src.Bounds().Dx(), b.src.Bounds().Dy())
		img = b.scaledTo(int(math.Round(w)), int(math.Round(h)))
	}

	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			col := ColorMapBase
			if img != nil {
				col = sample(img, x-int(math.Round(left)), y-int(math.Round(top)), col)
			}
			c.SetBackground(x, y, col.BlendRgb(ColorWash, WashOpacity).Clamped())
		}
	}
}

// scaledTo resizes the source once per distinct size
func (b *Background) scaledTo(w, h int) *image.RGBA {
	if w < 1 || h < 1 {
		return nil
	}
	if b.scaled != nil && b.scaled.Bounds().Dx() == w && b.scaled.Bounds().Dy() == h {
		return b.scaled
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), b.src, b.src.Bounds(), draw.Src, nil)
	b.scaled = dst
	return dst
}

func sample(img *image.RGBA, x, y int, base colorful.Color) colorful.Color {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return base
	}

	px := img.RGBAAt(x, y)
	if px.A == 0 {
		return base
	}
	col, _ := colorful.MakeColor(px)
	return base.BlendRgb(col, float64(px.A)/255)
}
