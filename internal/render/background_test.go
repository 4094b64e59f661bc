package render_test

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"quadmap/internal/geo"
	"quadmap/internal/render"
)

func TestLayout(t *testing.T) {
	vp := geo.Viewport{Width: 200, Height: 100}
	tests := []struct {
		name                     string
		view                       geo.ViewState
		left, top, width, height float64
	}{
		{"base zoom fills width", geo.ViewState{Zoom: 13}, 0, 0, 200, 100},
		{"double zoom centered", geo.ViewState{Zoom: 26}, -100, -50, 400, 200},
		{"offset moves anchor", geo.ViewState{Zoom: 26, Offset: geo.Offset{X: 100}}, -120, -50, 400, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, tp, w, h := render.Layout(vp, tt.view, 100, 50)
			for _, pair := range [][2]float64{{l, tt.left}, {tp, tt.top}, {w, tt.width}, {h, tt.height}} {
				if math.Abs(pair[0]-pair[1]) > 1e-9 {
					t.Errorf("Layout = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
						l, tp, w, h, tt.left, tt.top, tt.width, tt.height)
					break
				}
			}
		})
	}
}

func TestLayoutEmptyImage(t *testing.T) {
	if _, _, w, h := render.Layout(geo.Viewport{Width: 10, Height: 10}, geo.ViewState{Zoom: 13}, 0, 5); w != 0 || h != 0 {
		t.Errorf("empty image laid out as %vx%v", w, h)
	}
}

func TestPaintWithoutImageUsesBase(t *testing.T) {
	c := render.NewCanvas(4, 2)
	render.NewBackground(nil).Paint(c, geo.ViewState{Zoom: 13})

	want := render.ColorMapBase.BlendRgb(render.ColorWash, render.WashOpacity)
	got := c.Background(3, 1, render.ColorWash)
	if got.DistanceRgb(want) > 0.01 {
		t.Errorf("background = %v, want %v", got.Hex(), want.Hex())
	}
}

func TestPaintSamplesImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 0, G: 0, B: 0, A: 255})
		}
	}

	c := render.NewCanvas(4, 2)
	render.NewBackground(img).Paint(c, geo.ViewState{Zoom: 13})

	got := c.Background(1, 1, render.ColorWash)
	// black washed with 10% white
	if got.R > 0.15 || got.G > 0.15 || got.B > 0.15 {
		t.Errorf("background = %v, want near black", got.Hex())
	}
}

func TestLoadBackground(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 3, 3))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := render.LoadBackground(path); err != nil {
		t.Errorf("LoadBackground: %v", err)
	}

	bad := filepath.Join(t.TempDir(), "map.txt")
	os.WriteFile(bad, []byte("nope"), 0o644)
	if _, err := render.LoadBackground(bad); err == nil {
		t.Error("expected decode error")
	}
}
