package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"quadmap/internal/geo"
)

// Palette for the map surface
var (
	ColorMapBase  = mustHex("#ede8e8")
	ColorWash     = mustHex("#ffffff")
	ColorFill     = mustHex("#2a70f0")
	ColorEdge     = mustHex("#83acf8")
	ColorMarker   = mustHex("#bfdbfe")
	ColorBackdrop = mustHex("#8a8f98")
)

// Opacities of the translucent layers
const (
	WashOpacity = 0.1
	FillOpacity = 0.4
)

// Style definitions for overlay glyphs and panels
var (
	StyleEdge         = tcell.StyleDefault.Foreground(toTcell(ColorEdge)).Bold(true)
	StyleMarker       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(toTcell(ColorMarker)).Bold(true)
	StyleBackdrop     = tcell.StyleDefault.Foreground(toTcell(ColorBackdrop))
	StylePlace        = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	StyleButton       = tcell.StyleDefault.Foreground(tcell.ColorDimGray).Background(tcell.ColorWhite).Bold(true)
	StyleLabel        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleListItem     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleListSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	StyleStatus       = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
)

// GetStyleForFeature returns the appropriate style for a backdrop feature type
func GetStyleForFeature(ftype geo.FeatureType) tcell.Style {
	switch ftype {
	case geo.FeaturePlace:
		return StylePlace
	default:
		return StyleBackdrop
	}
}

// GetCharForFeature returns the appropriate character for drawing a feature
func GetCharForFeature(ftype geo.FeatureType) rune {
	switch ftype {
	case geo.FeatureOutline:
		return '-'
	case geo.FeatureLine:
		return '~'
	default:
		return '·'
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
