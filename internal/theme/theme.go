package theme

import (
	"image/color"
)

// Theme defines the colours used for the canvas and its overlays.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Canvas area not covered by the raster
	Foreground color.RGBA // Status text

	StatusBackground color.RGBA

	// Overlays
	Box       color.RGBA // Committed box outline
	Line      color.RGBA // Committed line
	Active    color.RGBA // Shape still being dragged
	Label     color.RGBA
	LabelHalo color.RGBA
}

// Default returns the hardcoded default dark theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.RGBA{32, 32, 32, 255},
		Foreground:       color.RGBA{235, 235, 235, 255},
		StatusBackground: color.RGBA{0, 0, 0, 200},
		Box:              color.RGBA{255, 0, 0, 255},
		Line:             color.RGBA{255, 0, 0, 255},
		Active:           color.RGBA{255, 200, 0, 255},
		Label:            color.RGBA{255, 255, 255, 255},
		LabelHalo:        color.RGBA{0, 0, 0, 255},
	}
}
