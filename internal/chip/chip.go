// Package chip cuts rectangular sub-rasters out of an image, either around
// annotated boxes or on a half-overlapping grid.
package chip

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"github.com/mgnigh98/VisionLabel/internal/annotation"
	"github.com/mgnigh98/VisionLabel/internal/raster"
)

var (
	// ErrGridTooLarge is returned when a grid tile would not fit the raster.
	ErrGridTooLarge = errors.New("grid size larger than raster")
	// ErrInvalidGridSize is returned for sizes that cannot be halved.
	ErrInvalidGridSize = errors.New("grid size must be at least 2")
)

// Spec is one chip. Rect is in raster pixels and already clamped; Rows and
// Cols are its half-open ranges.
type Spec struct {
	Rect image.Rectangle
	Name string

	// Grid position; zero for annotation chips.
	Row, Col int
}

// Rows returns the [lo, hi) row range.
func (s Spec) Rows() (int, int) { return s.Rect.Min.Y, s.Rect.Max.Y }

// Cols returns the [lo, hi) column range.
func (s Spec) Cols() (int, int) { return s.Rect.Min.X, s.Rect.Max.X }

// FromShapes returns one chip per box, clamped to bounds and named after the
// clamped integer bounds. Lines are ignored. Boxes that clamp to nothing are
// returned separately so callers can report them.
func FromShapes(path string, shapes []annotation.Shape, bounds image.Rectangle) (specs []Spec, skipped []annotation.PixelShape) {
	seen := make(map[image.Rectangle]bool)
	for _, sh := range shapes {
		if sh.Kind != annotation.Box {
			continue
		}
		px := sh.Pixels()
		r := px.Rect(bounds)
		if r.Empty() {
			skipped = append(skipped, px)
			continue
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		specs = append(specs, Spec{Rect: r, Name: raster.WindowName(path, r)})
	}
	return specs, skipped
}

// Grid tiles a raster of the given size with size x size windows advancing by
// half a tile. A right-aligned column and a bottom-aligned row are added when
// the stride does not divide the raster, plus their shared corner tile.
// Regular tiles that run past an edge are clamped.
func Grid(path string, dims image.Point, size int) ([]Spec, error) {
	if size < 2 {
		return nil, fmt.Errorf("grid %d: %w", size, ErrInvalidGridSize)
	}
	if size > dims.X || size > dims.Y {
		return nil, fmt.Errorf("grid %d for %dx%d: %w", size, dims.X, dims.Y, ErrGridTooLarge)
	}
	bounds := image.Rectangle{Max: dims}
	rows := starts(dims.Y, size)
	cols := starts(dims.X, size)
	stem := raster.Stem(path)
	specs := make([]Spec, 0, len(rows)*len(cols))
	for ri, y := range rows {
		for ci, x := range cols {
			r := image.Rect(x, y, x+size, y+size).Intersect(bounds)
			specs = append(specs, Spec{
				Rect: r,
				Name: fmt.Sprintf("%s_%d_%d", stem, ri, ci),
				Row:  ri,
				Col:  ci,
			})
		}
	}
	return specs, nil
}

// starts lists tile origins along one axis.
func starts(dim, size int) []int {
	stride := size / 2
	var out []int
	for s := 0; s < dim-stride; s += stride {
		out = append(out, s)
	}
	if len(out) == 0 {
		out = append(out, 0)
	}
	if dim%stride != 0 && !slices.Contains(out, dim-size) {
		out = append(out, dim-size)
	}
	return out
}
