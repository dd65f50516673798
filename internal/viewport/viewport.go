// Package viewport maps between canvas space and raster pixel space for a
// single zoom scalar and a container origin.
package viewport

import (
	"image"
	"math"
)

const (
	// DefaultDelta is the multiplicative step applied per wheel notch.
	DefaultDelta = 1.3
	// DefaultMinVisible is the shortest on-canvas extent, in canvas pixels,
	// the raster may shrink to before zoom-out is refused.
	DefaultMinVisible = 30
)

// Point is a location in canvas or image space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Direction selects the sense of a zoom step.
type Direction int

const (
	In Direction = iota
	Out
)

// Frame is the affine part of a viewport. Scale is canvas pixels per raster
// pixel and Origin is where raster pixel (0,0) lands on the canvas.
type Frame struct {
	Scale  float64
	Origin Point
}

// Identity is the frame in which canvas and raster pixels coincide.
var Identity = Frame{Scale: 1}

// CanvasToImage maps a canvas position to raster pixel space.
func (f Frame) CanvasToImage(p Point) Point {
	return Point{X: (p.X - f.Origin.X) / f.Scale, Y: (p.Y - f.Origin.Y) / f.Scale}
}

// ImageToCanvas maps a raster pixel position to canvas space.
func (f Frame) ImageToCanvas(p Point) Point {
	return Point{X: p.X*f.Scale + f.Origin.X, Y: p.Y*f.Scale + f.Origin.Y}
}

// Reproject moves a canvas position drawn under from into canvas space
// under to.
func Reproject(p Point, from, to Frame) Point {
	if from == to {
		return p
	}
	return to.ImageToCanvas(from.CanvasToImage(p))
}

// State is the viewport over one raster.
type State struct {
	Frame

	// Canvas is the visible drawing surface.
	Canvas image.Point
	// Image is the full raster extent in pixels.
	Image image.Point

	Delta      float64
	MinVisible int
}

// Option configures a State.
type Option func(*State)

// WithDelta overrides the zoom step.
func WithDelta(d float64) Option {
	return func(s *State) {
		if d > 1 {
			s.Delta = d
		}
	}
}

// WithMinVisible overrides the zoom-out floor.
func WithMinVisible(px int) Option {
	return func(s *State) {
		if px > 0 {
			s.MinVisible = px
		}
	}
}

// New returns a State at scale 1 anchored at the canvas origin.
func New(canvas, img image.Point, opts ...Option) *State {
	s := &State{
		Frame:      Identity,
		Canvas:     canvas,
		Image:      img,
		Delta:      DefaultDelta,
		MinVisible: DefaultMinVisible,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fit picks the largest scale at which the whole raster is visible and moves
// the origin back to the canvas corner.
func (s *State) Fit() {
	s.Origin = Point{}
	if s.Image.X <= 0 || s.Image.Y <= 0 || s.Canvas.X <= 0 || s.Canvas.Y <= 0 {
		s.Scale = 1
		return
	}
	s.Scale = math.Min(float64(s.Canvas.X)/float64(s.Image.X), float64(s.Canvas.Y)/float64(s.Image.Y))
}

// Resize updates the canvas size, leaving scale and origin untouched.
func (s *State) Resize(canvas image.Point) { s.Canvas = canvas }

// Container is the raster's full extent as placed on the canvas. It may lie
// partly or wholly off screen.
func (s *State) Container() (min, max Point) {
	return s.Origin, s.ImageToCanvas(Point{X: float64(s.Image.X), Y: float64(s.Image.Y)})
}

// Visible is the canvas rectangle.
func (s *State) Visible() image.Rectangle {
	return image.Rectangle{Max: s.Canvas}
}

// Contains reports whether p lies within the raster's on-canvas rectangle.
func (s *State) Contains(p Point) bool {
	lo, hi := s.Container()
	return p.X >= lo.X && p.X < hi.X && p.Y >= lo.Y && p.Y < hi.Y
}

// Zoom scales the view by Delta about cursor. It returns the factor applied.
// ok is false when the request was refused; the state is then unchanged.
func (s *State) Zoom(cursor Point, dir Direction) (factor float64, ok bool) {
	if !s.Contains(cursor) {
		return 1, false
	}
	switch dir {
	case Out:
		short := math.Min(float64(s.Image.X), float64(s.Image.Y))
		if int(short*s.Scale) < s.MinVisible {
			return 1, false
		}
		factor = 1 / s.Delta
	case In:
		short := math.Min(float64(s.Canvas.X), float64(s.Canvas.Y))
		if short < s.Scale {
			return 1, false
		}
		factor = s.Delta
	default:
		return 1, false
	}
	s.Scale *= factor
	s.Origin = ScaleAbout(s.Origin, cursor, factor)
	return factor, true
}

// Pan translates the view. A drag that starts outside the raster is ignored.
func (s *State) Pan(from Point, dx, dy float64) bool {
	if !s.Contains(from) {
		return false
	}
	s.Origin.X += dx
	s.Origin.Y += dy
	return true
}

// ScaleAbout applies a uniform scale of factor about anchor to p.
func ScaleAbout(p, anchor Point, factor float64) Point {
	return Point{
		X: anchor.X + (p.X-anchor.X)*factor,
		Y: anchor.Y + (p.Y-anchor.Y)*factor,
	}
}
