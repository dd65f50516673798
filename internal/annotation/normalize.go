package annotation

import (
	"image"
	"math"

	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

// PixelShape is a Shape expressed in raster pixels. For boxes Min and Max are
// ordered corners; for lines they are the endpoints as drawn.
type PixelShape struct {
	Kind     Kind
	Label    string
	Min, Max viewport.Point
}

// Center returns the midpoint of the two points.
func (p PixelShape) Center() viewport.Point {
	return viewport.Pt((p.Min.X+p.Max.X)/2, (p.Min.Y+p.Max.Y)/2)
}

// Corners returns the box corners clockwise from top-left.
func (p PixelShape) Corners() [4]viewport.Point {
	return [4]viewport.Point{
		p.Min,
		viewport.Pt(p.Max.X, p.Min.Y),
		p.Max,
		viewport.Pt(p.Min.X, p.Max.Y),
	}
}

// Rect returns the integer rectangle covering the shape, clamped to bounds.
// The low edge is floored and the high edge truncated, after snapping values
// that are within rounding noise of an integer.
func (p PixelShape) Rect(bounds image.Rectangle) image.Rectangle {
	lo, hi := order(p.Min, p.Max)
	r := image.Rect(
		int(math.Floor(snap(lo.X))), int(math.Floor(snap(lo.Y))),
		int(snap(hi.X)), int(snap(hi.Y)),
	)
	return r.Intersect(bounds)
}

const snapEpsilon = 1e-6

func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < snapEpsilon {
		return r
	}
	return v
}

// Normalized is a shape with coordinates divided by the raster dimensions.
// Boxes fill CX, CY, W and H; lines fill X1, Y1, X2 and Y2.
type Normalized struct {
	Kind  Kind
	Label string

	CX, CY, W, H   float64
	X1, Y1, X2, Y2 float64
}

// ToImagePixels subtracts the origin of f and divides by its scale.
func ToImagePixels(s Shape, f viewport.Frame) PixelShape {
	a := f.CanvasToImage(s.P0)
	b := f.CanvasToImage(s.P1)
	if s.Kind == Box {
		a, b = order(a, b)
	}
	return PixelShape{Kind: s.Kind, Label: s.Label, Min: a, Max: b}
}

// Pixels maps the shape to raster pixels through the frame it was drawn in.
func (s Shape) Pixels() PixelShape { return ToImagePixels(s, s.Frame) }

// ToImageFraction maps a shape to raster pixels through f and divides by size.
// Box corners are clamped to the raster first, so every box field lies in
// [0,1]; a box wholly outside the raster has zero width or height.
func ToImageFraction(s Shape, f viewport.Frame, size image.Point) Normalized {
	p := ToImagePixels(s, f)
	w, h := float64(size.X), float64(size.Y)
	n := Normalized{Kind: s.Kind, Label: s.Label}
	switch s.Kind {
	case Box:
		p.Min = clampPt(p.Min, w, h)
		p.Max = clampPt(p.Max, w, h)
		n.CX = (p.Min.X + p.Max.X) / (2 * w)
		n.CY = (p.Min.Y + p.Max.Y) / (2 * h)
		n.W = (p.Max.X - p.Min.X) / w
		n.H = (p.Max.Y - p.Min.Y) / h
	case Line:
		n.X1, n.Y1 = p.Min.X/w, p.Min.Y/h
		n.X2, n.Y2 = p.Max.X/w, p.Max.Y/h
	}
	return n
}

// FromFraction is the inverse of ToImageFraction. The returned shape is
// committed and expressed under f.
func FromFraction(n Normalized, f viewport.Frame, size image.Point) Shape {
	w, h := float64(size.X), float64(size.Y)
	var a, b viewport.Point
	switch n.Kind {
	case Line:
		a = viewport.Pt(n.X1*w, n.Y1*h)
		b = viewport.Pt(n.X2*w, n.Y2*h)
	default:
		a = viewport.Pt((n.CX-n.W/2)*w, (n.CY-n.H/2)*h)
		b = viewport.Pt((n.CX+n.W/2)*w, (n.CY+n.H/2)*h)
	}
	return Shape{
		Kind:      n.Kind,
		Label:     n.Label,
		P0:        f.ImageToCanvas(a),
		P1:        f.ImageToCanvas(b),
		Frame:     f,
		committed: true,
	}
}

// Project returns the shape's endpoints in canvas space under f, which is
// where the overlay is drawn for the current view.
func Project(s Shape, f viewport.Frame) (p0, p1 viewport.Point) {
	return viewport.Reproject(s.P0, s.Frame, f), viewport.Reproject(s.P1, s.Frame, f)
}

// Normalize converts every shape in the store through the frame each was
// drawn in.
func (s *Store) Normalize(size image.Point) []Normalized {
	out := make([]Normalized, 0, len(s.shapes))
	for _, sh := range s.shapes {
		out = append(out, ToImageFraction(sh, sh.Frame, size))
	}
	return out
}

// Empty reports whether a box covers no area.
func (n Normalized) Empty() bool { return n.Kind == Box && (n.W <= 0 || n.H <= 0) }

// Same reports whether n and o have the same kind and label and their
// coordinates agree within tol.
func (n Normalized) Same(o Normalized, tol float64) bool {
	if n.Kind != o.Kind || n.Label != o.Label {
		return false
	}
	a := [8]float64{n.CX, n.CY, n.W, n.H, n.X1, n.Y1, n.X2, n.Y2}
	b := [8]float64{o.CX, o.CY, o.W, o.H, o.X1, o.Y1, o.X2, o.Y2}
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func clampPt(p viewport.Point, w, h float64) viewport.Point {
	return viewport.Pt(math.Min(math.Max(p.X, 0), w), math.Min(math.Max(p.Y, 0), h))
}

func order(a, b viewport.Point) (viewport.Point, viewport.Point) {
	lo := viewport.Pt(math.Min(a.X, b.X), math.Min(a.Y, b.Y))
	hi := viewport.Pt(math.Max(a.X, b.X), math.Max(a.Y, b.Y))
	return lo, hi
}
