// Package annotation holds the shapes drawn over the current raster and
// converts them between canvas space and raster space.
package annotation

import (
	"fmt"

	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

// Kind is the geometry of a Shape.
type Kind int

const (
	Box Kind = iota
	Line
)

func (k Kind) String() string {
	switch k {
	case Box:
		return "box"
	case Line:
		return "line"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Toggle swaps between Box and Line.
func (k Kind) Toggle() Kind {
	if k == Box {
		return Line
	}
	return Box
}

// Shape is a box or line held in canvas coordinates. P0 is the anchor set
// when the shape is started and P1 follows the pointer until Commit. Frame
// is the viewport the coordinates were taken under; it never changes, so
// later zooming or panning does not touch stored geometry.
type Shape struct {
	Kind   Kind
	P0, P1 viewport.Point
	Label  string
	Frame  viewport.Frame

	committed bool
}

// Committed reports whether the shape has been frozen.
func (s Shape) Committed() bool { return s.committed }

// Store is the ordered list of shapes for the open raster. Shapes are removed
// in reverse order of insertion.
type Store struct {
	shapes []Shape
}

// Begin starts a new shape with both endpoints at p, taken under frame f,
// and appends it.
func (s *Store) Begin(kind Kind, p viewport.Point, label string, f viewport.Frame) {
	s.shapes = append(s.shapes, Shape{Kind: kind, P0: p, P1: p, Label: label, Frame: f})
}

// Update moves the free endpoint of the shape being drawn. p is taken under
// frame f and is reprojected if the view moved since Begin. It reports false
// when there is no open shape.
func (s *Store) Update(p viewport.Point, f viewport.Frame) bool {
	last := s.open()
	if last == nil {
		return false
	}
	last.P1 = viewport.Reproject(p, f, last.Frame)
	return true
}

// Commit freezes the shape being drawn.
func (s *Store) Commit() bool {
	last := s.open()
	if last == nil {
		return false
	}
	last.committed = true
	return true
}

// Add appends an already complete shape, as produced by an import.
func (s *Store) Add(sh Shape) {
	sh.committed = true
	s.shapes = append(s.shapes, sh)
}

// DeleteLast removes the most recently appended shape, open or not.
func (s *Store) DeleteLast() (Shape, bool) {
	if len(s.shapes) == 0 {
		return Shape{}, false
	}
	last := s.shapes[len(s.shapes)-1]
	s.shapes = s.shapes[:len(s.shapes)-1]
	return last, true
}

// Clear drops every shape.
func (s *Store) Clear() { s.shapes = s.shapes[:0] }

// Len returns the number of shapes.
func (s *Store) Len() int { return len(s.shapes) }

// Shapes returns a copy of the shapes in insertion order.
func (s *Store) Shapes() []Shape {
	out := make([]Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

func (s *Store) open() *Shape {
	if len(s.shapes) == 0 {
		return nil
	}
	last := &s.shapes[len(s.shapes)-1]
	if last.committed {
		return nil
	}
	return last
}
