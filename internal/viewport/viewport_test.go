package viewport

import (
	"image"
	"math"
	"testing"
)

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestZoomKeepsCursorFixed(t *testing.T) {
	s := New(image.Pt(800, 600), image.Pt(2000, 1500))
	cursor := Pt(123, 321)
	before := s.CanvasToImage(cursor)
	for i := 0; i < 3; i++ {
		if _, ok := s.Zoom(cursor, In); !ok {
			t.Fatalf("zoom in %d refused", i)
		}
	}
	after := s.CanvasToImage(cursor)
	if !near(before, after) {
		t.Fatalf("cursor drifted: %+v -> %+v", before, after)
	}
	if math.Abs(s.Scale-math.Pow(DefaultDelta, 3)) > 1e-9 {
		t.Fatalf("unexpected scale %v", s.Scale)
	}
}

func TestZoomRoundTrip(t *testing.T) {
	s := New(image.Pt(800, 600), image.Pt(2000, 1500))
	cursor := Pt(400, 300)
	for i := 0; i < 5; i++ {
		s.Zoom(cursor, In)
	}
	for i := 0; i < 5; i++ {
		s.Zoom(cursor, Out)
	}
	if math.Abs(s.Scale-1) > 1e-9 || !near(s.Origin, Point{}) {
		t.Fatalf("expected identity, got scale=%v origin=%+v", s.Scale, s.Origin)
	}
}

func TestZoomLimits(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		dir   Direction
		want  bool
	}{
		{"out above floor", 1, Out, true},
		// 100 * 0.29 = 29 canvas px, below the 30 px floor.
		{"out below floor", 0.29, Out, false},
		{"in below ceiling", 1, In, true},
		{"in past ceiling", 700, In, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(image.Pt(800, 600), image.Pt(100, 200))
			s.Scale = tc.scale
			_, ok := s.Zoom(Pt(1, 1), tc.dir)
			if ok != tc.want {
				t.Fatalf("zoom ok=%v want %v", ok, tc.want)
			}
			if !ok && s.Scale != tc.scale {
				t.Fatalf("refused zoom changed scale to %v", s.Scale)
			}
		})
	}
}

func TestZoomOutsideContainerIgnored(t *testing.T) {
	s := New(image.Pt(800, 600), image.Pt(100, 100))
	if _, ok := s.Zoom(Pt(500, 500), In); ok {
		t.Fatalf("zoom outside raster should be ignored")
	}
	if s.Pan(Pt(500, 500), 10, 10) {
		t.Fatalf("pan outside raster should be ignored")
	}
	if !s.Pan(Pt(50, 50), 10, -5) {
		t.Fatalf("pan inside raster refused")
	}
	if s.Origin != Pt(10, -5) {
		t.Fatalf("unexpected origin %+v", s.Origin)
	}
}

func TestFit(t *testing.T) {
	s := New(image.Pt(800, 600), image.Pt(2000, 1500))
	s.Origin = Pt(40, 40)
	s.Fit()
	if s.Scale != 0.4 || s.Origin != (Point{}) {
		t.Fatalf("fit gave scale=%v origin=%+v", s.Scale, s.Origin)
	}
}

func TestTransformsInverse(t *testing.T) {
	s := New(image.Pt(800, 600), image.Pt(2000, 1500))
	s.Scale = 2
	s.Origin = Pt(50, 50)
	p := Pt(250, 450)
	img := s.CanvasToImage(p)
	if img != Pt(100, 200) {
		t.Fatalf("CanvasToImage = %+v", img)
	}
	if back := s.ImageToCanvas(img); back != p {
		t.Fatalf("ImageToCanvas = %+v", back)
	}
}
