package render

import (
	"image"
	"image/color"
	"math"
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	b := img.Bounds()
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(b) {
				img.Set(px, py, col)
			}
		}
	}
}

// drawLine rasterises a segment with Bresenham's algorithm. Segments running
// far off the canvas are clipped first so a deep zoom does not walk millions
// of invisible pixels.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	var ok bool
	x0, y0, x1, y1, ok = clipSegment(img.Bounds().Inset(-thick), x0, y0, x1, y1)
	if !ok {
		return
	}
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// clipSegment is Liang-Barsky clipping against r. It reports false when the
// segment misses r entirely.
func clipSegment(r image.Rectangle, x0, y0, x1, y1 int) (int, int, int, int, bool) {
	fx0, fy0 := float64(x0), float64(y0)
	ddx, ddy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-ddx, fx0 - float64(r.Min.X)},
		{ddx, float64(r.Max.X-1) - fx0},
		{-ddy, fy0 - float64(r.Min.Y)},
		{ddy, float64(r.Max.Y-1) - fy0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return int(math.Round(fx0 + t0*ddx)), int(math.Round(fy0 + t0*ddy)),
		int(math.Round(fx0 + t1*ddx)), int(math.Round(fy0 + t1*ddy)), true
}
