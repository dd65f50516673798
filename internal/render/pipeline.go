// Package render draws the visible part of a raster and the annotation
// overlay onto a canvas buffer.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/mgnigh98/VisionLabel/internal/annotation"
	"github.com/mgnigh98/VisionLabel/internal/raster"
	"github.com/mgnigh98/VisionLabel/internal/theme"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

// Tile is the part of the raster that is on screen. Src is in raster pixels
// and Dst is where those pixels land on the canvas; Dst may overhang the
// canvas by less than one scaled pixel.
type Tile struct {
	Src image.Rectangle
	Dst image.Rectangle
}

// Plan intersects the raster's on-canvas rectangle with the canvas and
// works out which raster pixels are needed to cover it. ok is false when
// nothing of the raster is visible.
func Plan(vp *viewport.State) (Tile, bool) {
	lo, hi := vp.Container()
	x1 := math.Max(lo.X, 0)
	y1 := math.Max(lo.Y, 0)
	x2 := math.Min(hi.X, float64(vp.Canvas.X))
	y2 := math.Min(hi.Y, float64(vp.Canvas.Y))
	if x2 <= x1 || y2 <= y1 {
		return Tile{}, false
	}
	a := vp.CanvasToImage(viewport.Pt(x1, y1))
	b := vp.CanvasToImage(viewport.Pt(x2, y2))
	src := image.Rect(
		int(math.Floor(a.X)), int(math.Floor(a.Y)),
		int(math.Ceil(b.X)), int(math.Ceil(b.Y)),
	).Intersect(image.Rectangle{Max: vp.Image})
	if src.Empty() {
		return Tile{}, false
	}
	ca := vp.ImageToCanvas(viewport.Pt(float64(src.Min.X), float64(src.Min.Y)))
	cb := vp.ImageToCanvas(viewport.Pt(float64(src.Max.X), float64(src.Max.Y)))
	dst := image.Rect(
		int(math.Round(ca.X)), int(math.Round(ca.Y)),
		int(math.Round(cb.X)), int(math.Round(cb.Y)),
	)
	if dst.Empty() {
		return Tile{}, false
	}
	return Tile{Src: src, Dst: dst}, true
}

// Interpolator returns the resampler registered under name.
func Interpolator(name string) (xdraw.Interpolator, error) {
	switch strings.ToLower(name) {
	case "", "nearest":
		return xdraw.NearestNeighbor, nil
	case "approx", "approxbilinear":
		return xdraw.ApproxBiLinear, nil
	case "bilinear":
		return xdraw.BiLinear, nil
	case "catmullrom":
		return xdraw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown resampler %q", name)
}

// Pipeline draws frames. The zero value is not usable; use New.
type Pipeline struct {
	theme  *theme.Theme
	scaler xdraw.Interpolator
	thick  int
	halo   int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTheme sets the overlay colours.
func WithTheme(t *theme.Theme) Option { return func(p *Pipeline) { p.theme = t } }

// WithInterpolator sets how the visible tile is resampled.
func WithInterpolator(i xdraw.Interpolator) Option { return func(p *Pipeline) { p.scaler = i } }

// WithLineWidth sets the overlay stroke width.
func WithLineWidth(w int) Option { return func(p *Pipeline) { p.thick = w } }

// New returns a Pipeline with the default theme and nearest-neighbour
// resampling.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{theme: theme.Default(), scaler: xdraw.NearestNeighbor, thick: 2, halo: 2}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Draw paints the background, the visible raster tile and the shapes onto
// dst. Only the raster window under the canvas is requested from im.
func (p *Pipeline) Draw(dst *image.RGBA, im *raster.Image, vp *viewport.State, shapes []annotation.Shape) error {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(p.theme.Background), image.Point{}, draw.Src)
	if tile, ok := Plan(vp); ok && im != nil {
		win, err := im.Window(tile.Src)
		if err != nil {
			return fmt.Errorf("render window %v: %w", tile.Src, err)
		}
		p.scaler.Scale(dst, tile.Dst, win, win.Bounds(), draw.Src, nil)
	}
	p.Overlay(dst, vp.Frame, shapes)
	return nil
}

// Overlay draws shapes projected into frame f.
func (p *Pipeline) Overlay(dst *image.RGBA, f viewport.Frame, shapes []annotation.Shape) {
	for _, sh := range shapes {
		a, b := annotation.Project(sh, f)
		x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
		x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))
		col := p.theme.Box
		if sh.Kind == annotation.Line {
			col = p.theme.Line
		}
		if !sh.Committed() {
			col = p.theme.Active
		}
		switch sh.Kind {
		case annotation.Box:
			r := image.Rect(x0, y0, x1, y1)
			drawRect(dst, image.Rectangle{Min: r.Min, Max: r.Max.Add(image.Pt(1, 1))}, col, p.thick)
			drawLabel(dst, image.Pt(r.Min.X+2, r.Min.Y-4), sh.Label, p.theme.Label, p.theme.LabelHalo, p.halo)
		case annotation.Line:
			drawLine(dst, x0, y0, x1, y1, col, p.thick+1)
			drawLabel(dst, image.Pt(x0+4, y0-4), sh.Label, p.theme.Label, p.theme.LabelHalo, p.halo)
		}
	}
}

// Status draws a one-line bar along the bottom edge of dst.
func (p *Pipeline) Status(dst *image.RGBA, text string) {
	b := dst.Bounds()
	h := labelFace.Metrics().Height.Ceil() + 6
	bar := image.Rect(b.Min.X, b.Max.Y-h, b.Max.X, b.Max.Y)
	draw.Draw(dst, bar, image.NewUniform(p.theme.StatusBackground), image.Point{}, draw.Over)
	drawLabel(dst, image.Pt(bar.Min.X+6, bar.Max.Y-5), text, p.theme.Foreground, p.theme.StatusBackground, 0)
}
