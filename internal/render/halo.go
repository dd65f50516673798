package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var labelFace font.Face = basicfont.Face7x13

// drawLabel writes text with its baseline-left corner at pt. A blurred dark
// halo is laid down first so the text stays legible on bright and dark
// imagery alike.
func drawLabel(dst *image.RGBA, pt image.Point, text string, fg, halo color.Color, radius int) {
	if text == "" {
		return
	}
	d := &font.Drawer{Face: labelFace}
	adv := d.MeasureString(text).Ceil()
	m := labelFace.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	box := image.Rect(pt.X, pt.Y-ascent, pt.X+adv, pt.Y+descent)
	if !box.Inset(-radius).Overlaps(dst.Bounds()) {
		return
	}

	if radius > 0 {
		mask := image.NewAlpha(box.Inset(-radius))
		d.Dst = mask
		d.Src = image.Opaque
		d.Dot = fixed.P(pt.X, pt.Y)
		d.DrawString(text)
		blurred := blurAlpha(mask, radius)
		draw.DrawMask(dst, blurred.Bounds(), image.NewUniform(halo), image.Point{}, blurred, blurred.Bounds().Min, draw.Over)
	}

	d.Dst = dst
	d.Src = image.NewUniform(fg)
	d.Dot = fixed.P(pt.X, pt.Y)
	d.DrawString(text)
}

// blurAlpha is a separable box blur. Each pass is a running sum over a
// prefix array, so the cost does not depend on radius.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewAlpha(bounds)
	dst := image.NewAlpha(bounds)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := y * src.Stride
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[row+x])
		}
		for x := 0; x < w; x++ {
			x0 := max(x-radius, 0)
			x1 := min(x+radius, w-1)
			// Doubled so the halo is denser than the glyph strokes it spreads.
			v := 2 * (prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1)
			tmp.Pix[y*tmp.Stride+x] = uint8(min(v, 255))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := max(y-radius, 0)
			y1 := min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
