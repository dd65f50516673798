// Package raster is the boundary to the pixel data of an image file. Only the
// dimensions and rectangular windows are ever requested, so a source can back
// arbitrarily large rasters without holding them in the view.
package raster

import (
	"errors"
	"fmt"
	"image"
)

// ErrOutOfBounds is returned when a window does not intersect the raster.
var ErrOutOfBounds = errors.New("window outside raster bounds")

// Source provides raster dimensions and windowed pixel access.
type Source interface {
	Open(path string) (image.Point, error)
	DecodeWindow(path string, window image.Rectangle) (image.Image, error)
}

// WindowExporter is implemented by sources that can write a window of the
// raster in its own file format.
type WindowExporter interface {
	ExportWindow(path string, window image.Rectangle, dst string) (string, error)
}

// Image is an opened raster.
type Image struct {
	Path   string
	Width  int
	Height int

	src Source
}

// Load opens path through src.
func Load(src Source, path string) (*Image, error) {
	size, err := src.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raster %s: %w", path, err)
	}
	return &Image{Path: path, Width: size.X, Height: size.Y, src: src}, nil
}

// Size returns the raster dimensions.
func (im *Image) Size() image.Point { return image.Pt(im.Width, im.Height) }

// Bounds returns the raster rectangle anchored at the origin.
func (im *Image) Bounds() image.Rectangle { return image.Rect(0, 0, im.Width, im.Height) }

// Window returns the pixels of r clamped to the raster. The result's bounds
// start at r's clamped minimum.
func (im *Image) Window(r image.Rectangle) (image.Image, error) {
	r = r.Intersect(im.Bounds())
	if r.Empty() {
		return nil, ErrOutOfBounds
	}
	return im.src.DecodeWindow(im.Path, r)
}

// Exporter returns the source's native window exporter, if it has one.
func (im *Image) Exporter() (WindowExporter, bool) {
	we, ok := im.src.(WindowExporter)
	return we, ok
}
