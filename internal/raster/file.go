package raster

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"

	// Formats beyond those imaging registers itself.
	_ "golang.org/x/image/tiff"
)

const defaultCacheSize = 4

// FileSource decodes standard image files. Whole rasters are decoded once
// and kept in a small LRU so that repeated window requests while panning do
// not hit the disk.
type FileSource struct {
	cache *lru.Cache[string, image.Image]
}

// NewFileSource returns a FileSource holding up to n decoded rasters.
func NewFileSource(n int) (*FileSource, error) {
	if n <= 0 {
		n = defaultCacheSize
	}
	c, err := lru.New[string, image.Image](n)
	if err != nil {
		return nil, fmt.Errorf("raster cache: %w", err)
	}
	return &FileSource{cache: c}, nil
}

// Open reads only the header when the format allows it.
func (fs *FileSource) Open(path string) (image.Point, error) {
	if img, ok := fs.cache.Get(path); ok {
		return img.Bounds().Size(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err == nil {
		return image.Pt(cfg.Width, cfg.Height), nil
	}
	img, err := fs.decode(path)
	if err != nil {
		return image.Point{}, err
	}
	return img.Bounds().Size(), nil
}

// DecodeWindow returns window from the cached full decode.
func (fs *FileSource) DecodeWindow(path string, window image.Rectangle) (image.Image, error) {
	img, err := fs.decode(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	r := window.Add(b.Min).Intersect(b)
	if r.Empty() {
		return nil, ErrOutOfBounds
	}
	return crop(img, r, b.Min), nil
}

// Forget drops path from the cache, for example after the file was removed.
func (fs *FileSource) Forget(path string) { fs.cache.Remove(path) }

// ExportWindow writes window to dst in the same format as path. dst is a
// directory; the returned path names the written file.
func (fs *FileSource) ExportWindow(path string, window image.Rectangle, dst string) (string, error) {
	img, err := fs.DecodeWindow(path, window)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		ext = ".tif"
	}
	out := filepath.Join(dst, WindowName(path, window)+ext)
	if err := imaging.Save(img, out); err != nil {
		return "", fmt.Errorf("save %s: %w", out, err)
	}
	return out, nil
}

func (fs *FileSource) decode(path string) (image.Image, error) {
	if img, ok := fs.cache.Get(path); ok {
		return img, nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	fs.cache.Add(path, img)
	return img, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// crop returns an independent copy of r re-based so that the raster's own
// origin maps to (0,0).
func crop(img image.Image, r image.Rectangle, origin image.Point) image.Image {
	dst := image.NewNRGBA(r.Sub(origin))
	var src image.Image = img
	if si, ok := img.(subImager); ok {
		src = si.SubImage(r)
	}
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

// WindowName encodes a window's row and column bounds into a file stem.
func WindowName(path string, r image.Rectangle) string {
	return fmt.Sprintf("%s_r%d-%d_c%d-%d", Stem(path), r.Min.Y, r.Max.Y, r.Min.X, r.Max.X)
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
