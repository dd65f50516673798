package chip

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/mgnigh98/VisionLabel/internal/raster"
)

const (
	// PNGDir holds annotation chips as PNG.
	PNGDir = "pngs"
	// NativeDir holds annotation chips in the raster's own format.
	NativeDir = "sicds"
)

// GridDir returns the output directory for grid tiles of path.
func GridDir(path string) string {
	return filepath.Join(filepath.Dir(path), raster.Stem(path)+"_grid")
}

// Result summarises a batch of written chips.
type Result struct {
	Files   []string
	Bytes   uint64
	Skipped int
}

func (r *Result) add(path string) {
	r.Files = append(r.Files, path)
	if fi, err := os.Stat(path); err == nil {
		r.Bytes += uint64(fi.Size())
	}
}

// String reports the count and total size.
func (r Result) String() string {
	return fmt.Sprintf("%d chips, %s", len(r.Files), humanize.Bytes(r.Bytes))
}

// Writer saves chips next to the source raster.
type Writer struct {
	// PNG writes annotation chips to pngs/.
	PNG bool
	// Native writes annotation chips to sicds/ through the raster source.
	Native bool

	Log logrus.FieldLogger
}

func (w *Writer) log() logrus.FieldLogger {
	if w.Log == nil {
		return logrus.StandardLogger()
	}
	return w.Log
}

// WriteAnnotations saves each spec in the enabled formats.
func (w *Writer) WriteAnnotations(im *raster.Image, specs []Spec) (Result, error) {
	var res Result
	if len(specs) == 0 || (!w.PNG && !w.Native) {
		return res, nil
	}
	dir := filepath.Dir(im.Path)
	log := w.log().WithField("image", im.Path)

	var exporter raster.WindowExporter
	if w.Native {
		var ok bool
		if exporter, ok = im.Exporter(); !ok {
			log.Warn("raster source cannot export windows; skipping native chips")
		}
	}

	if w.PNG {
		if err := os.MkdirAll(filepath.Join(dir, PNGDir), 0o755); err != nil {
			return res, fmt.Errorf("chip dir: %w", err)
		}
	}
	if exporter != nil {
		if err := os.MkdirAll(filepath.Join(dir, NativeDir), 0o755); err != nil {
			return res, fmt.Errorf("chip dir: %w", err)
		}
	}

	for _, s := range specs {
		if w.PNG {
			out := filepath.Join(dir, PNGDir, s.Name+".png")
			if err := w.save(im, s, out); err != nil {
				return res, err
			}
			res.add(out)
		}
		if exporter != nil {
			out, err := exporter.ExportWindow(im.Path, s.Rect, filepath.Join(dir, NativeDir))
			if err != nil {
				return res, fmt.Errorf("native chip %s: %w", s.Name, err)
			}
			res.add(out)
		}
	}
	log.WithField("count", len(res.Files)).Infof("wrote %s", res)
	return res, nil
}

// WriteGrid saves every grid tile as PNG under GridDir.
func (w *Writer) WriteGrid(im *raster.Image, specs []Spec) (Result, error) {
	var res Result
	dir := GridDir(im.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("grid dir: %w", err)
	}
	for _, s := range specs {
		out := filepath.Join(dir, s.Name+".png")
		if err := w.save(im, s, out); err != nil {
			return res, err
		}
		res.add(out)
	}
	w.log().WithFields(logrus.Fields{"image": im.Path, "count": len(res.Files)}).Infof("wrote grid: %s", res)
	return res, nil
}

func (w *Writer) save(im *raster.Image, s Spec, out string) error {
	win, err := im.Window(s.Rect)
	if err != nil {
		return fmt.Errorf("chip %s: %w", s.Name, err)
	}
	if err := imaging.Save(win, out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	w.log().WithField("path", out).Debugf("chip rows %d-%d cols %d-%d", s.Rect.Min.Y, s.Rect.Max.Y, s.Rect.Min.X, s.Rect.Max.X)
	return nil
}
