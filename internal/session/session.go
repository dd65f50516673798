// Package session holds the state of one annotation run: the list of images,
// the open raster, its viewport and the shapes drawn over it. Every
// operation runs on the caller's goroutine; a Session is not safe for
// concurrent use.
package session

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mgnigh98/VisionLabel/internal/annotation"
	"github.com/mgnigh98/VisionLabel/internal/chip"
	"github.com/mgnigh98/VisionLabel/internal/export"
	"github.com/mgnigh98/VisionLabel/internal/input"
	"github.com/mgnigh98/VisionLabel/internal/notify"
	"github.com/mgnigh98/VisionLabel/internal/raster"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

var (
	// ErrNoImages is returned when there is nothing to open or navigate.
	ErrNoImages = errors.New("no images")
	// ErrNotConfirmed is returned when a removal was declined.
	ErrNotConfirmed = errors.New("removal not confirmed")
	// ErrQuit is returned by Handle when the user asked to leave.
	ErrQuit = errors.New("quit")
)

// Options selects what happens on navigation and how files are written.
type Options struct {
	// TXT writes normalized box rows next to each image.
	TXT bool
	// Lines writes line shapes to a separate rows file.
	Lines bool
	// CSV appends corner rows to the per-directory log.
	CSV bool
	// Import reads existing rows when an image is opened.
	Import bool

	Format  export.Format
	CSVName string

	// Chips holds the chip writer settings. Chips are cut on navigation
	// when PNG or Native is set.
	Chips    chip.Writer
	GridSize int

	// PairFrom and PairTo derive a companion file that is deleted along
	// with an image. Both empty disables it.
	PairFrom, PairTo string

	Label    string
	Viewport []viewport.Option

	Log      logrus.FieldLogger
	Notifier *notify.Notifier
	// Clipboard carries box rows between images. Nil disables copy and
	// paste.
	Clipboard Clipboard
}

// Clipboard is a plain text clipboard.
type Clipboard interface {
	Write(text string) error
	Read() (string, error)
}

// Session is the explicit context every operation works on.
type Session struct {
	opts Options
	src  raster.Source
	log  logrus.FieldLogger

	paths []string
	index int

	Image *raster.Image
	View  *viewport.State
	Store annotation.Store
	Mode  input.Mode
	Label string

	canvas  image.Point
	status  string
	drawing bool
	panning bool
	last    viewport.Point
	confirm bool
}

// New returns a session reading rasters through src. canvas is the initial
// drawing surface size.
func New(src raster.Source, canvas image.Point, opts Options) *Session {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Chips.Log == nil {
		opts.Chips.Log = opts.Log
	}
	if opts.CSVName == "" {
		opts.CSVName = export.DefaultCSVName
	}
	label := opts.Label
	if label == "" {
		label = "0"
	}
	return &Session{
		opts:   opts,
		src:    src,
		log:    opts.Log,
		Mode:   input.Draw(annotation.Box),
		Label:  label,
		canvas: canvas,
	}
}

// Siblings lists the files in path's directory that share its extension,
// sorted by name, and returns the position of path in that list.
func Siblings(path string) ([]string, int, error) {
	dir := filepath.Dir(path)
	ext := strings.ToLower(filepath.Ext(path))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.ToLower(filepath.Ext(e.Name())) != ext {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	want := filepath.Join(dir, filepath.Base(path))
	for i, p := range out {
		if p == want {
			return out, i, nil
		}
	}
	return out, 0, nil
}

// Open sets the navigation list and loads paths[start].
func (s *Session) Open(paths []string, start int) error {
	if len(paths) == 0 {
		return ErrNoImages
	}
	s.paths = append([]string(nil), paths...)
	s.index = wrap(start, len(s.paths))
	return s.load()
}

// Paths returns the navigation list.
func (s *Session) Paths() []string { return append([]string(nil), s.paths...) }

// Index returns the position of the open image.
func (s *Session) Index() int { return s.index }

func (s *Session) load() error {
	s.Store.Clear()
	s.drawing, s.panning = false, false
	path := s.paths[s.index]
	im, err := raster.Load(s.src, path)
	if err != nil {
		s.Image, s.View = nil, nil
		s.setStatus("%v", err)
		return err
	}
	s.Image = im
	s.View = viewport.New(s.canvas, im.Size(), s.opts.Viewport...)
	s.View.Fit()
	s.log.WithFields(logrus.Fields{"image": path, "width": im.Width, "height": im.Height}).Debug("opened")
	s.setStatus("")
	if s.opts.Import {
		if _, err := s.Import(); err != nil {
			return err
		}
	}
	return nil
}

// Next moves forward one image, wrapping at the end.
func (s *Session) Next() error { return s.Go(1) }

// Prev moves back one image, wrapping at the start.
func (s *Session) Prev() error { return s.Go(-1) }

// Go exports and chips the open image, clears the store and loads the image
// delta steps away. If writing fails the session stays where it is so the
// shapes are not lost.
func (s *Session) Go(delta int) error {
	if len(s.paths) == 0 {
		return ErrNoImages
	}
	if err := s.flush(); err != nil {
		return err
	}
	s.index = wrap(s.index+delta, len(s.paths))
	return s.load()
}

func (s *Session) flush() error {
	if s.Image == nil {
		return nil
	}
	if s.opts.TXT || s.opts.Lines || s.opts.CSV {
		if _, err := s.Export(); err != nil {
			return err
		}
	}
	if s.opts.Chips.PNG || s.opts.Chips.Native {
		if _, err := s.Chip(); err != nil {
			return err
		}
	}
	return nil
}

// Export writes the enabled annotation files for the open image and returns
// how many files were written.
func (s *Session) Export() (int, error) {
	if s.Image == nil {
		return 0, ErrNoImages
	}
	path := s.Image.Path
	log := s.log.WithFields(logrus.Fields{"image": path, "shapes": s.Store.Len()})
	ns := s.Store.Normalize(s.Image.Size())
	files := 0

	if s.opts.TXT {
		ok, err := export.WriteNormalized(export.TxtPath(path), ns, s.opts.Format)
		if err != nil {
			return files, s.fail(err)
		}
		if ok {
			files++
		}
	}
	if s.opts.Lines {
		ok, err := export.WriteLines(export.LinesPath(path), ns, s.opts.Format)
		if err != nil {
			return files, s.fail(err)
		}
		if ok {
			files++
		}
	}
	if s.opts.CSV {
		shapes := s.Store.Shapes()
		px := make([]annotation.PixelShape, len(shapes))
		for i, sh := range shapes {
			px[i] = sh.Pixels()
		}
		csvPath := export.CSVPath(path, s.opts.CSVName)
		added, err := export.AppendCSV(csvPath, filepath.Base(path), px, s.opts.Format)
		if err != nil {
			return files, s.fail(err)
		}
		if added > 0 {
			files++
		}
		log.WithField("path", csvPath).Debugf("%d new csv rows", added)
	}
	if files > 0 {
		log.WithField("count", files).Info("exported")
		s.opts.Notifier.Export(path, files)
	}
	s.setStatus("exported %d files", files)
	return files, nil
}

// Import adds the shapes stored next to the open image, expressed under the
// current view, and returns how many were added. Rows matching a shape
// already in the store are skipped, so importing twice changes nothing. A
// malformed file adds nothing.
func (s *Session) Import() (int, error) {
	if s.Image == nil {
		return 0, ErrNoImages
	}
	path := s.Image.Path
	ns, err := export.ReadNormalized(export.TxtPath(path))
	if err != nil {
		return 0, s.fail(err)
	}
	if s.opts.Lines {
		ls, err := export.ReadLines(export.LinesPath(path))
		if err != nil {
			return 0, s.fail(err)
		}
		ns = append(ns, ls...)
	}
	size := s.Image.Size()
	have := s.Store.Normalize(size)
	tol := s.opts.Format.Tolerance()
	added := 0
	for _, n := range ns {
		if containsRow(have, n, tol) {
			continue
		}
		s.Store.Add(annotation.FromFraction(n, s.View.Frame, size))
		added++
	}
	if added > 0 {
		s.log.WithFields(logrus.Fields{"image": path, "count": added}).Info("imported")
	}
	if skipped := len(ns) - added; skipped > 0 {
		s.setStatus("imported %d, %d already present", added, skipped)
	}
	return added, nil
}

func containsRow(ns []annotation.Normalized, n annotation.Normalized, tol float64) bool {
	for _, o := range ns {
		if o.Same(n, tol) {
			return true
		}
	}
	return false
}

// Chip writes annotation chips for the boxes on the open image.
func (s *Session) Chip() (chip.Result, error) {
	if s.Image == nil {
		return chip.Result{}, ErrNoImages
	}
	specs, skipped := chip.FromShapes(s.Image.Path, s.Store.Shapes(), s.Image.Bounds())
	for _, p := range skipped {
		s.log.WithField("image", s.Image.Path).Warnf("skipping empty chip %v-%v", p.Min, p.Max)
	}
	w := s.opts.Chips
	res, err := w.WriteAnnotations(s.Image, specs)
	res.Skipped = len(skipped)
	if err != nil {
		return res, s.fail(err)
	}
	if len(res.Files) > 0 {
		s.opts.Notifier.Chip(res.String(), res.Files[0])
	}
	s.setStatus("%s", res)
	return res, nil
}

// Grid tiles the open image. size <= 0 uses the configured grid size.
func (s *Session) Grid(size int) (chip.Result, error) {
	if s.Image == nil {
		return chip.Result{}, ErrNoImages
	}
	if size <= 0 {
		size = s.opts.GridSize
	}
	specs, err := chip.Grid(s.Image.Path, s.Image.Size(), size)
	if err != nil {
		return chip.Result{}, s.fail(err)
	}
	w := s.opts.Chips
	res, err := w.WriteGrid(s.Image, specs)
	if err != nil {
		return res, s.fail(err)
	}
	if len(res.Files) > 0 {
		s.opts.Notifier.Chip(res.String(), "")
	}
	s.setStatus("grid: %s", res)
	return res, nil
}

// Rows renders the store as it would be exported.
func (s *Session) Rows() string {
	if s.Image == nil {
		return ""
	}
	ns := s.Store.Normalize(s.Image.Size())
	rows := export.FormatRows(ns, annotation.Box, s.opts.Format)
	if s.opts.Lines {
		rows += export.FormatRows(ns, annotation.Line, s.opts.Format)
	}
	return rows
}

var errNoClipboard = errors.New("clipboard unavailable")

// CopyRows puts the box rows of the open image on the clipboard.
func (s *Session) CopyRows() error {
	if s.opts.Clipboard == nil {
		return s.fail(errNoClipboard)
	}
	if s.Image == nil {
		return ErrNoImages
	}
	rows := export.FormatRows(s.Store.Normalize(s.Image.Size()), annotation.Box, s.opts.Format)
	if rows == "" {
		s.setStatus("nothing to copy")
		return nil
	}
	if err := s.opts.Clipboard.Write(rows); err != nil {
		return s.fail(fmt.Errorf("copy: %w", err))
	}
	n := strings.Count(rows, "\n")
	s.opts.Notifier.Copy(fmt.Sprintf("%d rows", n))
	s.setStatus("copied %d rows", n)
	return nil
}

// PasteRows adds the box rows on the clipboard to the open image, under the
// current view. Rows are fractions, so boxes copied from an image of another
// size keep their relative placement. Malformed text adds nothing.
func (s *Session) PasteRows() (int, error) {
	if s.opts.Clipboard == nil {
		return 0, s.fail(errNoClipboard)
	}
	if s.Image == nil {
		return 0, ErrNoImages
	}
	text, err := s.opts.Clipboard.Read()
	if err != nil {
		return 0, s.fail(fmt.Errorf("paste: %w", err))
	}
	ns, err := export.ParseRows(strings.NewReader(text), annotation.Box)
	if err != nil {
		return 0, s.fail(fmt.Errorf("paste: %w", err))
	}
	for _, n := range ns {
		s.Store.Add(annotation.FromFraction(n, s.View.Frame, s.Image.Size()))
	}
	s.log.WithFields(logrus.Fields{"image": s.Image.Path, "count": len(ns)}).Debug("pasted")
	s.setStatus("pasted %d rows", len(ns))
	return len(ns), nil
}

// Remove exports the open image's rows as navigation would, without cutting
// chips, then deletes it with
// its rows files and companion, drops it from the list and opens the image
// that followed it. confirm is asked first with the image path.
func (s *Session) Remove(confirm func(path string) bool) error {
	if s.Image == nil || len(s.paths) == 0 {
		return ErrNoImages
	}
	path := s.Image.Path
	if confirm == nil || !confirm(path) {
		return ErrNotConfirmed
	}
	// Rows reach the directory CSV before the image goes; chips would be
	// orphaned, so none are cut.
	if s.opts.TXT || s.opts.Lines || s.opts.CSV {
		if _, err := s.Export(); err != nil {
			return err
		}
	}
	if err := os.Remove(path); err != nil {
		return s.fail(fmt.Errorf("remove: %w", err))
	}
	for _, side := range s.companions(path) {
		if err := os.Remove(side); err != nil && !errors.Is(err, os.ErrNotExist) {
			return s.fail(fmt.Errorf("remove: %w", err))
		}
	}
	if f, ok := s.src.(interface{ Forget(string) }); ok {
		f.Forget(path)
	}
	s.log.WithField("path", path).Info("removed")
	s.opts.Notifier.Delete(path)

	s.paths = append(s.paths[:s.index], s.paths[s.index+1:]...)
	if len(s.paths) == 0 {
		s.Image, s.View = nil, nil
		s.Store.Clear()
		s.setStatus("no images left")
		return nil
	}
	s.index = wrap(s.index, len(s.paths))
	return s.load()
}

func (s *Session) companions(path string) []string {
	out := []string{export.TxtPath(path), export.LinesPath(path)}
	if s.opts.PairFrom != "" && strings.Contains(path, s.opts.PairFrom) {
		pair := strings.ReplaceAll(path, s.opts.PairFrom, s.opts.PairTo)
		if pair != path {
			out = append(out, pair)
		}
	}
	return out
}

// Resize updates the canvas size.
func (s *Session) Resize(canvas image.Point) {
	s.canvas = canvas
	if s.View != nil {
		s.View.Resize(canvas)
	}
}

// Status returns the one-line summary shown under the canvas.
func (s *Session) Status() string {
	if s.Image == nil {
		return s.status
	}
	parts := []string{
		fmt.Sprintf("[%d/%d] %s", s.index+1, len(s.paths), filepath.Base(s.Image.Path)),
		"label " + s.Label,
		s.Mode.String(),
		fmt.Sprintf("%.2fx", s.View.Scale),
		fmt.Sprintf("%d shapes", s.Store.Len()),
	}
	if s.status != "" {
		parts = append(parts, s.status)
	}
	return strings.Join(parts, " | ")
}

func (s *Session) setStatus(format string, args ...any) {
	s.status = fmt.Sprintf(format, args...)
}

func (s *Session) fail(err error) error {
	fields := logrus.Fields{}
	if s.Image != nil {
		fields["image"] = s.Image.Path
	}
	s.log.WithFields(fields).Error(err)
	s.setStatus("error: %v", err)
	return err
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
