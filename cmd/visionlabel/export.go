package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/mgnigh98/VisionLabel/internal/annotation"
	"github.com/mgnigh98/VisionLabel/internal/session"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

// segments collects repeated x0,y0,x1,y1 flags.
type segments [][4]float64

func (s *segments) String() string {
	parts := make([]string, len(*s))
	for i, v := range *s {
		parts[i] = fmt.Sprintf("%g,%g,%g,%g", v[0], v[1], v[2], v[3])
	}
	return strings.Join(parts, " ")
}

func (s *segments) Set(v string) error {
	fields := strings.Split(v, ",")
	if len(fields) != 4 {
		return fmt.Errorf("want x0,y0,x1,y1, got %q", v)
	}
	var out [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return fmt.Errorf("coordinate %q: %w", f, err)
		}
		out[i] = n
	}
	*s = append(*s, out)
	return nil
}

// exportCmd writes rows for shapes given in raster pixels.
type exportCmd struct {
	*root
	fs    *flag.FlagSet
	opts  session.Options
	file  string
	boxes segments
	lines segments
	print bool
}

func (e *exportCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func (e *exportCmd) Program() string {
	return e.subcommand("export")
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	e := &exportCmd{root: r, fs: fs, opts: r.sessionOptions()}
	e.opts.Import = false
	e.opts.Chips.PNG, e.opts.Chips.Native = false, false
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image the shapes belong to")
	fs.Var(&e.boxes, "box", "box corners in raster pixels, x0,y0,x1,y1 (repeatable)")
	fs.Var(&e.lines, "line", "line endpoints in raster pixels, x0,y0,x1,y1 (repeatable)")
	fs.StringVar(&e.opts.Label, "label", e.opts.Label, "label for every shape")
	fs.BoolVar(&e.opts.TXT, "txt", e.opts.TXT, "write normalized rows")
	fs.BoolVar(&e.opts.CSV, "csv", e.opts.CSV, "append corner rows to the directory CSV")
	fs.BoolVar(&e.opts.Lines, "lines", e.opts.Lines, "write line rows")
	fs.IntVar(&e.opts.Format.Precision, "precision", e.opts.Format.Precision, "decimal places to round to, 0 for the shortest form")
	fs.BoolVar(&e.print, "print", false, "print the rows instead of only writing them")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: e}
	}
	if e.file == "" || len(e.boxes)+len(e.lines) == 0 {
		return nil, &UsageError{of: e}
	}
	return e, nil
}

func (e *exportCmd) Run() error {
	s, err := e.newSession(headlessCanvas, e.opts)
	if err != nil {
		return err
	}
	if err := s.Open([]string{e.file}, 0); err != nil {
		return err
	}
	add := func(kind annotation.Kind, seg [4]float64) {
		s.Store.Begin(kind, viewport.Pt(seg[0], seg[1]), s.Label, viewport.Identity)
		s.Store.Update(viewport.Pt(seg[2], seg[3]), viewport.Identity)
		s.Store.Commit()
	}
	for _, b := range e.boxes {
		add(annotation.Box, b)
	}
	for _, l := range e.lines {
		add(annotation.Line, l)
	}
	if e.print {
		fmt.Fprint(e.stdout, s.Rows())
	}
	n, err := s.Export()
	if err != nil {
		return err
	}
	e.log.WithField("image", e.file).Infof("wrote %d files", n)
	return nil
}
