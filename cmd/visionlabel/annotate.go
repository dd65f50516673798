package main

import (
	"flag"
	"fmt"

	"github.com/mgnigh98/VisionLabel/internal/render"
	"github.com/mgnigh98/VisionLabel/internal/session"
	"github.com/mgnigh98/VisionLabel/internal/viewer"
)

// annotateCmd opens the interactive viewer.
type annotateCmd struct {
	*root
	fs       *flag.FlagSet
	opts     session.Options
	resample string
	paths    []string
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func (a *annotateCmd) Program() string {
	return a.subcommand("annotate")
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	a := &annotateCmd{root: r, fs: fs, opts: r.sessionOptions()}
	fs.Usage = usageFunc(a)
	fs.BoolVar(&a.opts.TXT, "txt", a.opts.TXT, "write normalized rows next to each image on navigation")
	fs.BoolVar(&a.opts.CSV, "csv", a.opts.CSV, "append corner rows to the directory CSV on navigation")
	fs.BoolVar(&a.opts.Import, "import", a.opts.Import, "load existing rows when an image is opened")
	fs.BoolVar(&a.opts.Lines, "lines", a.opts.Lines, "export and import line shapes")
	fs.BoolVar(&a.opts.Chips.PNG, "chip-png", a.opts.Chips.PNG, "write PNG chips for boxes on navigation")
	fs.BoolVar(&a.opts.Chips.Native, "chip-native", a.opts.Chips.Native, "write chips in the source format on navigation")
	fs.StringVar(&a.opts.Label, "label", a.opts.Label, "initial label for new shapes")
	fs.IntVar(&a.opts.GridSize, "grid-size", a.opts.GridSize, "tile size used by the g key")
	fs.StringVar(&a.resample, "resample", r.config.Viewport.Resample, "nearest, approx, bilinear or catmullrom")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: a}
	}
	a.paths = fs.Args()
	if len(a.paths) == 0 {
		return nil, &UsageError{of: a}
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	scaler, err := render.Interpolator(a.resample)
	if err != nil {
		return err
	}
	paths, start := a.paths, 0
	if len(paths) == 1 {
		if paths, start, err = session.Siblings(paths[0]); err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no images next to %s", a.paths[0])
		}
	}

	size := viewer.InitialSize(a.log)
	s, err := a.newSession(size, a.opts)
	if err != nil {
		return err
	}
	if err := s.Open(paths, start); err != nil {
		// A malformed rows file is reported in the status line; keep going.
		a.log.WithError(err).Warn("open")
	}
	v := &viewer.Viewer{
		Session:  s,
		Pipeline: render.New(render.WithTheme(a.activeTheme), render.WithInterpolator(scaler)),
		Title:    "VisionLabel",
		Log:      a.log,
	}
	return v.Run(size)
}
