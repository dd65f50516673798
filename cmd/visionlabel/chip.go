package main

import (
	"flag"
	"fmt"

	"github.com/mgnigh98/VisionLabel/internal/session"
)

// chipCmd cuts annotation chips from each image's stored rows.
type chipCmd struct {
	*root
	fs    *flag.FlagSet
	opts  session.Options
	paths []string
}

func (c *chipCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *chipCmd) Program() string {
	return c.subcommand("chip")
}

func parseChipCmd(args []string, r *root) (*chipCmd, error) {
	fs := flag.NewFlagSet("chip", flag.ContinueOnError)
	c := &chipCmd{root: r, fs: fs, opts: r.sessionOptions()}
	c.opts.TXT, c.opts.CSV, c.opts.Import = false, false, false
	fs.Usage = usageFunc(c)
	fs.BoolVar(&c.opts.Chips.PNG, "png", c.opts.Chips.PNG, "write chips to pngs/")
	fs.BoolVar(&c.opts.Chips.Native, "native", c.opts.Chips.Native, "write chips in the source format to sicds/")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: c}
	}
	c.paths = fs.Args()
	if len(c.paths) == 0 {
		return nil, &UsageError{of: c}
	}
	if !c.opts.Chips.PNG && !c.opts.Chips.Native {
		c.opts.Chips.PNG = true
	}
	return c, nil
}

func (c *chipCmd) Run() error {
	s, err := c.newSession(headlessCanvas, c.opts)
	if err != nil {
		return err
	}
	for i := range c.paths {
		// Open rather than Next so that nothing is flushed between images.
		if err := s.Open(c.paths, i); err != nil {
			return err
		}
		if _, err := s.Import(); err != nil {
			return err
		}
		res, err := s.Chip()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "%s: %s\n", s.Image.Path, res)
	}
	return nil
}

// gridCmd tiles each image into overlapping squares.
type gridCmd struct {
	*root
	fs    *flag.FlagSet
	opts  session.Options
	size  int
	paths []string
}

func (g *gridCmd) FlagSet() *flag.FlagSet {
	return g.fs
}

func (g *gridCmd) Program() string {
	return g.subcommand("grid")
}

func parseGridCmd(args []string, r *root) (*gridCmd, error) {
	fs := flag.NewFlagSet("grid", flag.ContinueOnError)
	g := &gridCmd{root: r, fs: fs, opts: r.sessionOptions()}
	g.opts.TXT, g.opts.CSV, g.opts.Lines, g.opts.Import = false, false, false, false
	g.opts.Chips.PNG, g.opts.Chips.Native = false, false
	fs.Usage = usageFunc(g)
	fs.IntVar(&g.size, "size", g.opts.GridSize, "tile edge in pixels; tiles overlap by half")
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{of: g}
	}
	g.paths = fs.Args()
	if len(g.paths) == 0 {
		return nil, &UsageError{of: g}
	}
	return g, nil
}

func (g *gridCmd) Run() error {
	s, err := g.newSession(headlessCanvas, g.opts)
	if err != nil {
		return err
	}
	for i := range g.paths {
		if err := s.Open(g.paths, i); err != nil {
			return err
		}
		res, err := s.Grid(g.size)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Image.Path, err)
		}
		fmt.Fprintf(g.stdout, "%s: %s\n", s.Image.Path, res)
	}
	return nil
}
