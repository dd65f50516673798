package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/mgnigh98/VisionLabel/internal/clipboard"
	"github.com/mgnigh98/VisionLabel/internal/config"
	"github.com/mgnigh98/VisionLabel/internal/export"
	"github.com/mgnigh98/VisionLabel/internal/notify"
	"github.com/mgnigh98/VisionLabel/internal/raster"
	"github.com/mgnigh98/VisionLabel/internal/session"
	"github.com/mgnigh98/VisionLabel/internal/theme"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

// headlessCanvas is the canvas used by subcommands that open no window.
var headlessCanvas = image.Pt(1024, 1024)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	stdout       io.Writer
	log          *logrus.Logger
	notifier     *notify.Notifier
	config       *config.Config
	exportAlerts bool
	chipAlerts   bool
	deleteAlerts bool
	copyAlerts   bool
	verbose      bool
	themeName    string
	activeTheme  *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	colors := false
	if f, ok := w.(*os.File); ok {
		colors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    !colors,
		FullTimestamp:    true,
		DisableTimestamp: colors,
	})
	return l
}

// configPath returns the build-time override unless VISIONLABEL_CONFIG names
// another file.
func configPath() string {
	if p := os.Getenv("VISIONLABEL_CONFIG"); p != "" {
		return p
	}
	return configPathOverride
}

func newRoot() *root {
	log := newLogger(os.Stderr)
	loader := config.NewLoader(version, configPath())
	cfg, err := loader.Load()
	if err != nil {
		log.WithError(err).Warn("failed to load config, using defaults")
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("visionlabel", flag.ExitOnError),
		program:  "visionlabel",
		stdout:   os.Stdout,
		log:      log,
		notifier: notify.New(notify.LoadPreferences(), log),
		config:   cfg,
	}
	r.fs.BoolVar(&r.exportAlerts, "notify-export", cfg.Notify.Export, "show a desktop notification after annotations are exported")
	r.fs.BoolVar(&r.chipAlerts, "notify-chip", cfg.Notify.Chip, "show a desktop notification after chips are written")
	r.fs.BoolVar(&r.deleteAlerts, "notify-delete", cfg.Notify.Delete, "show a desktop notification after an image is removed")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying rows to the clipboard")
	r.fs.BoolVar(&r.verbose, "verbose", false, "log debug detail")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (dark, light, high-contrast or a .theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

// resolveTheme picks the theme by CLI flag, then VISIONLABEL_THEME, then
// the config file.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("VISIONLABEL_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "default" {
			r.log.WithError(err).Warnf("failed to load theme %q, using default", name)
		}
		return theme.Default()
	}
	return t
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.verbose {
		r.log.SetLevel(logrus.DebugLevel)
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventExport, r.exportAlerts)
		r.notifier.Enable(notify.EventChip, r.chipAlerts)
		r.notifier.Enable(notify.EventDelete, r.deleteAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "chip":
		cmd, err = parseChipCmd(subArgs, r)
	case "grid":
		cmd, err = parseGridCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// sessionOptions maps the loaded configuration onto session options.
// Subcommands override individual fields from their own flags.
func (r *root) sessionOptions() session.Options {
	cfg := r.config
	opts := session.Options{
		TXT:      cfg.Export.TXT,
		Lines:    cfg.Export.Lines,
		CSV:      cfg.Export.CSV,
		Import:   cfg.Export.Import,
		Format:   export.Format{Precision: cfg.Export.Precision},
		CSVName:  cfg.Export.CSVName,
		GridSize: cfg.Chip.GridSize,
		PairFrom: cfg.PairFrom,
		PairTo:   cfg.PairTo,
		Label:    cfg.Label,
		Viewport: []viewport.Option{
			viewport.WithDelta(cfg.Viewport.ZoomDelta),
			viewport.WithMinVisible(cfg.Viewport.MinVisible),
		},
		Log:       r.log,
		Notifier:  r.notifier,
		Clipboard: clipboard.System{},
	}
	opts.Chips.PNG = cfg.Chip.PNG
	opts.Chips.Native = cfg.Chip.Native
	opts.Chips.Log = r.log
	return opts
}

// newSession opens a file-backed session over paths with the given canvas.
func (r *root) newSession(canvas image.Point, opts session.Options) (*session.Session, error) {
	src, err := raster.NewFileSource(0)
	if err != nil {
		return nil, err
	}
	return session.New(src, canvas, opts), nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) subcommand(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}
