package config

import (
	"fmt"
	"image/color"
	"reflect"
	"sort"
	"strings"

	"github.com/mgnigh98/VisionLabel/internal/export"
	"github.com/mgnigh98/VisionLabel/internal/theme"
)

// Viewport holds zoom and resampling settings.
type Viewport struct {
	ZoomDelta  float64
	MinVisible int
	Resample   string
}

// Export controls which annotation files are written on navigation.
type Export struct {
	TXT       bool
	CSV       bool
	Import    bool
	Lines     bool
	Precision int
	CSVName   string
}

// Chip controls chip output.
type Chip struct {
	PNG      bool
	Native   bool
	GridSize int
}

// Notify holds notification settings.
type Notify struct {
	Export bool
	Chip   bool
	Delete bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme string
	Label string

	// PairFrom and PairTo name a companion file removed along with an
	// image: the image path with PairFrom replaced by PairTo.
	PairFrom string
	PairTo   string

	Viewport Viewport
	Export   Export
	Chip     Chip
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Label: "0",
		Viewport: Viewport{
			ZoomDelta:  1.3,
			MinVisible: 30,
			Resample:   "nearest",
		},
		Export: Export{
			TXT:       true,
			Import:    true,
			Precision: export.DefaultPrecision,
			CSVName:   export.DefaultCSVName,
		},
		Chip: Chip{
			GridSize: 512,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.Label != "" {
		fmt.Fprintf(&sb, "label = %s\n", c.Label)
	}
	if c.PairFrom != "" {
		fmt.Fprintf(&sb, "pair_from = %s\n", c.PairFrom)
		fmt.Fprintf(&sb, "pair_to = %s\n", c.PairTo)
	}
	sb.WriteString("\n")

	sb.WriteString("[viewport]\n")
	fmt.Fprintf(&sb, "zoom_delta = %v\n", c.Viewport.ZoomDelta)
	fmt.Fprintf(&sb, "min_visible_px = %d\n", c.Viewport.MinVisible)
	fmt.Fprintf(&sb, "resample = %s\n", c.Viewport.Resample)
	sb.WriteString("\n")

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "txt = %v\n", c.Export.TXT)
	fmt.Fprintf(&sb, "csv = %v\n", c.Export.CSV)
	fmt.Fprintf(&sb, "import = %v\n", c.Export.Import)
	fmt.Fprintf(&sb, "lines = %v\n", c.Export.Lines)
	fmt.Fprintf(&sb, "precision = %d\n", c.Export.Precision)
	fmt.Fprintf(&sb, "csv_name = %s\n", c.Export.CSVName)
	sb.WriteString("\n")

	sb.WriteString("[chip]\n")
	fmt.Fprintf(&sb, "png = %v\n", c.Chip.PNG)
	fmt.Fprintf(&sb, "native = %v\n", c.Chip.Native)
	fmt.Fprintf(&sb, "grid_size = %d\n", c.Chip.GridSize)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "chip = %v\n", c.Notify.Chip)
	fmt.Fprintf(&sb, "delete = %v\n", c.Notify.Delete)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		v := reflect.ValueOf(t).Elem()
		for i := 0; i < v.NumField(); i++ {
			if col, ok := v.Field(i).Interface().(color.RGBA); ok {
				fmt.Fprintf(&sb, "%s: %s\n", v.Type().Field(i).Name, toHex(col))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func toHex(rgba color.RGBA) string {
	if rgba.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", rgba.R, rgba.G, rgba.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", rgba.R, rgba.G, rgba.B, rgba.A)
}
