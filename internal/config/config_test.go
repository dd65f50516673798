package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgnigh98/VisionLabel/internal/export"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
label = 3
pair_from = static
pair_to = moving

[viewport]
zoom_delta = 1.5
min_visible_px = 40
resample = bilinear

[export]
csv = true
lines = yes_please
`
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for bad boolean")
	}

	input = strings.Replace(input, "yes_please", "true", 1) + `
precision = 6
csv_name = boxes.csv

[chip]
png = true
grid_size = 256

[notify]
export = true
chip = false
copy = true

[theme.my_custom_theme]
Background = #111111
Box = #00FF0080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" || cfg.Label != "3" {
		t.Errorf("unexpected root %q %q", cfg.Theme, cfg.Label)
	}
	if cfg.PairFrom != "static" || cfg.PairTo != "moving" {
		t.Errorf("unexpected pair %q -> %q", cfg.PairFrom, cfg.PairTo)
	}
	if cfg.Viewport != (Viewport{ZoomDelta: 1.5, MinVisible: 40, Resample: "bilinear"}) {
		t.Errorf("unexpected viewport %+v", cfg.Viewport)
	}
	want := Export{TXT: true, CSV: true, Import: true, Lines: true, Precision: 6, CSVName: "boxes.csv"}
	if cfg.Export != want {
		t.Errorf("unexpected export %+v", cfg.Export)
	}
	if !cfg.Chip.PNG || cfg.Chip.Native || cfg.Chip.GridSize != 256 {
		t.Errorf("unexpected chip %+v", cfg.Chip)
	}
	if !cfg.Notify.Export || cfg.Notify.Chip || !cfg.Notify.Copy {
		t.Errorf("unexpected notify %+v", cfg.Notify)
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}
	if theme.Box.G != 0xFF || theme.Box.A != 0x80 {
		t.Errorf("Unexpected Box color: %+v", theme.Box)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"zoom":  "[viewport]\nzoom_delta = 1\n",
		"min":   "[viewport]\nmin_visible_px = 0\n",
		"grid":  "[chip]\ngrid_size = 1\n",
		"pair":  "pair_from = static\n",
		"float": "[viewport]\nzoom_delta = fast\n",
	}
	for name, in := range cases {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if err := New().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if p := New().Export.Precision; p != export.DefaultPrecision {
		t.Fatalf("default precision %d", p)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
label = 7

[export]
csv = true
precision = 4

[chip]
native = true

[notify]
export = true
delete = true

[theme.custom]
Name = custom
Background = #000000
Line = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme || cfg.Label != cfg2.Label {
		t.Errorf("root mismatch: %q/%q vs %q/%q", cfg.Theme, cfg.Label, cfg2.Theme, cfg2.Label)
	}
	if cfg.Viewport != cfg2.Viewport {
		t.Errorf("Viewport mismatch: %+v vs %+v", cfg.Viewport, cfg2.Viewport)
	}
	if cfg.Export != cfg2.Export {
		t.Errorf("Export mismatch: %+v vs %+v", cfg.Export, cfg2.Export)
	}
	if cfg.Chip != cfg2.Chip {
		t.Errorf("Chip mismatch: %+v vs %+v", cfg.Chip, cfg2.Chip)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "vl.rc")
	l := NewLoader("1.0", path)
	if got := l.GetConfigPath(); got == path {
		t.Fatalf("missing override should not be returned")
	}

	cfg := New()
	cfg.Label = "9"
	written, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if written != path {
		t.Fatalf("saved to %s, want %s", written, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}

	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Label != "9" {
		t.Fatalf("label = %q", got.Label)
	}
}
