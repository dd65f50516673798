package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: mine\nBox: #00FF00\nStatusBackground: #11223344\nUnknown: #FFFFFF\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "mine" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Box != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("Box = %+v", th.Box)
	}
	if th.StatusBackground != (color.RGBA{0x11, 0x22, 0x33, 0x44}) {
		t.Errorf("StatusBackground = %+v", th.StatusBackground)
	}
	if th.Line != Default().Line {
		t.Errorf("unset key should keep default, got %+v", th.Line)
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Box: red\n")); err == nil {
		t.Fatal("expected error for colour without #")
	}
}

func TestLoadEmbedded(t *testing.T) {
	l := &Loader{Dirs: []string{t.TempDir()}}
	for _, name := range []string{"dark", "light", "high-contrast.theme"} {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if th.Name == "" || th.Name == "Default" {
			t.Errorf("Load(%q) returned %q", name, th.Name)
		}
	}
	if _, err := l.Load("does-not-exist"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestLoadFromDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "field.theme"), []byte("Name: field\nbox: #0000FF80\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{Dirs: []string{t.TempDir(), dir}}
	th, err := l.Load("field")
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "field" || th.Box != (color.RGBA{0, 0, 255, 0x80}) {
		t.Fatalf("got %+v", th)
	}
	if _, err := l.Load(filepath.Join(dir, "field.theme")); err != nil {
		t.Fatalf("load by path: %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#102030", color.RGBA{0x10, 0x20, 0x30, 0xFF}, true},
		{"#10203040", color.RGBA{0x10, 0x20, 0x30, 0x40}, true},
		{"#1020", color.RGBA{}, false},
		{"#GG2030", color.RGBA{}, false},
		{"102030", color.RGBA{}, false},
	}
	for _, tc := range tests {
		got, err := ParseColor(tc.in)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("ParseColor(%q) = %+v, %v", tc.in, got, err)
		}
	}
}
