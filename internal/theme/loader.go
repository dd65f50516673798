package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const themeDir = "visionlabel/themes"

// Loader resolves a theme name to a palette. Dirs are searched after the
// embedded themes, in order.
type Loader struct {
	Dirs []string
}

// NewLoader searches the XDG config home, then every XDG data dir.
func NewLoader() *Loader {
	dirs := []string{filepath.Join(xdg.ConfigHome, themeDir)}
	for _, d := range xdg.DataDirs {
		dirs = append(dirs, filepath.Join(d, themeDir))
	}
	return &Loader{Dirs: dirs}
}

// Load returns the theme called name. A path to an existing file wins,
// then the embedded themes, then Dirs. An empty name is Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return loadFile(name)
	}

	file := name
	if !strings.HasSuffix(file, ".theme") {
		file += ".theme"
	}
	if f, err := EmbeddedThemes.Open("defaults/" + file); err == nil {
		defer f.Close()
		return Parse(f)
	}
	for _, dir := range l.Dirs {
		p := filepath.Join(dir, file)
		if _, err := os.Stat(p); err == nil {
			return loadFile(p)
		}
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func loadFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
