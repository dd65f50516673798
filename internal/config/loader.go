package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	appDir   = "visionlabel"
	fileName = "config.rc"
	localRC  = ".visionlabelrc"
)

// Loader finds, reads and writes the RC file.
type Loader struct {
	// Version "dev" also looks for ./.visionlabelrc.
	Version string
	// OverridePath is tried first and is where Save writes.
	OverridePath string
}

func NewLoader(version string, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load parses the first config file found, or returns New when there is
// none.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPath returns the file Load would read, or "".
func (l *Loader) GetConfigPath() string {
	candidates := []string{l.OverridePath}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(wd, localRC))
		}
	}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	if p, err := xdg.SearchConfigFile(filepath.Join(appDir, fileName)); err == nil {
		return p
	}
	return ""
}

// SavePath returns where Save writes: the override when set, else the user
// config file. Parent directories are created.
func (l *Loader) SavePath() (string, error) {
	if l.OverridePath != "" {
		if err := os.MkdirAll(filepath.Dir(l.OverridePath), 0o755); err != nil {
			return "", err
		}
		return l.OverridePath, nil
	}
	return xdg.ConfigFile(filepath.Join(appDir, fileName))
}

// Save writes cfg in RC format and returns the path written.
func (l *Loader) Save(cfg *Config) (string, error) {
	path, err := l.SavePath()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
