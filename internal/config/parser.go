package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mgnigh98/VisionLabel/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "viewport":
			err = setViewportField(&cfg.Viewport, key, value)
		case currentSection == "export":
			err = setExportField(&cfg.Export, key, value)
		case currentSection == "chip":
			err = setChipField(&cfg.Chip, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, currentSection, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// Validate reports settings the application cannot run with.
func (c *Config) Validate() error {
	if c.Viewport.ZoomDelta <= 1 {
		return fmt.Errorf("zoom_delta must be greater than 1, got %v", c.Viewport.ZoomDelta)
	}
	if c.Viewport.MinVisible < 1 {
		return fmt.Errorf("min_visible_px must be positive, got %d", c.Viewport.MinVisible)
	}
	if c.Chip.GridSize < 2 {
		return fmt.Errorf("grid_size must be at least 2, got %d", c.Chip.GridSize)
	}
	if (c.PairFrom == "") != (c.PairTo == "") {
		return fmt.Errorf("pair_from and pair_to must be set together")
	}
	return nil
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "theme":
		cfg.Theme = value
	case "label":
		cfg.Label = value
	case "pair_from":
		cfg.PairFrom = value
	case "pair_to":
		cfg.PairTo = value
	}
	return nil
}

func setViewportField(v *Viewport, key, value string) error {
	switch key {
	case "zoom_delta":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number for key %s: %w", key, err)
		}
		v.ZoomDelta = f
	case "min_visible_px":
		return parseInt(key, value, &v.MinVisible)
	case "resample":
		v.Resample = value
	}
	return nil
}

func setExportField(e *Export, key, value string) error {
	switch key {
	case "txt":
		return parseBool(key, value, &e.TXT)
	case "csv":
		return parseBool(key, value, &e.CSV)
	case "import":
		return parseBool(key, value, &e.Import)
	case "lines":
		return parseBool(key, value, &e.Lines)
	case "precision":
		return parseInt(key, value, &e.Precision)
	case "csv_name":
		e.CSVName = value
	}
	return nil
}

func setChipField(c *Chip, key, value string) error {
	switch key {
	case "png":
		return parseBool(key, value, &c.PNG)
	case "native":
		return parseBool(key, value, &c.Native)
	case "grid_size":
		return parseInt(key, value, &c.GridSize)
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch key {
	case "export":
		return parseBool(key, value, &n.Export)
	case "chip":
		return parseBool(key, value, &n.Chip)
	case "delete":
		return parseBool(key, value, &n.Delete)
	case "copy":
		return parseBool(key, value, &n.Copy)
	}
	return nil
}

func parseBool(key, value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func parseInt(key, value string, dst *int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	*dst = n
	return nil
}
