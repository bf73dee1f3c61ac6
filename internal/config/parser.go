package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/theme"
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
			raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentSection = strings.ToLower(raw)
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				name := raw[len("theme."):]
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		var key, value string
		var ok bool
		if key, value, ok = strings.Cut(line, "="); !ok {
			if key, value, ok = strings.Cut(line, ":"); !ok {
				continue
			}
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case currentSection == "pen":
			err = setPenField(&cfg.Pen, key, value)
		case currentSection == "export":
			err = setExportField(&cfg.Export, key, value)
		case currentSection == "history":
			err = setHistoryField(&cfg.History, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d: error in section [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	var err error
	switch key {
	case "width":
		c.Width, err = parsePositive(key, value)
	case "height":
		c.Height, err = parsePositive(key, value)
	case "grid":
		c.Grid, err = parseBool(key, value)
	case "grid_spacing":
		c.GridSpacing, err = parsePositive(key, value)
	case "background":
		c.Background, err = parseColor(key, value)
	}
	return err
}

func setPenField(p *Pen, key, value string) error {
	var err error
	switch key {
	case "color", "colour":
		p.Color, err = parseColor(key, value)
	case "width":
		p.Width, err = parsePositive(key, value)
	case "opacity":
		p.Opacity, err = parseUnit(key, value)
	}
	return err
}

func setExportField(e *Export, key, value string) error {
	var err error
	if key == "scale" {
		e.Scale, err = parsePositive(key, value)
	}
	return err
}

func setHistoryField(h *History, key, value string) error {
	if key != "limit" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid limit %q: want a non-negative integer", value)
	}
	h.Limit = n
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parsePositive(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || !(f > 0) {
		return 0, fmt.Errorf("invalid value for key %s: %q is not a positive number", key, value)
	}
	return f, nil
}

func parseUnit(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || !(f >= 0 && f <= 1) {
		return 0, fmt.Errorf("invalid value for key %s: %q is not within [0, 1]", key, value)
	}
	return f, nil
}

func parseColor(key, value string) (document.Color, error) {
	c, err := document.ParseColor(value)
	if err != nil {
		return document.Color{}, fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	return c, nil
}
