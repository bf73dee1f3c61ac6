package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/theme"
)

// Canvas holds the defaults for new documents.
type Canvas struct {
	Width       float64
	Height      float64
	Grid        bool
	GridSpacing float64
	// Background is the export background; the zero value keeps exports
	// transparent.
	Background document.Color
}

// Pen holds the initial drawing tool settings.
type Pen struct {
	Color   document.Color
	Width   float64
	Opacity float64
}

// Export holds raster export settings.
type Export struct {
	Scale float64
}

// History holds undo settings.
type History struct {
	Limit int
}

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Canvas  Canvas
	Pen     Pen
	Export  Export
	History History
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // empty so the environment or built-in default applies
		Canvas: Canvas{
			Width:       1024,
			Height:      768,
			GridSpacing: 32,
		},
		Pen: Pen{
			Color:   document.Black,
			Width:   3,
			Opacity: 1,
		},
		Export: Export{Scale: 1},
		Themes: make(map[string]*theme.Theme),
	}
}

// String returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %g\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %g\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "grid = %v\n", c.Canvas.Grid)
	fmt.Fprintf(&sb, "grid_spacing = %g\n", c.Canvas.GridSpacing)
	fmt.Fprintf(&sb, "background = %s\n", c.Canvas.Background.Hex())
	sb.WriteString("\n")

	sb.WriteString("[pen]\n")
	fmt.Fprintf(&sb, "color = %s\n", c.Pen.Color.Hex())
	fmt.Fprintf(&sb, "width = %g\n", c.Pen.Width)
	fmt.Fprintf(&sb, "opacity = %g\n", c.Pen.Opacity)
	sb.WriteString("\n")

	sb.WriteString("[export]\n")
	fmt.Fprintf(&sb, "scale = %g\n", c.Export.Scale)
	sb.WriteString("\n")

	sb.WriteString("[history]\n")
	fmt.Fprintf(&sb, "limit = %d\n", c.History.Limit)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = c.Themes[name].Write(&sb)
		sb.WriteString("\n")
	}

	return sb.String()
}
