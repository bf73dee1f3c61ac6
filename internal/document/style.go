package document

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ToolKind identifies how a stroke is drawn.
type ToolKind uint8

const (
	ToolPen ToolKind = iota
	ToolEraser
	ToolHighlighter
)

var toolNames = [...]string{
	ToolPen:         "pen",
	ToolEraser:      "eraser",
	ToolHighlighter: "highlighter",
}

func (t ToolKind) String() string {
	if int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("ToolKind(%d)", uint8(t))
}

// Valid reports whether t is one of the known tools.
func (t ToolKind) Valid() bool { return int(t) < len(toolNames) }

// ParseToolKind parses a tool name as produced by String.
func ParseToolKind(s string) (ToolKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == name {
			return ToolKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ToolKind) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown tool %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ToolKind) UnmarshalText(b []byte) error {
	k, err := ParseToolKind(string(b))
	if err != nil {
		return err
	}
	*t = k
	return nil
}

// Color is a non-premultiplied 8-bit RGBA colour.
type Color struct {
	R, G, B, A uint8
}

var (
	Black = Color{0, 0, 0, 255}
	White = Color{255, 255, 255, 255}
)

// NRGBA converts c for use with image/color.
func (c Color) NRGBA() color.NRGBA { return color.NRGBA{c.R, c.G, c.B, c.A} }

// Opaque returns c with full alpha.
func (c Color) Opaque() Color {
	c.A = 255
	return c
}

// Hex formats c as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func (c Color) String() string { return c.Hex() }

// FromColor converts any image/color value.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{n.R, n.G, n.B, n.A}
}

// ParseColor accepts #RRGGBB, #RRGGBBAA or an SVG colour name.
func ParseColor(s string) (Color, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return Color{}, fmt.Errorf("color cannot be empty")
	}
	if c, ok := colornames.Map[spec]; ok {
		return FromColor(c), nil
	}
	if !strings.HasPrefix(spec, "#") {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	hex := spec[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		return Color{uint8(val >> 16), uint8(val >> 8), uint8(val), 255}, nil
	}
	return Color{uint8(val >> 24), uint8(val >> 16), uint8(val >> 8), uint8(val)}, nil
}
