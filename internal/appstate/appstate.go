package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/theme"
)

const (
	rowHeight       = 24
	statusHeight    = 24
	layerPanelWidth = 168
	swatchSize      = 16
	swatchStep      = 18
	optionHeight    = 16
)

var toolbarWidth = 72

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// Tool is what a press on the page does.
type Tool int

const (
	ToolPen Tool = iota
	ToolHighlighter
	ToolEraser
	ToolText
	ToolMove
)

// Kind returns the stroke tool t records with, if it records strokes at all.
func (t Tool) Kind() (document.ToolKind, bool) {
	switch t {
	case ToolPen:
		return document.ToolPen, true
	case ToolHighlighter:
		return document.ToolHighlighter, true
	case ToolEraser:
		return document.ToolEraser, true
	}
	return 0, false
}

var toolLabels = []struct {
	tool  Tool
	label string
}{
	{ToolPen, "P:Pen"},
	{ToolHighlighter, "H:Marker"},
	{ToolEraser, "E:Eraser"},
	{ToolText, "T:Text"},
	{ToolMove, "M:Move"},
}

const (
	defaultColorIndex = 0
	defaultWidthIndex = 2
	defaultTextIndex  = 1
)

var palette = []document.Color{
	{R: 0, G: 0, B: 0, A: 255},
	{R: 255, G: 255, B: 255, A: 255},
	{R: 220, G: 30, B: 30, A: 255},
	{R: 30, G: 160, B: 60, A: 255},
	{R: 30, G: 80, B: 220, A: 255},
	{R: 255, G: 220, B: 0, A: 255},
	{R: 0, G: 190, B: 210, A: 255},
	{R: 200, G: 0, B: 200, A: 255},
	{R: 255, G: 140, B: 0, A: 255},
	{R: 128, G: 128, B: 128, A: 255},
}

var widths = []float64{1, 2, 3, 5, 8, 12, 20}

var textSizes = []float64{12, 16, 20, 24, 32}

func clampIndex(idx, n int) int {
	if idx < 0 || n == 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// nearestWidth returns the index of the width closest to w.
func nearestWidth(w float64) int {
	best := 0
	for i, v := range widths {
		if abs(v-w) < abs(widths[best]-w) {
			best = i
		}
	}
	return best
}

// paletteIndex returns the index of c in the palette or -1.
func paletteIndex(c document.Color) int {
	for i, p := range palette {
		if p == c {
			return i
		}
	}
	return -1
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// layout splits the window into its panels.
type layout struct {
	width, height int
	toolbar       image.Rectangle
	layers        image.Rectangle
	status        image.Rectangle
	page          image.Rectangle
}

func newLayout(width, height int) layout {
	l := layout{width: width, height: height}
	bottom := height - statusHeight
	if bottom < 0 {
		bottom = 0
	}
	right := width - layerPanelWidth
	if right < toolbarWidth {
		right = toolbarWidth
	}
	l.toolbar = image.Rect(0, 0, toolbarWidth, bottom)
	l.layers = image.Rect(right, 0, width, bottom)
	l.status = image.Rect(0, bottom, width, height)
	l.page = image.Rect(toolbarWidth, 0, right, bottom)
	return l
}

// fitZoom returns the zoom that fits a canvas of w x h into the page area.
func fitZoom(w, h float64, page image.Rectangle) float64 {
	if w <= 0 || h <= 0 || page.Empty() {
		return 1
	}
	zx := float64(page.Dx()) / w
	zy := float64(page.Dy()) / h
	if zx < zy {
		return zx
	}
	return zy
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, th *theme.Theme, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states. The cache
// is dropped whenever the rectangle or theme changes.
type CacheButton struct {
	Button
	theme *theme.Theme
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	if cb.theme != th {
		cb.theme = th
		cb.cache = [3]*image.RGBA{}
	}
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, th, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// labelButton is a flat button with a text label.
type labelButton struct {
	label  string
	rect   image.Rectangle
	action func()
}

func (b *labelButton) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	fill(dst, b.rect, buttonColor(th, state))
	drawRect(dst, b.rect, th.ButtonBorder.NRGBA())
	drawLabel(dst, b.label, b.rect.Min.X+4, b.rect.Min.Y+(b.rect.Dy()+10)/2, th.ButtonText.NRGBA())
}

func (b *labelButton) Rect() image.Rectangle     { return b.rect }
func (b *labelButton) SetRect(r image.Rectangle) { b.rect = r }
func (b *labelButton) Activate() {
	if b.action != nil {
		b.action()
	}
}

// ToolButton selects a pad tool.
type ToolButton struct {
	labelButton
	tool Tool
}

func newToolButton(t Tool, label string, onSelect func(Tool)) *CacheButton {
	tb := &ToolButton{tool: t}
	tb.label = label
	tb.action = func() { onSelect(t) }
	return &CacheButton{Button: tb}
}

// Shortcut is a status bar button mirroring a keyboard action.
type Shortcut struct {
	labelButton
}

func buttonColor(th *theme.Theme, state ButtonState) color.NRGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover.NRGBA()
	case StatePressed:
		return th.ButtonActive.NRGBA()
	}
	return th.ButtonBackground.NRGBA()
}

func measureLabel(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

func drawLabel(dst *image.RGBA, s string, x, y int, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func fill(dst *image.RGBA, r image.Rectangle, col color.Color) {
	draw.Draw(dst, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func drawRect(dst *image.RGBA, r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	u := image.NewUniform(col)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Over)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	l, d := image.NewUniform(light), image.NewUniform(dark)
	for y := rect.Min.Y - rect.Min.Y%size; y < rect.Max.Y; y += size {
		for x := rect.Min.X - rect.Min.X%size; x < rect.Max.X; x += size {
			src := l
			if ((x/size)+(y/size))%2 != 0 {
				src = d
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}

func percent(v float64) string { return fmt.Sprintf("%.0f%%", v*100) }
