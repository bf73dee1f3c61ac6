package appstate

import (
	"fmt"
	"image"

	"github.com/example/writingpad/internal/engine"
)

// toolbarGeometry holds the hit rectangles of the left toolbar. The same
// geometry is used for drawing and for pointer handling.
type toolbarGeometry struct {
	title    image.Rectangle
	tools    []image.Rectangle
	swatches []image.Rectangle
	options  []image.Rectangle
}

func newToolbarGeometry(l layout, tool Tool) toolbarGeometry {
	g := toolbarGeometry{title: image.Rect(0, 0, toolbarWidth, rowHeight)}
	y := rowHeight
	for range toolLabels {
		g.tools = append(g.tools, image.Rect(0, y, toolbarWidth, y+rowHeight))
		y += rowHeight
	}

	y += 4
	x := 4
	for range palette {
		if x+swatchSize > toolbarWidth {
			x = 4
			y += swatchStep
		}
		g.swatches = append(g.swatches, image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchStep
	}
	y += swatchStep + 4

	n, h := 0, optionHeight
	if _, ok := tool.Kind(); ok {
		n = len(widths)
	} else if tool == ToolText {
		n, h = len(textSizes), rowHeight
	}
	for i := 0; i < n; i++ {
		g.options = append(g.options, image.Rect(0, y, toolbarWidth, y+h))
		y += h
	}
	return g
}

var layerActions = []struct {
	label, action string
}{
	{"+", "addlayer"},
	{"-", "removelayer"},
	{"^", "raise"},
	{"v", "lower"},
	{"[", "fade"},
	{"]", "boost"},
}

type layerRow struct {
	info engine.LayerInfo
	rect image.Rectangle
	eye  image.Rectangle
	lock image.Rectangle
}

// layerGeometry lays out the layer panel: a title, a row of actions and one
// row per layer with the top layer first.
type layerGeometry struct {
	title   image.Rectangle
	actions []image.Rectangle
	rows    []layerRow
}

func newLayerGeometry(l layout, layers []engine.LayerInfo) layerGeometry {
	x0, x1 := l.layers.Min.X, l.layers.Max.X
	g := layerGeometry{title: image.Rect(x0, 0, x1, rowHeight)}
	x := x0 + 4
	for range layerActions {
		g.actions = append(g.actions, image.Rect(x, rowHeight+2, x+22, 2*rowHeight-2))
		x += 26
	}
	y := 2 * rowHeight
	for i := len(layers) - 1; i >= 0; i-- {
		g.rows = append(g.rows, layerRow{
			info: layers[i],
			rect: image.Rect(x0, y, x1, y+rowHeight),
			eye:  image.Rect(x0+4, y+4, x0+20, y+20),
			lock: image.Rect(x0+24, y+4, x0+40, y+20),
		})
		y += rowHeight
	}
	return g
}

// statusShortcuts lays out the shortcut buttons of the status bar. trigger
// may be nil when the buttons are only drawn.
func statusShortcuts(l layout, zoom float64, textMode bool, trigger func(string)) []*Shortcut {
	type entry struct{ label, action string }
	var entries []entry
	if textMode {
		entries = []entry{
			{"Enter:place", "textdone"},
			{"Esc:cancel", "textcancel"},
		}
	} else {
		entries = []entry{
			{"^Z:undo", "undo"},
			{"^Y:redo", "redo"},
			{"^S:save", "save"},
			{"^C:copy", "copy"},
			{fmt.Sprintf("+/-:zoom (%s)", percent(zoom)), "zoomin"},
			{"0:fit", "fit"},
			{"^L:clear", "clear"},
			{"Q:quit", "quit"},
		}
	}
	out := make([]*Shortcut, 0, len(entries))
	x := l.status.Min.X + 4
	for _, en := range entries {
		w := measureLabel(en.label)
		sc := &Shortcut{labelButton{
			label: en.label,
			rect:  image.Rect(x, l.status.Min.Y+3, x+w+8, l.status.Max.Y-3),
		}}
		if trigger != nil {
			action := en.action
			sc.action = func() { trigger(action) }
		}
		out = append(out, sc)
		x = sc.rect.Max.X + 6
	}
	return out
}
