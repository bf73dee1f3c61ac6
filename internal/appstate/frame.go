package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/example/writingpad/internal/compositor"
	"github.com/example/writingpad/internal/engine"
	"github.com/example/writingpad/internal/render"
	"github.com/example/writingpad/internal/theme"
	"github.com/example/writingpad/internal/viewport"
)

const appTitle = "Writing Pad"

// paintState is an immutable copy of everything one frame shows.
type paintState struct {
	layout   layout
	theme    *theme.Theme
	scene    compositor.Scene
	view     viewport.Viewport
	layers   []engine.LayerInfo
	tool     Tool
	colorIdx int
	widthIdx int
	textIdx  int
	family   string
	text     textEntry
	hover    hoverState
	message  string
}

func (p *pad) paintState() paintState {
	st := paintState{
		layout:   p.layout,
		theme:    p.theme,
		scene:    p.eng.Scene(),
		view:     p.eng.Viewport(),
		layers:   p.eng.Layers(),
		tool:     p.tool,
		colorIdx: p.colorIdx,
		widthIdx: p.widthIdx,
		textIdx:  p.textIdx,
		family:   p.family,
		text:     p.text,
		hover:    p.hover,
	}
	if p.messageVisible() {
		st.message = p.message
	}
	return st
}

// painter draws frames. It is owned by the paint goroutine.
type painter struct {
	tools  []*CacheButton
	canvas *render.Canvas
	faces  render.FaceCache
}

func newPainter() *painter {
	return &painter{tools: toolButtons(func(Tool) {})}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, pt *painter, st paintState) {
	size := image.Point{st.layout.width, st.layout.height}
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(size)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !pt.paint(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// paint renders st into dst. It reports false when ctx was canceled part way.
func (pt *painter) paint(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := st.theme
	fill(dst, dst.Bounds(), th.Background.NRGBA())

	pt.drawPage(dst, st)
	if ctx.Err() != nil {
		return false
	}
	pt.drawToolbar(dst, st)
	drawLayerPanel(dst, st)
	drawStatus(dst, st)
	if ctx.Err() != nil {
		return false
	}
	pt.drawMessage(dst, st)
	return true
}

func (pt *painter) drawPage(dst *image.RGBA, st paintState) {
	th := st.theme
	area := st.layout.page
	if area.Empty() {
		return
	}
	page := dst.SubImage(area).(*image.RGBA)

	x0, y0 := st.view.ToDevice(0, 0)
	x1, y1 := st.view.ToDevice(st.view.CanvasWidth, st.view.CanvasHeight)
	paper := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
	draw.Draw(page, paper.Add(image.Pt(3, 3)), image.NewUniform(th.PageShadow.NRGBA()), image.Point{}, draw.Over)
	if th.Paper.A < 255 {
		drawCheckerboard(page, paper, 8, th.CheckerLight.NRGBA(), th.CheckerDark.NRGBA())
	}
	draw.Draw(page, paper, image.NewUniform(th.Paper.NRGBA()), image.Point{}, draw.Over)

	if pt.canvas == nil || pt.canvas.Image().Bounds().Size() != area.Size() {
		pt.canvas = render.NewCanvas(area.Dx(), area.Dy(), st.view.Zoom)
	}
	pt.canvas.SetScale(st.view.Zoom)
	pt.canvas.SetOffset(st.view.Pan)
	compositor.Compose(pt.canvas, st.scene)
	draw.Draw(dst, area, pt.canvas.Image(), image.Point{}, draw.Over)

	if st.text.active {
		pt.drawTextEntry(page, st)
	}
}

func (pt *painter) drawTextEntry(dst *image.RGBA, st paintState) {
	face, err := pt.faces.Face(st.family, textSizes[st.textIdx]*st.view.Zoom)
	if err != nil {
		log.Printf("text face: %v", err)
		return
	}
	x, y := st.view.ToDevice(st.text.pos.X, st.text.pos.Y)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(palette[st.colorIdx].NRGBA()),
		Face: face,
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(st.text.buf + "|")
}

func (pt *painter) drawToolbar(dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, st.layout.toolbar, th.ToolbarBackground.NRGBA())
	g := newToolbarGeometry(st.layout, st.tool)
	drawLabel(dst, appTitle, g.title.Min.X+4, g.title.Min.Y+16, th.Foreground.NRGBA())

	for i, r := range g.tools {
		cb := pt.tools[i]
		cb.SetRect(r)
		state := StateDefault
		if toolLabels[i].tool == st.tool {
			state = StatePressed
		} else if i == st.hover.tool {
			state = StateHover
		}
		cb.Draw(dst, th, state)
	}

	for i, r := range g.swatches {
		fill(dst, r, palette[i].NRGBA())
		drawRect(dst, r, th.ButtonBorder.NRGBA())
		if i == st.hover.swatch {
			draw.Draw(dst, r, image.NewUniform(color.NRGBA{255, 255, 255, 80}), image.Point{}, draw.Over)
		}
		if i == st.colorIdx {
			drawRect(dst, r.Inset(-2), th.ButtonActive.NRGBA())
			drawRect(dst, r.Inset(-1), th.ButtonText.NRGBA())
		}
	}

	col := palette[st.colorIdx].NRGBA()
	for i, r := range g.options {
		selected := i == st.widthIdx
		if st.tool == ToolText {
			selected = i == st.textIdx
		}
		state := StateDefault
		if selected {
			state = StatePressed
		} else if i == st.hover.option {
			state = StateHover
		}
		fill(dst, r, buttonColor(th, state))
		if st.tool == ToolText {
			drawLabel(dst, fmt.Sprintf("%gpt", textSizes[i]), r.Min.X+4, r.Min.Y+16, th.ButtonText.NRGBA())
			continue
		}
		drawLabel(dst, fmt.Sprintf("%g", widths[i]), r.Min.X+4, r.Min.Y+12, th.ButtonText.NRGBA())
		h := int(math.Min(widths[i], float64(r.Dy()-4)))
		if h < 1 {
			h = 1
		}
		cy := (r.Min.Y + r.Max.Y) / 2
		fill(dst, image.Rect(r.Min.X+30, cy-h/2, r.Max.X-4, cy-h/2+h), col)
	}
}

func drawLayerPanel(dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, st.layout.layers, th.ToolbarBackground.NRGBA())
	g := newLayerGeometry(st.layout, st.layers)
	drawLabel(dst, "Layers", g.title.Min.X+4, g.title.Min.Y+16, th.Foreground.NRGBA())

	for i, r := range g.actions {
		b := labelButton{label: layerActions[i].label, rect: r}
		state := StateDefault
		if i == st.hover.action {
			state = StateHover
		}
		b.Draw(dst, th, state)
	}

	text := th.ButtonText.NRGBA()
	for i, row := range g.rows {
		r := row.rect.Intersect(st.layout.layers)
		if r.Empty() {
			break
		}
		state := StateDefault
		if row.info.Active {
			state = StatePressed
		} else if i == st.hover.layer {
			state = StateHover
		}
		fill(dst, r, buttonColor(th, state))
		drawRect(dst, row.eye, th.ButtonBorder.NRGBA())
		if row.info.Visible {
			fill(dst, row.eye.Inset(4), text)
		}
		drawRect(dst, row.lock, th.ButtonBorder.NRGBA())
		if row.info.Locked {
			drawLabel(dst, "L", row.lock.Min.X+5, row.lock.Min.Y+13, text)
		}
		opacity := percent(row.info.Opacity)
		ow := measureLabel(opacity)
		drawLabel(dst, opacity, row.rect.Max.X-ow-4, row.rect.Min.Y+16, text)
		name := fitLabel(row.info.Name, row.rect.Max.X-ow-12-(row.lock.Max.X+4))
		drawLabel(dst, name, row.lock.Max.X+4, row.rect.Min.Y+16, text)
	}
}

// fitLabel shortens s with a trailing "~" until it fits into width pixels.
func fitLabel(s string, width int) string {
	if measureLabel(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && measureLabel(string(r)+"~") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "~"
}

func drawStatus(dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, st.layout.status, th.StatusBackground.NRGBA())
	for i, sc := range statusShortcuts(st.layout, st.view.Zoom, st.text.active, nil) {
		state := StateDefault
		if i == st.hover.shortcut {
			state = StateHover
		}
		sc.Draw(dst, th, state)
	}
	var active string
	for _, l := range st.layers {
		if l.Active {
			active = l.Name
		}
	}
	info := fmt.Sprintf("%s | %d strokes", active, st.scene.Snapshot.StrokeCount())
	w := measureLabel(info)
	drawLabel(dst, info, st.layout.status.Max.X-w-6, st.layout.status.Min.Y+16, th.StatusText.NRGBA())
}

func (pt *painter) drawMessage(dst *image.RGBA, st paintState) {
	if st.message == "" {
		return
	}
	th := st.theme
	face, err := pt.faces.Face("", 24)
	if err != nil {
		log.Printf("message face: %v", err)
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground.NRGBA()), Face: face}
	wmsg := d.MeasureString(st.message).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	c := st.layout.page.Min.Add(st.layout.page.Max).Div(2)
	px := c.X - wmsg/2
	py := c.Y + (ascent-descent)/2
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	bg := th.StatusBackground
	bg.A = 230
	draw.Draw(dst, rect, image.NewUniform(bg.NRGBA()), image.Point{}, draw.Over)
	drawRect(dst, rect, th.ButtonBorder.NRGBA())
	d.Dot = fixed.P(px, py)
	d.DrawString(st.message)
}
