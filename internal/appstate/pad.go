package appstate

import (
	"errors"
	"image"
	"log"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/engine"
	"github.com/example/writingpad/internal/theme"
)

const (
	zoomStep    = 1.25
	wheelStep   = 1.1
	panStep     = 40
	opacityStep = 0.1
	messageTime = 2 * time.Second
)

// textEntry is a text annotation being typed. Pos is in logical units.
type textEntry struct {
	active bool
	pos    document.Point
	buf    string
}

type hoverState struct {
	tool, swatch, option, layer, action, shortcut int
}

func noHover() hoverState { return hoverState{-1, -1, -1, -1, -1, -1} }

// pad turns window input into engine calls. It is owned by the event loop
// goroutine.
type pad struct {
	eng    *engine.Engine
	theme  *theme.Theme
	layout layout

	tool     Tool
	colorIdx int
	widthIdx int
	textIdx  int
	family   string

	panning bool
	panFrom image.Point
	text    textEntry

	confirmClear bool
	message      string
	messageUntil time.Time
	hover        hoverState

	tools    []*CacheButton
	actions  map[string]func()
	keyboard map[KeyShortcut]string

	save         func() (string, error)
	copyImage    func() error
	copyDocument func() error

	quit bool
	now  func() time.Time
}

func newPad(eng *engine.Engine, th *theme.Theme) *pad {
	if th == nil {
		th = theme.Default()
	}
	p := &pad{
		eng:      eng,
		theme:    th,
		tool:     ToolPen,
		colorIdx: paletteIndex(eng.Color()),
		widthIdx: nearestWidth(eng.Width()),
		textIdx:  defaultTextIndex,
		hover:    noHover(),
		now:      time.Now,
	}
	if p.colorIdx < 0 {
		p.colorIdx = defaultColorIndex
	}
	p.tools = toolButtons(p.selectTool)
	p.registerActions()
	return p
}

func toolButtons(onSelect func(Tool)) []*CacheButton {
	out := make([]*CacheButton, len(toolLabels))
	for i, tl := range toolLabels {
		out[i] = newToolButton(tl.tool, tl.label, onSelect)
	}
	return out
}

func (p *pad) register(name string, keys KeyboardShortcuts, fn func()) {
	p.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			p.keyboard[sc] = name
		}
	}
}

func (p *pad) registerActions() {
	p.actions = map[string]func(){}
	p.keyboard = map[KeyShortcut]string{}

	p.register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		if ok, err := p.eng.Undo(); err != nil {
			log.Printf("undo: %v", err)
		} else if !ok {
			p.flash("nothing to undo")
		}
	})
	p.register("redo", shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
	}, func() {
		if ok, err := p.eng.Redo(); err != nil {
			log.Printf("redo: %v", err)
		} else if !ok {
			p.flash("nothing to redo")
		}
	})
	p.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		if p.save == nil {
			return
		}
		path, err := p.save()
		if err != nil {
			log.Printf("save: %v", err)
			p.flash("save failed")
			return
		}
		p.flash("saved " + path)
	})
	p.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		if p.copyImage == nil {
			return
		}
		if err := p.copyImage(); err != nil {
			log.Printf("copy: %v", err)
			p.flash("copy failed")
			return
		}
		p.flash("image copied to clipboard")
	})
	p.register("copydoc", shortcutList{{Rune: 'c', Modifiers: key.ModControl | key.ModShift}}, func() {
		if p.copyDocument == nil {
			return
		}
		if err := p.copyDocument(); err != nil {
			log.Printf("copy document: %v", err)
			p.flash("copy failed")
			return
		}
		p.flash("document copied to clipboard")
	})
	p.register("clear", shortcutList{{Rune: 'l', Modifiers: key.ModControl}}, func() {
		if !p.confirmClear {
			p.confirmClear = true
			p.flash("press ^L again to clear")
			return
		}
		p.confirmClear = false
		if err := p.eng.Clear(); err != nil {
			log.Printf("clear: %v", err)
		}
	})
	p.register("addlayer", shortcutList{{Rune: 'n', Modifiers: key.ModControl}}, func() {
		if _, err := p.eng.AddLayer(""); err != nil {
			log.Printf("add layer: %v", err)
		}
	})
	p.register("removelayer", shortcutList{{Code: key.CodeDeleteForward, Modifiers: key.ModControl}}, func() {
		p.layerCall("remove layer", p.eng.RemoveLayer)
	})
	p.register("raise", shortcutList{{Code: key.CodePageUp}}, func() { p.moveActive(1) })
	p.register("lower", shortcutList{{Code: key.CodePageDown}}, func() { p.moveActive(-1) })
	p.register("fade", shortcutList{{Rune: '['}}, func() { p.adjustOpacity(-opacityStep) })
	p.register("boost", shortcutList{{Rune: ']'}}, func() { p.adjustOpacity(opacityStep) })
	p.register("visible", shortcutList{{Rune: 'v'}}, func() {
		if info, ok := p.activeInfo(); ok {
			p.layerCall("visibility", func(id string) error { return p.eng.SetLayerVisible(id, !info.Visible) })
		}
	})
	p.register("lock", shortcutList{{Rune: 'k'}}, func() {
		if info, ok := p.activeInfo(); ok {
			p.layerCall("lock", func(id string) error { return p.eng.SetLayerLocked(id, !info.Locked) })
		}
	})
	p.register("zoomin", shortcutList{{Rune: '+'}, {Rune: '='}}, func() { p.zoomBy(zoomStep) })
	p.register("zoomout", shortcutList{{Rune: '-'}}, func() { p.zoomBy(1 / zoomStep) })
	p.register("fit", shortcutList{{Rune: '0'}}, p.fit)
	p.register("panleft", shortcutList{{Code: key.CodeLeftArrow}}, func() { p.panBy(panStep, 0) })
	p.register("panright", shortcutList{{Code: key.CodeRightArrow}}, func() { p.panBy(-panStep, 0) })
	p.register("panup", shortcutList{{Code: key.CodeUpArrow}}, func() { p.panBy(0, panStep) })
	p.register("pandown", shortcutList{{Code: key.CodeDownArrow}}, func() { p.panBy(0, -panStep) })
	p.register("thinner", shortcutList{{Rune: ','}}, func() { p.selectWidth(p.widthIdx - 1) })
	p.register("thicker", shortcutList{{Rune: '.'}}, func() { p.selectWidth(p.widthIdx + 1) })
	p.register("quit", shortcutList{{Rune: 'q'}}, func() { p.quit = true })
	p.register("textdone", nil, p.commitText)
	p.register("textcancel", nil, func() { p.text = textEntry{} })

	for _, tl := range toolLabels {
		t := tl.tool
		r := unicode.ToLower(rune(tl.label[0]))
		p.register("tool:"+tl.label, shortcutList{{Rune: r}}, func() { p.selectTool(t) })
	}
	for i := 0; i < len(palette) && i < 9; i++ {
		idx := i
		p.register("color:"+string(rune('1'+i)), shortcutList{{Rune: rune('1' + i)}}, func() { p.selectColor(idx) })
	}
}

// trigger runs a named action.
func (p *pad) trigger(name string) {
	if name != "clear" {
		p.confirmClear = false
	}
	if fn, ok := p.actions[name]; ok {
		fn()
	}
}

// lookup finds the action bound to a key press. Shift is ignored for
// punctuation so '+' works on layouts where it needs shift.
func (p *pad) lookup(e key.Event) (string, bool) {
	mods := e.Modifiers &^ (key.ModAlt | key.ModMeta)
	if e.Rune > 0 {
		r := e.Rune
		if unicode.IsLetter(r) {
			r = unicode.ToLower(r)
		} else {
			mods &^= key.ModShift
		}
		if name, ok := p.keyboard[KeyShortcut{Rune: r, Modifiers: mods}]; ok {
			return name, true
		}
		if mods&key.ModControl != 0 && r < 0x20 {
			// some drivers report control characters for ^A..^Z
			if name, ok := p.keyboard[KeyShortcut{Rune: r + 'a' - 1, Modifiers: mods}]; ok {
				return name, true
			}
		}
	}
	name, ok := p.keyboard[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers &^ (key.ModAlt | key.ModMeta)}]
	return name, ok
}

func (p *pad) flash(msg string) {
	p.message = msg
	p.messageUntil = p.now().Add(messageTime)
	log.Print(msg)
}

func (p *pad) messageVisible() bool {
	return p.message != "" && p.now().Before(p.messageUntil)
}

func (p *pad) selectTool(t Tool) {
	if p.eng.Drawing() {
		p.endStroke()
	}
	p.commitText()
	p.tool = t
	if kind, ok := t.Kind(); ok {
		if err := p.eng.SetTool(kind); err != nil {
			log.Printf("tool: %v", err)
		}
	}
}

func (p *pad) selectColor(idx int) {
	p.colorIdx = clampIndex(idx, len(palette))
	if err := p.eng.SetColor(palette[p.colorIdx]); err != nil {
		log.Printf("color: %v", err)
	}
}

func (p *pad) selectWidth(idx int) {
	p.widthIdx = clampIndex(idx, len(widths))
	if err := p.eng.SetWidth(widths[p.widthIdx]); err != nil {
		log.Printf("width: %v", err)
	}
}

func (p *pad) activeInfo() (engine.LayerInfo, bool) {
	for _, l := range p.eng.Layers() {
		if l.Active {
			return l, true
		}
	}
	return engine.LayerInfo{}, false
}

func (p *pad) layerCall(what string, fn func(id string) error) {
	if err := fn(p.eng.ActiveLayer()); err != nil {
		log.Printf("%s: %v", what, err)
	}
}

func (p *pad) moveActive(delta int) {
	layers := p.eng.Layers()
	for i, l := range layers {
		if l.Active {
			p.layerCall("move layer", func(id string) error { return p.eng.MoveLayer(id, i+delta) })
			return
		}
	}
}

func (p *pad) adjustOpacity(delta float64) {
	if info, ok := p.activeInfo(); ok {
		p.layerCall("layer opacity", func(id string) error { return p.eng.SetLayerOpacity(id, info.Opacity+delta) })
	}
}

func (p *pad) pageCenter() (float64, float64) {
	c := p.layout.page.Min.Add(p.layout.page.Max).Div(2)
	return float64(c.X), float64(c.Y)
}

func (p *pad) zoomBy(factor float64) {
	x, y := p.pageCenter()
	if err := p.eng.ZoomAt(factor, x, y); err != nil {
		log.Printf("zoom: %v", err)
	}
}

func (p *pad) panBy(dx, dy float64) {
	if err := p.eng.PanBy(dx, dy); err != nil {
		log.Printf("pan: %v", err)
	}
}

// fit zooms so the whole canvas is visible in the page area.
func (p *pad) fit() {
	snap := p.eng.Snapshot()
	if err := p.eng.SetZoom(fitZoom(snap.Width, snap.Height, p.layout.page)); err != nil {
		log.Printf("fit: %v", err)
		return
	}
	if err := p.eng.SetPan(0, 0); err != nil {
		log.Printf("fit: %v", err)
	}
}

// resize lays the window out again and tells the engine where the page is.
func (p *pad) resize(width, height int) {
	p.layout = newLayout(width, height)
	origin := document.Point{X: float64(p.layout.page.Min.X), Y: float64(p.layout.page.Min.Y)}
	if err := p.eng.SetSurface(origin, 1); err != nil {
		log.Printf("surface: %v", err)
	}
}

func (p *pad) endStroke() {
	if err := p.eng.End(); err != nil && !errors.Is(err, engine.ErrClosed) {
		log.Printf("end stroke: %v", err)
	}
}

func (p *pad) commitText() {
	t := p.text
	p.text = textEntry{}
	if !t.active || t.buf == "" {
		return
	}
	style := document.TextStyle{
		FontSize:   textSizes[p.textIdx],
		Color:      palette[p.colorIdx],
		FontFamily: p.family,
	}
	if _, err := p.eng.AddText(t.pos.X, t.pos.Y, t.buf, style); err != nil {
		log.Printf("text: %v", err)
	}
}

// pointer handles one mouse event and reports whether a repaint is needed.
func (p *pad) pointer(e mouse.Event) bool {
	pt := image.Pt(int(e.X), int(e.Y))
	x, y := float64(e.X), float64(e.Y)

	if p.messageVisible() && e.Direction == mouse.DirPress {
		p.messageUntil = time.Time{}
		return true
	}

	if p.eng.Drawing() {
		switch {
		case e.Direction == mouse.DirRelease:
			p.endStroke()
		case !pt.In(p.layout.page):
			if err := p.eng.Leave(); err != nil {
				log.Printf("leave: %v", err)
			}
		default:
			if err := p.eng.MoveDevice(x, y); err != nil {
				log.Printf("move: %v", err)
			}
		}
		return true
	}
	if p.panning {
		if e.Direction == mouse.DirRelease {
			p.panning = false
			return false
		}
		d := pt.Sub(p.panFrom)
		p.panFrom = pt
		p.panBy(float64(d.X), float64(d.Y))
		return true
	}

	if e.Direction == mouse.DirStep && pt.In(p.layout.page) {
		switch e.Button {
		case mouse.ButtonWheelUp:
			if err := p.eng.ZoomAt(wheelStep, x, y); err != nil {
				log.Printf("zoom: %v", err)
			}
			return true
		case mouse.ButtonWheelDown:
			if err := p.eng.ZoomAt(1/wheelStep, x, y); err != nil {
				log.Printf("zoom: %v", err)
			}
			return true
		}
	}

	press := e.Direction == mouse.DirPress && e.Button == mouse.ButtonLeft
	switch {
	case pt.In(p.layout.status):
		return p.statusPointer(pt, press)
	case pt.In(p.layout.toolbar):
		return p.toolbarPointer(pt, press)
	case pt.In(p.layout.layers):
		return p.layerPointer(pt, press)
	case pt.In(p.layout.page):
		changed := p.hover != noHover()
		p.hover = noHover()
		if e.Direction == mouse.DirPress && e.Button == mouse.ButtonMiddle {
			p.panning, p.panFrom = true, pt
			return changed
		}
		if !press {
			return changed
		}
		return p.pagePress(pt, x, y) || changed
	}
	return false
}

func (p *pad) pagePress(pt image.Point, x, y float64) bool {
	p.confirmClear = false
	if _, ok := p.tool.Kind(); ok {
		p.commitText()
		if err := p.eng.BeginDevice(x, y); err != nil {
			log.Printf("begin: %v", err)
		}
		return true
	}
	switch p.tool {
	case ToolText:
		lx, ly := p.eng.Viewport().ToLogical(x, y)
		if p.text.active && p.text.buf != "" {
			p.commitText()
		}
		p.text = textEntry{active: true, pos: document.Point{X: lx, Y: ly}}
		return true
	case ToolMove:
		p.panning, p.panFrom = true, pt
	}
	return false
}

func (p *pad) statusPointer(pt image.Point, press bool) bool {
	old := p.hover
	p.hover = noHover()
	for i, sc := range statusShortcuts(p.layout, p.eng.Viewport().Zoom, p.text.active, p.trigger) {
		if pt.In(sc.Rect()) {
			p.hover.shortcut = i
			if press {
				sc.Activate()
				return true
			}
			break
		}
	}
	return old != p.hover
}

func (p *pad) toolbarPointer(pt image.Point, press bool) bool {
	old := p.hover
	p.hover = noHover()
	g := newToolbarGeometry(p.layout, p.tool)
	for i, r := range g.tools {
		if pt.In(r) {
			p.hover.tool = i
			if press {
				p.tools[i].SetRect(r)
				p.tools[i].Activate()
				return true
			}
		}
	}
	for i, r := range g.swatches {
		if pt.In(r) {
			p.hover.swatch = i
			if press {
				p.selectColor(i)
				return true
			}
		}
	}
	for i, r := range g.options {
		if pt.In(r) {
			p.hover.option = i
			if press {
				if p.tool == ToolText {
					p.textIdx = clampIndex(i, len(textSizes))
				} else {
					p.selectWidth(i)
				}
				return true
			}
		}
	}
	return old != p.hover
}

func (p *pad) layerPointer(pt image.Point, press bool) bool {
	old := p.hover
	p.hover = noHover()
	g := newLayerGeometry(p.layout, p.eng.Layers())
	for i, r := range g.actions {
		if pt.In(r) {
			p.hover.action = i
			if press {
				p.trigger(layerActions[i].action)
				return true
			}
		}
	}
	for i, row := range g.rows {
		if !pt.In(row.rect) {
			continue
		}
		p.hover.layer = i
		if !press {
			break
		}
		switch {
		case pt.In(row.eye):
			p.layerCall("visibility", func(string) error { return p.eng.SetLayerVisible(row.info.ID, !row.info.Visible) })
		case pt.In(row.lock):
			p.layerCall("lock", func(string) error { return p.eng.SetLayerLocked(row.info.ID, !row.info.Locked) })
		default:
			if err := p.eng.SetActiveLayer(row.info.ID); err != nil {
				log.Printf("select layer: %v", err)
			}
		}
		return true
	}
	return old != p.hover
}

// keyPress handles one key event and reports whether a repaint is needed.
func (p *pad) keyPress(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if p.text.active {
		switch e.Code {
		case key.CodeReturnEnter:
			p.commitText()
			return true
		case key.CodeEscape:
			p.text = textEntry{}
			return true
		case key.CodeDeleteBackspace:
			if _, n := utf8.DecodeLastRuneInString(p.text.buf); n > 0 {
				p.text.buf = p.text.buf[:len(p.text.buf)-n]
			}
			return true
		}
		if e.Modifiers&key.ModControl == 0 && e.Rune > 0 && unicode.IsPrint(e.Rune) {
			p.text.buf += string(e.Rune)
			return true
		}
	}
	if e.Code == key.CodeEscape && p.eng.Drawing() {
		if err := p.eng.Leave(); err != nil {
			log.Printf("leave: %v", err)
		}
		return true
	}
	name, ok := p.lookup(e)
	if !ok {
		return false
	}
	p.trigger(name)
	return true
}
