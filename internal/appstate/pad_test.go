package appstate

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/engine"
	"github.com/example/writingpad/internal/portable"
)

func newTestPad(t *testing.T) *pad {
	t.Helper()
	eng, err := engine.Open(nil,
		engine.WithCanvasSize(400, 300),
		engine.WithIDGenerator(engine.SequentialIDs("id")))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	p := newPad(eng, nil)
	p.resize(800, 600)
	return p
}

func press(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func drag(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Direction: mouse.DirNone}
}

func release(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
}

func center(r image.Rectangle) (float32, float32) {
	c := r.Min.Add(r.Max).Div(2)
	return float32(c.X), float32(c.Y)
}

func ctrl(r rune, code key.Code) key.Event {
	return key.Event{Rune: r, Code: code, Modifiers: key.ModControl, Direction: key.DirPress}
}

func typed(r rune) key.Event {
	return key.Event{Rune: r, Direction: key.DirPress}
}

// stroke draws a horizontal stroke across the page at window row y.
func stroke(p *pad, y float32) {
	x0 := float32(p.layout.page.Min.X) + 100
	p.pointer(press(x0, y))
	p.pointer(drag(x0+50, y))
	p.pointer(drag(x0+100, y))
	p.pointer(release(x0+100, y))
}

func TestLayoutPartitionsWindow(t *testing.T) {
	l := newLayout(800, 600)
	if l.page.Min.X != toolbarWidth || l.page.Max.X != 800-layerPanelWidth {
		t.Fatalf("page = %v", l.page)
	}
	if l.status.Dy() != statusHeight || l.status.Max.Y != 600 {
		t.Fatalf("status = %v", l.status)
	}
	if l.page.Overlaps(l.toolbar) || l.page.Overlaps(l.layers) || l.page.Overlaps(l.status) {
		t.Fatal("panels overlap the page")
	}
}

func TestPointerDrawsStroke(t *testing.T) {
	p := newTestPad(t)
	stroke(p, 100)
	snap := p.eng.Snapshot()
	if snap.StrokeCount() != 1 {
		t.Fatalf("strokes = %d, want 1", snap.StrokeCount())
	}
	s := snap.Layers[0].Strokes[0]
	if s.Points[0] != (document.Point{X: 100, Y: 100}) {
		t.Fatalf("first point = %v", s.Points[0])
	}
}

func TestTapIsDiscarded(t *testing.T) {
	p := newTestPad(t)
	x := float32(p.layout.page.Min.X) + 10
	p.pointer(press(x, 10))
	p.pointer(release(x, 10))
	if n := p.eng.Snapshot().StrokeCount(); n != 0 {
		t.Fatalf("tap committed %d strokes", n)
	}
}

func TestLeavingPageEndsStroke(t *testing.T) {
	p := newTestPad(t)
	x := float32(p.layout.page.Min.X) + 50
	p.pointer(press(x, 50))
	p.pointer(drag(x+20, 60))
	p.pointer(drag(5, 60))
	if p.eng.Drawing() {
		t.Fatal("stroke still in progress after leaving the page")
	}
	if n := p.eng.Snapshot().StrokeCount(); n != 1 {
		t.Fatalf("strokes = %d, want 1", n)
	}
}

func TestUndoRedoShortcuts(t *testing.T) {
	p := newTestPad(t)
	stroke(p, 100)
	if !p.keyPress(ctrl('z', key.CodeZ)) {
		t.Fatal("undo did not request a repaint")
	}
	if n := p.eng.Snapshot().StrokeCount(); n != 0 {
		t.Fatalf("after undo strokes = %d", n)
	}
	p.keyPress(ctrl('y', key.CodeY))
	if n := p.eng.Snapshot().StrokeCount(); n != 1 {
		t.Fatalf("after redo strokes = %d", n)
	}
}

func TestClearNeedsConfirmation(t *testing.T) {
	p := newTestPad(t)
	stroke(p, 100)
	p.keyPress(ctrl('l', key.CodeL))
	if n := p.eng.Snapshot().StrokeCount(); n != 1 {
		t.Fatal("first ^L cleared without confirmation")
	}
	p.keyPress(ctrl('l', key.CodeL))
	if n := p.eng.Snapshot().StrokeCount(); n != 0 {
		t.Fatalf("strokes after confirmed clear = %d", n)
	}
}

func TestShiftedPunctuationZooms(t *testing.T) {
	p := newTestPad(t)
	before := p.eng.Viewport().Zoom
	p.keyPress(key.Event{Rune: '+', Modifiers: key.ModShift, Direction: key.DirPress})
	if got := p.eng.Viewport().Zoom; got != before*zoomStep {
		t.Fatalf("zoom = %v, want %v", got, before*zoomStep)
	}
}

func TestToolKeysSelectEngineTool(t *testing.T) {
	p := newTestPad(t)
	p.keyPress(typed('e'))
	if p.tool != ToolEraser || p.eng.Tool() != document.ToolEraser {
		t.Fatalf("tool = %v / %v", p.tool, p.eng.Tool())
	}
	p.keyPress(typed('H'))
	if p.eng.Tool() != document.ToolHighlighter {
		t.Fatalf("engine tool = %v", p.eng.Tool())
	}
	if p.eng.StrokeOpacity() != engine.DefaultHighlighterOpacity {
		t.Fatalf("highlighter opacity = %v", p.eng.StrokeOpacity())
	}
}

func TestTextEntryPlacesText(t *testing.T) {
	p := newTestPad(t)
	p.keyPress(typed('t'))
	x := float32(p.layout.page.Min.X) + 100
	p.pointer(press(x, 100))
	for _, r := range "hq" {
		p.keyPress(typed(r))
	}
	if p.quit {
		t.Fatal("typing into a text element triggered a shortcut")
	}
	p.keyPress(key.Event{Code: key.CodeDeleteBackspace, Direction: key.DirPress})
	p.keyPress(typed('i'))
	p.keyPress(key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress})

	texts := p.eng.Texts()
	if len(texts) != 1 {
		t.Fatalf("texts = %d, want 1", len(texts))
	}
	if texts[0].Text != "hi" || texts[0].Position != (document.Point{X: 100, Y: 100}) {
		t.Fatalf("text = %+v", texts[0])
	}
	if texts[0].FontSize != textSizes[defaultTextIndex] {
		t.Fatalf("font size = %v", texts[0].FontSize)
	}
}

func TestToolbarSelectsColorAndWidth(t *testing.T) {
	p := newTestPad(t)
	g := newToolbarGeometry(p.layout, p.tool)
	p.pointer(press(center(g.swatches[2])))
	if p.eng.Color() != palette[2] {
		t.Fatalf("color = %v, want %v", p.eng.Color(), palette[2])
	}
	p.pointer(press(center(g.options[0])))
	if p.eng.Width() != widths[0] {
		t.Fatalf("width = %v, want %v", p.eng.Width(), widths[0])
	}
	p.pointer(press(center(g.tools[3])))
	if p.tool != ToolText {
		t.Fatalf("tool = %v, want text", p.tool)
	}
}

func TestLayerPanel(t *testing.T) {
	p := newTestPad(t)
	g := newLayerGeometry(p.layout, p.eng.Layers())
	p.pointer(press(center(g.actions[0])))
	layers := p.eng.Layers()
	if len(layers) != 2 || !layers[1].Active {
		t.Fatalf("layers after add = %+v", layers)
	}

	g = newLayerGeometry(p.layout, layers)
	bottom := g.rows[1]
	p.pointer(press(center(bottom.eye)))
	if p.eng.Layers()[0].Visible {
		t.Fatal("eye toggle did not hide the bottom layer")
	}
	p.pointer(press(center(bottom.rect)))
	if p.eng.ActiveLayer() != bottom.info.ID {
		t.Fatalf("active = %s, want %s", p.eng.ActiveLayer(), bottom.info.ID)
	}
	p.keyPress(typed(']'))
	p.keyPress(typed('['))
	if got := p.eng.Layers()[0].Opacity; got < 0.89 || got > 0.91 {
		t.Fatalf("opacity = %v, want 0.9", got)
	}
}

func TestStatusShortcutTriggersAction(t *testing.T) {
	p := newTestPad(t)
	stroke(p, 100)
	scs := statusShortcuts(p.layout, 1, false, nil)
	p.pointer(press(center(scs[0].Rect())))
	if n := p.eng.Snapshot().StrokeCount(); n != 0 {
		t.Fatalf("status undo left %d strokes", n)
	}
}

func TestPainterDrawsStroke(t *testing.T) {
	p := newTestPad(t)
	stroke(p, 100)
	dst := image.NewRGBA(image.Rect(0, 0, 800, 600))
	if !newPainter().paint(context.Background(), dst, p.paintState()) {
		t.Fatal("paint reported cancellation")
	}
	x := p.layout.page.Min.X + 150
	if c := dst.RGBAAt(x, 100); c.R > 10 || c.A != 255 {
		t.Fatalf("stroke pixel = %v, want black", c)
	}
	if c := dst.RGBAAt(x, 200); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Fatalf("paper pixel = %v, want white", c)
	}
}

func TestPaintStopsWhenCanceled(t *testing.T) {
	p := newTestPad(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if newPainter().paint(ctx, image.NewRGBA(image.Rect(0, 0, 800, 600)), p.paintState()) {
		t.Fatal("canceled paint reported success")
	}
}

func TestFitLabel(t *testing.T) {
	if got := fitLabel("Layer 1", 200); got != "Layer 1" {
		t.Fatalf("fitLabel = %q", got)
	}
	got := fitLabel("A very long layer name", 50)
	if measureLabel(got) > 50 || got[len(got)-1] != '~' {
		t.Fatalf("fitLabel = %q", got)
	}
}

func TestSaveWritesDocumentAndPNG(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pad.json")
	a, err := New(WithOutput(out), WithEngineOptions(engine.WithCanvasSize(40, 30)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.notifyClose)
	if _, err := a.Engine().AddLayer("ink"); err != nil {
		t.Fatalf("add layer: %v", err)
	}
	path, err := a.save()
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if path != out {
		t.Fatalf("saved to %s", path)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	doc, err := portable.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Layers) != 2 {
		t.Fatalf("saved %d layers", len(doc.Layers))
	}
	png, err := os.ReadFile(PNGPath(out))
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if string(png[1:4]) != "PNG" {
		t.Fatal("png file has no PNG signature")
	}
}

func TestSaveWithoutOutput(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.notifyClose)
	if _, err := a.save(); err == nil {
		t.Fatal("expected an error without an output path")
	}
}

func TestMalformedDocumentStartsFresh(t *testing.T) {
	a, err := New(WithDocument(&portable.PortableDocument{Version: 99}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.notifyClose)
	var pe *portable.ParseError
	if !errors.As(a.OpenError(), &pe) {
		t.Fatalf("OpenError = %v, want *portable.ParseError", a.OpenError())
	}
	if n := len(a.Engine().Layers()); n != 1 {
		t.Fatalf("fresh engine has %d layers", n)
	}
}

func TestPNGPath(t *testing.T) {
	for in, want := range map[string]string{
		"pad.json":     "pad.png",
		"dir/notes":    "dir/notes.png",
		"a.b/pad.json": "a.b/pad.png",
	} {
		if got := PNGPath(in); got != want {
			t.Errorf("PNGPath(%q) = %q, want %q", in, got, want)
		}
	}
}
