package compositor

import (
	"fmt"
	"strings"
	"testing"

	"github.com/example/writingpad/internal/document"
)

// recorder captures the primitive calls made by Compose.
type recorder struct {
	ops []string
}

func (r *recorder) Clear()                              { r.ops = append(r.ops, "clear") }
func (r *recorder) PushLayer(opacity float64)           { r.ops = append(r.ops, fmt.Sprintf("push %.2f", opacity)) }
func (r *recorder) PopLayer()                           { r.ops = append(r.ops, "pop") }
func (r *recorder) SetCompositeMode(mode CompositeMode) { r.ops = append(r.ops, "mode "+mode.String()) }
func (r *recorder) StrokePolyline(points []document.Point, style StrokeStyle) {
	r.ops = append(r.ops, fmt.Sprintf("stroke %s n=%d a=%.2f", style.Tool, len(points), style.Opacity))
}
func (r *recorder) DrawText(t document.TextElement) {
	r.ops = append(r.ops, fmt.Sprintf("text %s a=%d", t.Text, t.Color.A))
}

func stroke(id string, tool document.ToolKind, opacity float64) document.Stroke {
	return document.Stroke{
		ID:      id,
		Points:  []document.Point{{X: 1, Y: 1}, {X: 5, Y: 5}},
		Color:   document.Color{R: 255, A: 255},
		Width:   2,
		Tool:    tool,
		Opacity: opacity,
	}
}

func twoLayerSnapshot() document.Snapshot {
	bottom := document.NewLayer("a", "A")
	bottom.Strokes = []document.Stroke{stroke("s1", document.ToolPen, 0.9)}
	top := document.NewLayer("b", "B")
	top.Opacity = 0.5
	top.Strokes = []document.Stroke{stroke("s2", document.ToolPen, 1), stroke("s3", document.ToolEraser, 1)}
	return document.Snapshot{
		Width:  10,
		Height: 10,
		Layers: []document.Layer{bottom, top},
		Texts: []document.TextElement{{
			ID:        "t",
			Text:      "note",
			TextStyle: document.TextStyle{FontSize: 10, Color: document.Color{A: 40}},
		}},
	}
}

func assertOps(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected ops\n got: %q\nwant: %q", got, want)
	}
}

func TestComposeOrder(t *testing.T) {
	r := &recorder{}
	Compose(r, Scene{Snapshot: twoLayerSnapshot(), ActiveLayerID: "b"})
	assertOps(t, r.ops,
		"clear",
		"push 1.00",
		"mode normal", "stroke pen n=2 a=0.90",
		"pop",
		"push 0.50",
		"mode normal", "stroke pen n=2 a=1.00",
		"mode erase", "stroke eraser n=2 a=1.00",
		"pop",
		"mode normal",
		"text note a=255",
	)
}

func TestComposeSkipsHiddenLayers(t *testing.T) {
	snap := twoLayerSnapshot()
	snap.Layers[0].Visible = false
	r := &recorder{}
	Compose(r, Scene{Snapshot: snap, ActiveLayerID: "b"})
	for _, op := range r.ops {
		if op == "stroke pen n=2 a=0.90" {
			t.Fatal("hidden layer was drawn")
		}
	}
}

func TestComposePendingPenDrawnOnTop(t *testing.T) {
	p := stroke("p", document.ToolHighlighter, 0.35)
	r := &recorder{}
	Compose(r, Scene{Snapshot: twoLayerSnapshot(), ActiveLayerID: "a", Pending: &p})
	n := len(r.ops)
	want := []string{"push 1.00", "mode normal", "stroke highlighter n=2 a=0.35", "pop", "mode normal", "text note a=255"}
	assertOps(t, r.ops[n-len(want):], want...)
}

func TestComposePendingEraserStaysInActiveLayer(t *testing.T) {
	p := stroke("p", document.ToolEraser, 1)
	r := &recorder{}
	Compose(r, Scene{Snapshot: twoLayerSnapshot(), ActiveLayerID: "a", Pending: &p})
	assertOps(t, r.ops[:6],
		"clear",
		"push 1.00",
		"mode normal", "stroke pen n=2 a=0.90",
		"mode erase", "stroke eraser n=2 a=1.00",
	)
	if r.ops[6] != "pop" {
		t.Fatalf("pending eraser escaped the active layer: %q", r.ops)
	}
}

func TestComposePendingOnHiddenLayerNotDrawn(t *testing.T) {
	snap := twoLayerSnapshot()
	snap.Layers[1].Visible = false
	p := stroke("p", document.ToolPen, 1)
	r := &recorder{}
	Compose(r, Scene{Snapshot: snap, ActiveLayerID: "b", Pending: &p})
	for _, op := range r.ops {
		if op == "stroke pen n=2 a=1.00" {
			t.Fatal("pending stroke drawn for a hidden active layer")
		}
	}
}

func TestComposeGrid(t *testing.T) {
	r := &recorder{}
	snap := document.Snapshot{Width: 10, Height: 10}
	Compose(r, Scene{Snapshot: snap, Grid: &Grid{Spacing: 4}})
	strokes := 0
	for _, op := range r.ops {
		if strings.HasPrefix(op, "stroke") {
			strokes++
		}
	}
	// x = 4, 8 and y = 4, 8
	if strokes != 4 {
		t.Fatalf("grid drew %d lines, want 4", strokes)
	}
}
