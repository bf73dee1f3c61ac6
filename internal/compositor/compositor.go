// Package compositor repaints a writing pad from its document model.
//
// The algorithm only talks to a Renderer, a handful of 2D primitives that any
// raster or vector backend can provide. Every call to Compose redraws the
// whole scene from the snapshot it is given; nothing is cached between
// frames, so undo, redo and visibility toggles need no invalidation.
package compositor

import (
	"fmt"

	"github.com/example/writingpad/internal/document"
)

// CompositeMode selects how subsequent strokes combine with the current
// layer buffer.
type CompositeMode uint8

const (
	// ModeNormal paints source-over.
	ModeNormal CompositeMode = iota
	// ModeErase removes alpha from the current layer buffer in proportion to
	// the stroke's coverage and opacity.
	ModeErase
)

func (m CompositeMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeErase:
		return "erase"
	}
	return fmt.Sprintf("CompositeMode(%d)", uint8(m))
}

// StrokeStyle carries everything a backend needs to draw one polyline.
type StrokeStyle struct {
	Color   document.Color
	Width   float64
	Opacity float64
	Tool    document.ToolKind
}

// StyleOf returns the style a stroke is drawn with.
func StyleOf(s document.Stroke) StrokeStyle {
	return StrokeStyle{Color: s.Color, Width: s.Width, Opacity: s.Opacity, Tool: s.Tool}
}

// Renderer is the drawing surface the compositor paints on.
//
// PushLayer starts an isolated, initially transparent buffer; PopLayer
// composites it onto the buffer below using the opacity given to PushLayer.
// Erase mode must only affect the innermost pushed buffer.
type Renderer interface {
	Clear()
	PushLayer(opacity float64)
	PopLayer()
	SetCompositeMode(mode CompositeMode)
	StrokePolyline(points []document.Point, style StrokeStyle)
	DrawText(text document.TextElement)
}

// Grid configures the cosmetic background grid.
type Grid struct {
	Spacing float64
	Color   document.Color
}

// Scene is everything one repaint needs.
type Scene struct {
	Snapshot document.Snapshot
	// Pending is the in-progress stroke, nil when idle.
	Pending       *document.Stroke
	ActiveLayerID string
	// Grid is drawn beneath all layers when non-nil.
	Grid *Grid
}

// Compose repaints scene onto r.
//
// Visible layers are drawn bottom to top, each in its own pushed buffer so
// erasers stay local to their layer and layer opacity multiplies whatever
// opacity the strokes already carry. A pending eraser is applied inside the
// active layer's pass; any other pending stroke is drawn above all layers
// with the active layer's opacity. Text elements come last, fully opaque.
func Compose(r Renderer, scene Scene) {
	r.Clear()
	if scene.Grid != nil {
		drawGrid(r, scene.Snapshot.Width, scene.Snapshot.Height, *scene.Grid)
	}

	pending := scene.Pending
	if pending != nil && len(pending.Points) == 0 {
		pending = nil
	}
	active, haveActive := scene.Snapshot.Layer(scene.ActiveLayerID)
	if !haveActive || !active.Visible {
		pending = nil
	}

	for _, l := range scene.Snapshot.Layers {
		if !l.Visible {
			continue
		}
		r.PushLayer(l.Opacity)
		for _, s := range l.Strokes {
			drawStroke(r, s)
		}
		if pending != nil && pending.Tool == document.ToolEraser && l.ID == active.ID {
			drawStroke(r, *pending)
		}
		r.PopLayer()
	}

	if pending != nil && pending.Tool != document.ToolEraser {
		r.PushLayer(active.Opacity)
		drawStroke(r, *pending)
		r.PopLayer()
	}

	r.SetCompositeMode(ModeNormal)
	for _, t := range scene.Snapshot.Texts {
		t.Color = t.Color.Opaque()
		r.DrawText(t)
	}
}

func drawStroke(r Renderer, s document.Stroke) {
	if len(s.Points) == 0 {
		return
	}
	if s.Tool == document.ToolEraser {
		r.SetCompositeMode(ModeErase)
	} else {
		r.SetCompositeMode(ModeNormal)
	}
	r.StrokePolyline(s.Points, StyleOf(s))
}

func drawGrid(r Renderer, width, height float64, g Grid) {
	if !(g.Spacing > 0) {
		return
	}
	style := StrokeStyle{Color: g.Color, Width: 1, Opacity: 1, Tool: document.ToolPen}
	r.SetCompositeMode(ModeNormal)
	for x := g.Spacing; x < width; x += g.Spacing {
		r.StrokePolyline([]document.Point{{X: x, Y: 0}, {X: x, Y: height}}, style)
	}
	for y := g.Spacing; y < height; y += g.Spacing {
		r.StrokePolyline([]document.Point{{X: 0, Y: y}, {X: width, Y: y}}, style)
	}
}
