package engine

import (
	"math"

	"github.com/example/writingpad/internal/document"
)

// Drawing reports whether a stroke is in progress.
func (e *Engine) Drawing() bool { return e.pending != nil }

// Begin starts a stroke at logical (x, y) with the current tool settings.
// Starting while already drawing ends the previous stroke first. On a
// locked active layer nothing happens and no error is returned.
func (e *Engine) Begin(x, y float64) error {
	if e.closed {
		return ErrClosed
	}
	if !finite(x) || !finite(y) {
		return invalid("point", document.Point{X: x, Y: y}, "must be finite")
	}
	if e.pending != nil {
		e.finish("restart")
	}
	l := e.doc.Layer(e.active)
	if l == nil {
		e.log.Warn("begin without an active layer", "layer", e.active)
		return ErrUnknownLayer
	}
	if l.Locked {
		e.log.Debug("stroke rejected on locked layer", "layer", l.ID)
		return nil
	}
	e.pending = &document.Stroke{
		ID:      e.opts.ids(),
		Points:  []document.Point{e.clampPoint(x, y)},
		Color:   e.color,
		Width:   e.width,
		Tool:    e.tool,
		Opacity: e.opacities[e.tool],
	}
	e.pendingOn = l.ID
	e.repaint()
	return nil
}

// Move extends the stroke in progress. It is ignored while idle.
func (e *Engine) Move(x, y float64) error {
	if e.closed {
		return ErrClosed
	}
	if e.pending == nil {
		return nil
	}
	if !finite(x) || !finite(y) {
		return invalid("point", document.Point{X: x, Y: y}, "must be finite")
	}
	e.pending.Points = append(e.pending.Points, e.clampPoint(x, y))
	e.repaint()
	return nil
}

// End commits the stroke in progress. A stroke with a single point is
// dropped without touching history.
func (e *Engine) End() error {
	if e.closed {
		return ErrClosed
	}
	if e.pending != nil {
		e.finish("end")
	}
	return nil
}

// Leave is reported when the pointer leaves the surface. It behaves
// exactly like End.
func (e *Engine) Leave() error { return e.End() }

// BeginDevice is Begin for raw device coordinates.
func (e *Engine) BeginDevice(deviceX, deviceY float64) error {
	if e.closed {
		return ErrClosed
	}
	return e.Begin(e.Viewport().ToLogical(deviceX, deviceY))
}

// MoveDevice is Move for raw device coordinates.
func (e *Engine) MoveDevice(deviceX, deviceY float64) error {
	if e.closed {
		return ErrClosed
	}
	return e.Move(e.Viewport().ToLogical(deviceX, deviceY))
}

func (e *Engine) finish(reason string) {
	s := *e.pending
	e.pending = nil
	if len(s.Points) < 2 {
		e.log.Debug("single point stroke discarded", "reason", reason)
		e.repaint()
		return
	}
	l := e.doc.Layer(e.pendingOn)
	if l == nil || l.Locked {
		e.log.Debug("stroke target no longer writable", "layer", e.pendingOn)
		e.repaint()
		return
	}
	l.Strokes = append(l.Strokes, s)
	e.commit()
}

func (e *Engine) clampPoint(x, y float64) document.Point {
	return document.Point{
		X: math.Max(0, math.Min(e.doc.Width, x)),
		Y: math.Max(0, math.Min(e.doc.Height, y)),
	}
}

// Tool returns the selected tool.
func (e *Engine) Tool() document.ToolKind { return e.tool }

// SetTool selects the tool used by the next stroke.
func (e *Engine) SetTool(t document.ToolKind) error {
	if e.closed {
		return ErrClosed
	}
	if !t.Valid() {
		return invalid("tool", t, "unknown tool")
	}
	e.tool = t
	return nil
}

// Color returns the stroke colour.
func (e *Engine) Color() document.Color { return e.color }

func (e *Engine) SetColor(c document.Color) error {
	if e.closed {
		return ErrClosed
	}
	e.color = c
	return nil
}

// Width returns the stroke width in logical units.
func (e *Engine) Width() float64 { return e.width }

func (e *Engine) SetWidth(w float64) error {
	if e.closed {
		return ErrClosed
	}
	if !(w > 0) || math.IsInf(w, 0) {
		return invalid("width", w, "must be a positive number")
	}
	e.width = w
	return nil
}

// StrokeOpacity returns the opacity the selected tool draws with.
func (e *Engine) StrokeOpacity() float64 { return e.opacities[e.tool] }

// SetStrokeOpacity sets the opacity for the selected tool. Each tool keeps
// its own value, so the highlighter stays translucent after switching back
// from the pen.
func (e *Engine) SetStrokeOpacity(o float64) error {
	if e.closed {
		return ErrClosed
	}
	if !(o >= 0 && o <= 1) {
		return invalid("opacity", o, "must be within [0, 1]")
	}
	e.opacities[e.tool] = o
	return nil
}
