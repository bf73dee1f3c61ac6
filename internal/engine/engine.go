// Package engine is the writing pad instance: it owns the live document,
// records strokes from pointer input, manages layers and text, keeps undo
// history and produces exports.
//
// An Engine is not safe for concurrent use. Every method runs synchronously
// and in call order; scenes handed to the repaint callback are immutable and
// may be passed to another goroutine.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/example/writingpad/internal/compositor"
	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/history"
	"github.com/example/writingpad/internal/pdfexport"
	"github.com/example/writingpad/internal/portable"
	"github.com/example/writingpad/internal/render"
	"github.com/example/writingpad/internal/viewport"
)

type Engine struct {
	opts options
	log  *slog.Logger

	doc    *document.Document
	hist   *history.History
	active string

	origin document.Point
	dpr    float64

	tool      document.ToolKind
	color     document.Color
	width     float64
	opacities [3]float64

	pending     *document.Stroke
	pendingOn   string
	layerSerial int

	closed bool
}

// Open starts an engine. With initial content the document is rebuilt from
// it, and a malformed document yields its *portable.ParseError. Without it
// a fresh canvas with one empty layer named "Layer 1" is created.
func Open(initial *portable.PortableDocument, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.penWidth > 0) || math.IsInf(o.penWidth, 0) {
		return nil, invalid("pen width", o.penWidth, "must be a positive number")
	}
	if !(o.penOpacity >= 0 && o.penOpacity <= 1) {
		return nil, invalid("pen opacity", o.penOpacity, "must be within [0, 1]")
	}
	e := &Engine{
		opts:  o,
		log:   o.logger,
		dpr:   1,
		tool:  document.ToolPen,
		color: o.penColor,
		width: o.penWidth,
	}
	if e.log == nil {
		e.log = Logger()
	}
	e.opacities[document.ToolPen] = o.penOpacity
	e.opacities[document.ToolEraser] = 1
	e.opacities[document.ToolHighlighter] = DefaultHighlighterOpacity

	if initial != nil {
		snap, meta, err := portable.Deserialize(*initial)
		if err != nil {
			return nil, err
		}
		doc, err := document.New(snap.Width, snap.Height)
		if err != nil {
			return nil, err
		}
		doc.Restore(snap)
		if meta.Zoom > 0 {
			doc.Zoom = viewport.ClampZoom(meta.Zoom)
			doc.Pan = meta.Pan
		}
		e.doc = doc
		e.active = meta.ActiveLayerID
		e.layerSerial = len(doc.Layers)
	} else {
		doc, err := document.New(o.width, o.height)
		if err != nil {
			return nil, invalid("canvas size", fmt.Sprintf("%gx%g", o.width, o.height), "must be positive")
		}
		e.doc = doc
		e.appendDefaultLayer()
	}
	if e.active == "" {
		e.active = e.doc.Top().ID
	}
	e.hist = history.New(e.doc.Snapshot(), history.WithLimit(o.historyLimit))
	e.log.Info("engine opened",
		"width", e.doc.Width, "height", e.doc.Height,
		"layers", len(e.doc.Layers), "restored", initial != nil)
	e.repaint()
	return e, nil
}

// OpenOrFresh opens initial and, when it is malformed, falls back to a fresh
// empty document. The parse error is returned alongside the usable engine.
func OpenOrFresh(initial *portable.PortableDocument, opts ...Option) (*Engine, error) {
	e, err := Open(initial, opts...)
	if err == nil {
		return e, nil
	}
	var pe *portable.ParseError
	if !errors.As(err, &pe) {
		return nil, err
	}
	fresh, ferr := Open(nil, opts...)
	if ferr != nil {
		return nil, ferr
	}
	fresh.log.Warn("initial document rejected, starting fresh", "error", err)
	return fresh, err
}

// Close discards the document and any pending stroke. Nothing is saved.
func (e *Engine) Close() error {
	if e.closed {
		return ErrClosed
	}
	if e.pending != nil {
		e.log.Debug("pending stroke discarded on close", "points", len(e.pending.Points))
	}
	e.pending = nil
	e.doc = nil
	e.hist = nil
	e.closed = true
	e.log.Info("engine closed")
	return nil
}

func (e *Engine) appendDefaultLayer() string {
	e.layerSerial++
	l := document.NewLayer(e.opts.ids(), fmt.Sprintf("Layer %d", e.layerSerial))
	e.doc.Layers = append(e.doc.Layers, l)
	return l.ID
}

// commit records the live document as a new history entry and repaints.
func (e *Engine) commit() {
	e.hist.Record(e.doc.Snapshot())
	e.repaint()
}

func (e *Engine) repaint() {
	if e.opts.repaint != nil {
		e.opts.repaint(e.Scene())
	}
}

// Scene returns everything needed to draw the current state, including the
// pending stroke previewed on the layer it will be committed to. The
// snapshot is a copy the caller may keep.
func (e *Engine) Scene() compositor.Scene {
	if e.closed {
		return compositor.Scene{}
	}
	s := compositor.Scene{
		Snapshot:      e.hist.Current().Clone(),
		ActiveLayerID: e.active,
		Grid:          e.opts.grid,
	}
	if e.pending != nil {
		p := e.pending.Clone()
		s.Pending = &p
		s.ActiveLayerID = e.pendingOn
	}
	return s
}

// Snapshot returns a copy of the last committed state.
func (e *Engine) Snapshot() document.Snapshot {
	if e.closed {
		return document.Snapshot{}
	}
	return e.hist.Current().Clone()
}

// Undo restores the previous snapshot. It reports false when there was
// nothing to undo. A stroke in progress is abandoned.
func (e *Engine) Undo() (bool, error) {
	return e.step(e.hist.Undo, "undo")
}

// Redo re-applies the most recently undone snapshot.
func (e *Engine) Redo() (bool, error) {
	return e.step(e.hist.Redo, "redo")
}

func (e *Engine) step(fn func() (document.Snapshot, bool), what string) (bool, error) {
	if e.closed {
		return false, ErrClosed
	}
	s, ok := fn()
	if !ok {
		return false, nil
	}
	if e.pending != nil {
		e.log.Debug("pending stroke abandoned", "by", what)
		e.pending = nil
	}
	e.doc.Restore(s)
	if e.doc.LayerIndex(e.active) < 0 {
		e.active = e.doc.Top().ID
	}
	e.repaint()
	return true, nil
}

func (e *Engine) CanUndo() bool { return !e.closed && e.hist.CanUndo() }
func (e *Engine) CanRedo() bool { return !e.closed && e.hist.CanRedo() }

// Clear empties every unlocked layer and removes all text. Layers are kept.
func (e *Engine) Clear() error {
	if e.closed {
		return ErrClosed
	}
	changed := len(e.doc.Texts) > 0
	e.doc.Texts = nil
	for i := range e.doc.Layers {
		l := &e.doc.Layers[i]
		if l.Locked || len(l.Strokes) == 0 {
			continue
		}
		l.Strokes = nil
		changed = true
	}
	if changed {
		e.commit()
	}
	return nil
}

// Viewport returns the current view transform.
func (e *Engine) Viewport() viewport.Viewport {
	if e.closed {
		return viewport.Viewport{}
	}
	v := viewport.ForDocument(e.doc)
	v.Origin = e.origin
	v.DevicePixelRatio = e.dpr
	return v
}

// SetSurface describes where the drawing surface sits and how many device
// pixels make up one device-independent pixel.
func (e *Engine) SetSurface(origin document.Point, dpr float64) error {
	if e.closed {
		return ErrClosed
	}
	v := e.Viewport()
	v.Origin, v.DevicePixelRatio = origin, dpr
	if err := v.Validate(); err != nil {
		return invalid("surface", dpr, err.Error())
	}
	e.origin, e.dpr = origin, dpr
	return nil
}

func (e *Engine) setView(v viewport.Viewport) {
	e.doc.Zoom, e.doc.Pan = v.Zoom, v.Pan
	e.repaint()
}

// SetZoom sets the zoom factor, clamped to the supported range.
func (e *Engine) SetZoom(z float64) error {
	if e.closed {
		return ErrClosed
	}
	if !(z > 0) || math.IsInf(z, 0) {
		return invalid("zoom", z, "must be a positive number")
	}
	v := e.Viewport()
	v.Zoom = viewport.ClampZoom(z)
	e.setView(v)
	return nil
}

func (e *Engine) SetPan(x, y float64) error {
	if e.closed {
		return ErrClosed
	}
	if !finite(x) || !finite(y) {
		return invalid("pan", document.Point{X: x, Y: y}, "must be finite")
	}
	v := e.Viewport()
	v.Pan = document.Point{X: x, Y: y}
	e.setView(v)
	return nil
}

// ZoomAt zooms by factor around a device position.
func (e *Engine) ZoomAt(factor, deviceX, deviceY float64) error {
	if e.closed {
		return ErrClosed
	}
	if !(factor > 0) || math.IsInf(factor, 0) {
		return invalid("zoom factor", factor, "must be a positive number")
	}
	e.setView(e.Viewport().ZoomAt(factor, deviceX, deviceY))
	return nil
}

// PanBy shifts the view by a device-pixel delta.
func (e *Engine) PanBy(dx, dy float64) error {
	if e.closed {
		return ErrClosed
	}
	if !finite(dx) || !finite(dy) {
		return invalid("pan delta", document.Point{X: dx, Y: dy}, "must be finite")
	}
	e.setView(e.Viewport().PanBy(dx, dy))
	return nil
}

// ExportRaster renders the committed state as PNG at scale times the
// logical canvas size. Pending strokes and the grid are not included.
func (e *Engine) ExportRaster(scale float64) ([]byte, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, invalid("scale", scale, "must be a positive number")
	}
	return render.Rasterize(e.hist.Current(), render.RasterOptions{Scale: scale, Background: e.opts.background})
}

// ExportPDF writes the committed state as a vector PDF.
func (e *Engine) ExportPDF(w io.Writer, opts pdfexport.Options) error {
	if e.closed {
		return ErrClosed
	}
	return pdfexport.Write(w, e.hist.Current(), opts)
}

// Serialize returns the portable form of the committed state and view.
func (e *Engine) Serialize() (portable.PortableDocument, error) {
	if e.closed {
		return portable.PortableDocument{}, ErrClosed
	}
	return portable.Serialize(e.hist.Current(), portable.Meta{
		ActiveLayerID: e.active,
		Zoom:          e.doc.Zoom,
		Pan:           e.doc.Pan,
	}), nil
}

// Save produces both exports and hands them to the save callback.
func (e *Engine) Save(scale float64) (SaveResult, error) {
	png, err := e.ExportRaster(scale)
	if err != nil {
		return SaveResult{}, err
	}
	doc, err := e.Serialize()
	if err != nil {
		return SaveResult{}, err
	}
	res := SaveResult{PNG: png, Portable: doc, Snapshot: e.hist.Current()}
	e.log.Info("saved", "bytes", len(png), "strokes", res.Snapshot.StrokeCount())
	if e.opts.onSave != nil {
		e.opts.onSave(res)
	}
	return res, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
