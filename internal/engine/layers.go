package engine

import (
	"fmt"
	"math"

	"github.com/example/writingpad/internal/document"
)

// LayerInfo describes one layer without exposing its strokes.
type LayerInfo struct {
	ID      string
	Name    string
	Visible bool
	Locked  bool
	Opacity float64
	Strokes int
	Active  bool
}

// Layers lists layers bottom to top.
func (e *Engine) Layers() []LayerInfo {
	if e.closed {
		return nil
	}
	out := make([]LayerInfo, len(e.doc.Layers))
	for i, l := range e.doc.Layers {
		out[i] = LayerInfo{
			ID:      l.ID,
			Name:    l.Name,
			Visible: l.Visible,
			Locked:  l.Locked,
			Opacity: l.Opacity,
			Strokes: len(l.Strokes),
			Active:  l.ID == e.active,
		}
	}
	return out
}

// ActiveLayer returns the id of the layer new strokes go to.
func (e *Engine) ActiveLayer() string { return e.active }

// AddLayer puts a new empty layer on top and makes it active. An empty name
// becomes "Layer N".
func (e *Engine) AddLayer(name string) (string, error) {
	if e.closed {
		return "", ErrClosed
	}
	e.layerSerial++
	if name == "" {
		name = fmt.Sprintf("Layer %d", e.layerSerial)
	}
	l := document.NewLayer(e.opts.ids(), name)
	e.doc.Layers = append(e.doc.Layers, l)
	e.active = l.ID
	e.commit()
	return l.ID, nil
}

// RemoveLayer deletes a layer. When the active layer goes, the topmost
// remaining one takes over; removing the last layer leaves a fresh empty one.
func (e *Engine) RemoveLayer(id string) error {
	if e.closed {
		return ErrClosed
	}
	i := e.doc.LayerIndex(id)
	if i < 0 {
		return e.unknownLayer("remove layer", id)
	}
	e.doc.Layers = append(e.doc.Layers[:i], e.doc.Layers[i+1:]...)
	if len(e.doc.Layers) == 0 {
		e.appendDefaultLayer()
	}
	if e.active == id {
		e.active = e.doc.Top().ID
	}
	e.commit()
	return nil
}

// SetActiveLayer selects the layer new strokes go to. It is not a document
// mutation and records nothing.
func (e *Engine) SetActiveLayer(id string) error {
	if e.closed {
		return ErrClosed
	}
	if e.doc.LayerIndex(id) < 0 {
		return e.unknownLayer("set active layer", id)
	}
	if e.pending != nil && id != e.pendingOn {
		e.finish("layer switch")
	}
	e.active = id
	e.repaint()
	return nil
}

func (e *Engine) SetLayerVisible(id string, visible bool) error {
	return e.updateLayer("set layer visible", id, func(l *document.Layer) bool {
		if l.Visible == visible {
			return false
		}
		l.Visible = visible
		return true
	})
}

// SetLayerLocked toggles the lock. A locked layer rejects new strokes but is
// still drawn.
func (e *Engine) SetLayerLocked(id string, locked bool) error {
	return e.updateLayer("set layer locked", id, func(l *document.Layer) bool {
		if l.Locked == locked {
			return false
		}
		l.Locked = locked
		return true
	})
}

// SetLayerOpacity clamps v into [0, 1]. NaN is rejected.
func (e *Engine) SetLayerOpacity(id string, v float64) error {
	if math.IsNaN(v) {
		return invalid("layer opacity", v, "not a number")
	}
	v = math.Max(0, math.Min(1, v))
	return e.updateLayer("set layer opacity", id, func(l *document.Layer) bool {
		if l.Opacity == v {
			return false
		}
		l.Opacity = v
		return true
	})
}

func (e *Engine) RenameLayer(id, name string) error {
	if name == "" {
		return invalid("layer name", name, "must not be empty")
	}
	return e.updateLayer("rename layer", id, func(l *document.Layer) bool {
		if l.Name == name {
			return false
		}
		l.Name = name
		return true
	})
}

// MoveLayer moves a layer to index in the bottom-to-top order. The index is
// clamped to the valid range.
func (e *Engine) MoveLayer(id string, index int) error {
	if e.closed {
		return ErrClosed
	}
	i := e.doc.LayerIndex(id)
	if i < 0 {
		return e.unknownLayer("move layer", id)
	}
	index = max(0, min(index, len(e.doc.Layers)-1))
	if index == i {
		return nil
	}
	l := e.doc.Layers[i]
	layers := append(e.doc.Layers[:i:i], e.doc.Layers[i+1:]...)
	layers = append(layers[:index], append([]document.Layer{l}, layers[index:]...)...)
	e.doc.Layers = layers
	e.commit()
	return nil
}

// updateLayer applies fn to a layer and records a snapshot when fn reports
// a change.
func (e *Engine) updateLayer(op, id string, fn func(*document.Layer) bool) error {
	if e.closed {
		return ErrClosed
	}
	l := e.doc.Layer(id)
	if l == nil {
		return e.unknownLayer(op, id)
	}
	if fn(l) {
		e.commit()
	}
	return nil
}

func (e *Engine) unknownLayer(op, id string) error {
	e.log.Warn("unknown layer", "op", op, "layer", id)
	return ErrUnknownLayer
}
