// Package document holds the in-memory model of a writing pad: an ordered
// stack of layers holding strokes, plus document-global text annotations.
//
// The types here are plain data. Mutation rules (locked layers, history,
// repaint) live in the engine package.
package document

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSize is returned when a document is created with a non-positive
// or non-finite canvas size.
var ErrInvalidSize = errors.New("canvas width and height must be positive")

// Point is a position in logical document coordinates.
type Point struct {
	X float64
	Y float64
}

// Stroke is one continuous pen, highlighter or eraser gesture.
type Stroke struct {
	ID      string
	Points  []Point
	Color   Color // ignored when Tool is ToolEraser
	Width   float64
	Tool    ToolKind
	Opacity float64
}

// ElementID implements Element.
func (s Stroke) ElementID() string { return s.ID }

func (Stroke) isElement() {}

// Clone returns a deep copy of s.
func (s Stroke) Clone() Stroke {
	out := s
	out.Points = append([]Point(nil), s.Points...)
	return out
}

// Equal reports whether s and o describe the same stroke.
func (s Stroke) Equal(o Stroke) bool {
	if s.ID != o.ID || s.Color != o.Color || s.Width != o.Width || s.Tool != o.Tool || s.Opacity != o.Opacity {
		return false
	}
	if len(s.Points) != len(o.Points) {
		return false
	}
	for i := range s.Points {
		if s.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}

// TextStyle configures how a text element is drawn.
type TextStyle struct {
	FontSize   float64
	Color      Color
	FontFamily string
}

// TextElement is a document-global text annotation. Position is the left end
// of the text baseline.
type TextElement struct {
	ID       string
	Position Point
	Text     string
	TextStyle
}

// ElementID implements Element.
func (t TextElement) ElementID() string { return t.ID }

func (TextElement) isElement() {}

// Element is the closed set of things a document draws: Stroke and
// TextElement.
type Element interface {
	ElementID() string
	isElement()
}

// Layer is an independently visible, lockable and opacity-scaled collection
// of strokes. Stroke order is z-order within the layer.
type Layer struct {
	ID      string
	Name    string
	Visible bool
	Locked  bool
	Opacity float64
	Strokes []Stroke
}

// NewLayer returns a visible, unlocked, fully opaque empty layer.
func NewLayer(id, name string) Layer {
	return Layer{ID: id, Name: name, Visible: true, Opacity: 1}
}

// Clone returns a deep copy of l.
func (l Layer) Clone() Layer {
	out := l
	if l.Strokes != nil {
		out.Strokes = make([]Stroke, len(l.Strokes))
		for i, s := range l.Strokes {
			out.Strokes[i] = s.Clone()
		}
	}
	return out
}

// Equal reports whether l and o have the same properties and strokes.
func (l Layer) Equal(o Layer) bool {
	if l.ID != o.ID || l.Name != o.Name || l.Visible != o.Visible || l.Locked != o.Locked || l.Opacity != o.Opacity {
		return false
	}
	if len(l.Strokes) != len(o.Strokes) {
		return false
	}
	for i := range l.Strokes {
		if !l.Strokes[i].Equal(o.Strokes[i]) {
			return false
		}
	}
	return true
}

// Document is the live, mutable state of one editing session.
//
// Width and Height never change after New. Zoom and Pan describe the view
// transform only; stored coordinates are always logical.
type Document struct {
	Width  float64
	Height float64
	Zoom   float64
	Pan    Point
	Layers []Layer
	Texts  []TextElement
}

// New returns an empty document of the given logical size with no layers.
func New(width, height float64) (*Document, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("%w: got %gx%g", ErrInvalidSize, width, height)
	}
	return &Document{Width: width, Height: height, Zoom: 1}, nil
}

// LayerIndex returns the position of the layer with the given id, or -1.
func (d *Document) LayerIndex(id string) int {
	for i := range d.Layers {
		if d.Layers[i].ID == id {
			return i
		}
	}
	return -1
}

// Layer returns the layer with the given id, or nil.
func (d *Document) Layer(id string) *Layer {
	if i := d.LayerIndex(id); i >= 0 {
		return &d.Layers[i]
	}
	return nil
}

// TextIndex returns the position of the text element with the given id, or -1.
func (d *Document) TextIndex(id string) int {
	for i := range d.Texts {
		if d.Texts[i].ID == id {
			return i
		}
	}
	return -1
}

// Top returns the topmost layer, or nil for a document without layers.
func (d *Document) Top() *Layer {
	if len(d.Layers) == 0 {
		return nil
	}
	return &d.Layers[len(d.Layers)-1]
}

// Snapshot takes a structural copy of the document's content.
func (d *Document) Snapshot() Snapshot {
	return newSnapshot(d.Width, d.Height, d.Layers, d.Texts)
}

// Restore replaces the document's content with a copy of s. The view
// transform is left untouched.
func (d *Document) Restore(s Snapshot) {
	c := s.Clone()
	d.Layers = c.Layers
	d.Texts = c.Texts
}

// Elements lists the document's content in draw order: every layer's strokes
// bottom to top, then the text elements.
func (d *Document) Elements() []Element {
	var out []Element
	for _, l := range d.Layers {
		for _, s := range l.Strokes {
			out = append(out, s)
		}
	}
	for _, t := range d.Texts {
		out = append(out, t)
	}
	return out
}
