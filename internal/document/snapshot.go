package document

// Snapshot is a copy of a document's layers and text elements taken at a
// committed mutation.
//
// Snapshots are treated as values: every producer deep-copies, and holders
// must not modify the slices they expose. The canvas size travels with the
// snapshot so renderers and exporters need nothing else.
type Snapshot struct {
	Width  float64
	Height float64
	Layers []Layer
	Texts  []TextElement
}

func newSnapshot(width, height float64, layers []Layer, texts []TextElement) Snapshot {
	s := Snapshot{Width: width, Height: height}
	if layers != nil {
		s.Layers = make([]Layer, len(layers))
		for i, l := range layers {
			s.Layers[i] = l.Clone()
		}
	}
	if texts != nil {
		s.Texts = append([]TextElement(nil), texts...)
	}
	return s
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	return newSnapshot(s.Width, s.Height, s.Layers, s.Texts)
}

// Layer returns the layer with the given id.
func (s Snapshot) Layer(id string) (Layer, bool) {
	for _, l := range s.Layers {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// StrokeCount returns the number of strokes across all layers.
func (s Snapshot) StrokeCount() int {
	n := 0
	for _, l := range s.Layers {
		n += len(l.Strokes)
	}
	return n
}

// Equal reports whether s and o hold identical content. Nil and empty slices
// compare equal.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Width != o.Width || s.Height != o.Height {
		return false
	}
	if len(s.Layers) != len(o.Layers) || len(s.Texts) != len(o.Texts) {
		return false
	}
	for i := range s.Layers {
		if !s.Layers[i].Equal(o.Layers[i]) {
			return false
		}
	}
	for i := range s.Texts {
		if s.Texts[i] != o.Texts[i] {
			return false
		}
	}
	return true
}
