// Package history keeps undo and redo stacks of document snapshots.
package history

import "github.com/example/writingpad/internal/document"

// History tracks the current snapshot plus the snapshots reachable through
// undo and redo. The zero value is not usable; call New.
type History struct {
	undo    []document.Snapshot
	redo    []document.Snapshot
	current document.Snapshot
	limit   int
}

// Option configures a History.
type Option func(*History)

// WithLimit caps the undo stack at n entries, dropping the oldest first.
// Zero or negative means unbounded.
func WithLimit(n int) Option { return func(h *History) { h.limit = n } }

// New returns a history whose current state is initial.
func New(initial document.Snapshot, opts ...Option) *History {
	h := &History{current: initial}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Current returns the snapshot matching the live document.
func (h *History) Current() document.Snapshot { return h.current }

// Record makes s the current snapshot. The previous one becomes undoable and
// the redo chain is dropped.
func (h *History) Record(s document.Snapshot) {
	h.undo = append(h.undo, h.current)
	if h.limit > 0 && len(h.undo) > h.limit {
		drop := len(h.undo) - h.limit
		clear(h.undo[:drop])
		h.undo = h.undo[drop:]
	}
	h.current = s
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Undo steps back one snapshot and returns it. It reports false, and changes
// nothing, when there is nothing to undo.
func (h *History) Undo() (document.Snapshot, bool) {
	if len(h.undo) == 0 {
		return h.current, false
	}
	h.redo = append(h.redo, h.current)
	h.current = h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = document.Snapshot{}
	h.undo = h.undo[:len(h.undo)-1]
	return h.current, true
}

// Redo re-applies the most recently undone snapshot.
func (h *History) Redo() (document.Snapshot, bool) {
	if len(h.redo) == 0 {
		return h.current, false
	}
	h.undo = append(h.undo, h.current)
	h.current = h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = document.Snapshot{}
	h.redo = h.redo[:len(h.redo)-1]
	return h.current, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }
