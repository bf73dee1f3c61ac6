package engine

import (
	"github.com/example/writingpad/internal/document"
)

// AddText places a text annotation with its baseline starting at logical
// (x, y). Text is drawn above every layer and is not affected by layer
// visibility, lock or opacity.
func (e *Engine) AddText(x, y float64, text string, style document.TextStyle) (string, error) {
	if e.closed {
		return "", ErrClosed
	}
	if text == "" {
		return "", invalid("text", text, "must not be empty")
	}
	if !finite(x) || !finite(y) {
		return "", invalid("position", document.Point{X: x, Y: y}, "must be finite")
	}
	if !(style.FontSize > 0) || !finite(style.FontSize) {
		return "", invalid("font size", style.FontSize, "must be a positive number")
	}
	t := document.TextElement{
		ID:        e.opts.ids(),
		Position:  e.clampPoint(x, y),
		Text:      text,
		TextStyle: style,
	}
	e.doc.Texts = append(e.doc.Texts, t)
	e.commit()
	return t.ID, nil
}

// RemoveText deletes a text element.
func (e *Engine) RemoveText(id string) error {
	if e.closed {
		return ErrClosed
	}
	i := e.doc.TextIndex(id)
	if i < 0 {
		e.log.Warn("unknown text element", "text", id)
		return ErrUnknownText
	}
	e.doc.Texts = append(e.doc.Texts[:i], e.doc.Texts[i+1:]...)
	e.commit()
	return nil
}

// Texts lists the text elements in insertion order.
func (e *Engine) Texts() []document.TextElement {
	if e.closed {
		return nil
	}
	return append([]document.TextElement(nil), e.doc.Texts...)
}
