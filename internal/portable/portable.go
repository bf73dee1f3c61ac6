// Package portable converts between document snapshots and the versioned
// JSON form a writing pad is persisted in.
//
// Deserialization is strict: required fields are never defaulted, and every
// rejection is a *ParseError naming the offending field.
package portable

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/example/writingpad/internal/document"
)

// Version is the only format version this package reads and writes.
const Version = 1

// PortableDocument is the persisted form of a writing pad.
type PortableDocument struct {
	Version     int     `json:"version"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Layers      []Layer `json:"layers"`
	Texts       []Text  `json:"texts,omitempty"`
	ActiveLayer string  `json:"activeLayer,omitempty"`
	View        *View   `json:"view,omitempty"`
}

// View records the zoom and pan the document was last shown with.
type View struct {
	Zoom float64 `json:"zoom"`
	Pan  Point   `json:"pan"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layer fields that have no safe default are pointers so a missing value can
// be told apart from a zero one.
type Layer struct {
	ID      string   `json:"id"`
	Name    *string  `json:"name"`
	Visible *bool    `json:"visible"`
	Locked  bool     `json:"locked,omitempty"`
	Opacity *float64 `json:"opacity"`
	Strokes []Stroke `json:"strokes"`
}

type Stroke struct {
	ID      string   `json:"id"`
	Tool    string   `json:"tool"`
	Color   string   `json:"color"`
	Width   *float64 `json:"width"`
	Opacity *float64 `json:"opacity"`
	Points  []Point  `json:"points"`
}

type Text struct {
	ID         string   `json:"id"`
	Position   *Point   `json:"position"`
	Text       string   `json:"text"`
	FontSize   *float64 `json:"fontSize"`
	Color      string   `json:"color"`
	FontFamily string   `json:"fontFamily,omitempty"`
}

// Meta is the view state persisted next to the drawing.
type Meta struct {
	ActiveLayerID string
	Zoom          float64
	Pan           document.Point
}

// ParseError reports why a persisted document was rejected.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "portable: " + e.Reason
	}
	return "portable: " + e.Path + ": " + e.Reason
}

func parseErr(path, format string, args ...any) error {
	return &ParseError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// Serialize converts snap and meta into their portable form. Geometry, colours,
// tool kinds and ordering are carried over exactly.
func Serialize(snap document.Snapshot, meta Meta) PortableDocument {
	p := PortableDocument{
		Version:     Version,
		Width:       snap.Width,
		Height:      snap.Height,
		Layers:      make([]Layer, 0, len(snap.Layers)),
		ActiveLayer: meta.ActiveLayerID,
	}
	if meta.Zoom > 0 {
		p.View = &View{Zoom: meta.Zoom, Pan: Point{X: meta.Pan.X, Y: meta.Pan.Y}}
	}
	for _, l := range snap.Layers {
		pl := Layer{
			ID:      l.ID,
			Name:    ptr(l.Name),
			Visible: ptr(l.Visible),
			Locked:  l.Locked,
			Opacity: ptr(l.Opacity),
			Strokes: make([]Stroke, 0, len(l.Strokes)),
		}
		for _, s := range l.Strokes {
			ps := Stroke{
				ID:      s.ID,
				Tool:    s.Tool.String(),
				Color:   s.Color.Hex(),
				Width:   ptr(s.Width),
				Opacity: ptr(s.Opacity),
				Points:  make([]Point, len(s.Points)),
			}
			for i, pt := range s.Points {
				ps.Points[i] = Point{X: pt.X, Y: pt.Y}
			}
			pl.Strokes = append(pl.Strokes, ps)
		}
		p.Layers = append(p.Layers, pl)
	}
	for _, t := range snap.Texts {
		p.Texts = append(p.Texts, Text{
			ID:         t.ID,
			Position:   &Point{X: t.Position.X, Y: t.Position.Y},
			Text:       t.Text,
			FontSize:   ptr(t.FontSize),
			Color:      t.Color.Hex(),
			FontFamily: t.FontFamily,
		})
	}
	return p
}

// Deserialize validates p and rebuilds the snapshot and view state it holds.
func Deserialize(p PortableDocument) (document.Snapshot, Meta, error) {
	var snap document.Snapshot
	var meta Meta
	if p.Version != Version {
		return snap, meta, parseErr("version", "unsupported version %d", p.Version)
	}
	if !positive(p.Width) {
		return snap, meta, parseErr("width", "must be a positive number")
	}
	if !positive(p.Height) {
		return snap, meta, parseErr("height", "must be a positive number")
	}
	if len(p.Layers) == 0 {
		return snap, meta, parseErr("layers", "at least one layer is required")
	}
	snap.Width, snap.Height = p.Width, p.Height

	seen := make(map[string]bool)
	for i, pl := range p.Layers {
		l, err := layerFrom(fmt.Sprintf("layers[%d]", i), pl, seen)
		if err != nil {
			return document.Snapshot{}, meta, err
		}
		snap.Layers = append(snap.Layers, l)
	}
	for i, pt := range p.Texts {
		t, err := textFrom(fmt.Sprintf("texts[%d]", i), pt, seen)
		if err != nil {
			return document.Snapshot{}, meta, err
		}
		snap.Texts = append(snap.Texts, t)
	}

	meta.ActiveLayerID = p.ActiveLayer
	if meta.ActiveLayerID != "" {
		if _, ok := snap.Layer(meta.ActiveLayerID); !ok {
			return document.Snapshot{}, Meta{}, parseErr("activeLayer", "unknown layer %q", meta.ActiveLayerID)
		}
	}
	if p.View != nil {
		if !positive(p.View.Zoom) {
			return document.Snapshot{}, Meta{}, parseErr("view.zoom", "must be a positive number")
		}
		if !finite(p.View.Pan.X) || !finite(p.View.Pan.Y) {
			return document.Snapshot{}, Meta{}, parseErr("view.pan", "must be finite")
		}
		meta.Zoom = p.View.Zoom
		meta.Pan = document.Point{X: p.View.Pan.X, Y: p.View.Pan.Y}
	}
	return snap, meta, nil
}

func layerFrom(path string, pl Layer, seen map[string]bool) (document.Layer, error) {
	var l document.Layer
	if err := claimID(path, pl.ID, seen); err != nil {
		return l, err
	}
	if pl.Visible == nil {
		return l, parseErr(path+".visible", "required")
	}
	if err := unitInterval(path+".opacity", pl.Opacity); err != nil {
		return l, err
	}
	if pl.Name == nil {
		return l, parseErr(path+".name", "required")
	}
	l = document.Layer{
		ID:      pl.ID,
		Name:    *pl.Name,
		Visible: *pl.Visible,
		Locked:  pl.Locked,
		Opacity: *pl.Opacity,
	}
	for i, ps := range pl.Strokes {
		s, err := strokeFrom(fmt.Sprintf("%s.strokes[%d]", path, i), ps, seen)
		if err != nil {
			return document.Layer{}, err
		}
		l.Strokes = append(l.Strokes, s)
	}
	return l, nil
}

func strokeFrom(path string, ps Stroke, seen map[string]bool) (document.Stroke, error) {
	var s document.Stroke
	if err := claimID(path, ps.ID, seen); err != nil {
		return s, err
	}
	tool, err := document.ParseToolKind(ps.Tool)
	if err != nil {
		return s, parseErr(path+".tool", "unknown tool %q", ps.Tool)
	}
	col, err := colorFrom(path+".color", ps.Color)
	if err != nil {
		return s, err
	}
	if ps.Width == nil {
		return s, parseErr(path+".width", "required")
	}
	if !positive(*ps.Width) {
		return s, parseErr(path+".width", "must be a positive number")
	}
	if err := unitInterval(path+".opacity", ps.Opacity); err != nil {
		return s, err
	}
	if len(ps.Points) == 0 {
		return s, parseErr(path+".points", "at least one point is required")
	}
	s = document.Stroke{
		ID:      ps.ID,
		Tool:    tool,
		Color:   col,
		Width:   *ps.Width,
		Opacity: *ps.Opacity,
		Points:  make([]document.Point, len(ps.Points)),
	}
	for i, pt := range ps.Points {
		if !finite(pt.X) || !finite(pt.Y) {
			return document.Stroke{}, parseErr(fmt.Sprintf("%s.points[%d]", path, i), "must be finite")
		}
		s.Points[i] = document.Point{X: pt.X, Y: pt.Y}
	}
	return s, nil
}

func textFrom(path string, pt Text, seen map[string]bool) (document.TextElement, error) {
	var t document.TextElement
	if err := claimID(path, pt.ID, seen); err != nil {
		return t, err
	}
	if pt.Position == nil {
		return t, parseErr(path+".position", "required")
	}
	if !finite(pt.Position.X) || !finite(pt.Position.Y) {
		return t, parseErr(path+".position", "must be finite")
	}
	if pt.Text == "" {
		return t, parseErr(path+".text", "required")
	}
	if pt.FontSize == nil {
		return t, parseErr(path+".fontSize", "required")
	}
	if !positive(*pt.FontSize) {
		return t, parseErr(path+".fontSize", "must be a positive number")
	}
	col, err := colorFrom(path+".color", pt.Color)
	if err != nil {
		return t, err
	}
	return document.TextElement{
		ID:       pt.ID,
		Position: document.Point{X: pt.Position.X, Y: pt.Position.Y},
		Text:     pt.Text,
		TextStyle: document.TextStyle{
			FontSize:   *pt.FontSize,
			Color:      col,
			FontFamily: pt.FontFamily,
		},
	}, nil
}

func claimID(path, id string, seen map[string]bool) error {
	if id == "" {
		return parseErr(path+".id", "required")
	}
	if seen[id] {
		return parseErr(path+".id", "duplicate id %q", id)
	}
	seen[id] = true
	return nil
}

// colorFrom only accepts the hex forms Serialize writes.
func colorFrom(path, s string) (document.Color, error) {
	if s == "" {
		return document.Color{}, parseErr(path, "required")
	}
	if !strings.HasPrefix(s, "#") {
		return document.Color{}, parseErr(path, "invalid colour %q", s)
	}
	c, err := document.ParseColor(s)
	if err != nil {
		return document.Color{}, parseErr(path, "invalid colour %q", s)
	}
	return c, nil
}

func unitInterval(path string, v *float64) error {
	if v == nil {
		return parseErr(path, "required")
	}
	if !(*v >= 0 && *v <= 1) {
		return parseErr(path, "must be within [0, 1]")
	}
	return nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 1) }
func finite(v float64) bool   { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func ptr[T any](v T) *T { return &v }

// Marshal encodes p as indented JSON.
func Marshal(p PortableDocument) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Unmarshal decodes JSON into a PortableDocument without validating it.
// Syntax and type errors are reported as *ParseError.
func Unmarshal(data []byte) (PortableDocument, error) {
	var p PortableDocument
	if err := json.Unmarshal(data, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return PortableDocument{}, parseErr(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
		}
		return PortableDocument{}, parseErr("", "%v", err)
	}
	return p, nil
}

// Encode serializes snap and meta straight to JSON.
func Encode(snap document.Snapshot, meta Meta) ([]byte, error) {
	return Marshal(Serialize(snap, meta))
}

// Decode parses and validates a JSON document.
func Decode(data []byte) (document.Snapshot, Meta, error) {
	p, err := Unmarshal(data)
	if err != nil {
		return document.Snapshot{}, Meta{}, err
	}
	return Deserialize(p)
}
