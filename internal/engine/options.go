package engine

import (
	"log/slog"

	"github.com/example/writingpad/internal/compositor"
	"github.com/example/writingpad/internal/document"
	"github.com/example/writingpad/internal/portable"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 768

	// DefaultHighlighterOpacity is the stroke opacity the highlighter starts with.
	DefaultHighlighterOpacity = 0.35
	DefaultPenWidth           = 3
	DefaultFontSize           = 16
)

// SaveResult is handed to the save callback.
type SaveResult struct {
	PNG      []byte
	Portable portable.PortableDocument
	Snapshot document.Snapshot
}

type options struct {
	width, height float64
	ids           IDGenerator
	logger        *slog.Logger
	historyLimit  int
	repaint       func(compositor.Scene)
	onSave        func(SaveResult)
	grid          *compositor.Grid
	background    document.Color
	penColor      document.Color
	penWidth      float64
	penOpacity    float64
}

func defaultOptions() options {
	return options{
		width:      DefaultWidth,
		height:     DefaultHeight,
		ids:        RandomIDs,
		penColor:   document.Black,
		penWidth:   DefaultPenWidth,
		penOpacity: 1,
	}
}

// Option configures Open.
type Option func(*options)

// WithCanvasSize sets the logical size of a fresh document. It is ignored
// when Open is given initial content.
func WithCanvasSize(width, height float64) Option {
	return func(o *options) { o.width, o.height = width, height }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}

// WithLogger overrides the package logger for one engine.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHistoryLimit caps the undo depth. Zero means unbounded.
func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = n }
}

// WithRepaint registers the function called with a fresh scene after every
// visible change.
func WithRepaint(fn func(compositor.Scene)) Option {
	return func(o *options) { o.repaint = fn }
}

// WithOnSave registers the function Save hands its output to.
func WithOnSave(fn func(SaveResult)) Option {
	return func(o *options) { o.onSave = fn }
}

// WithGrid adds a cosmetic background grid to repainted scenes. Exports
// never include it.
func WithGrid(g compositor.Grid) Option {
	return func(o *options) { o.grid = &g }
}

// WithBackground sets the colour raster exports are flattened onto.
func WithBackground(c document.Color) Option {
	return func(o *options) { o.background = c }
}

// WithPen sets the initial pen colour, width and opacity.
func WithPen(c document.Color, width, opacity float64) Option {
	return func(o *options) {
		o.penColor, o.penWidth, o.penOpacity = c, width, opacity
	}
}
