package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/example/writingpad/internal/compositor"
	"github.com/example/writingpad/internal/document"
)

// MaxDimension bounds either side of a rasterized image.
const MaxDimension = 16384

// ErrInvalidScale is returned for non-positive or non-finite scales.
var ErrInvalidScale = errors.New("scale must be a positive finite number")

// RasterOptions configures Rasterize and RenderImage.
type RasterOptions struct {
	// Scale multiplies the logical canvas size. Zero means 1.
	Scale float64
	// Background fills the image before any layer is drawn. The zero value
	// leaves it transparent.
	Background document.Color
	Grid       *compositor.Grid
	// Shadow, when set, grows the image to hold a drop shadow of the
	// drawing. The canvas area is then no longer the whole image.
	Shadow *Shadow
}

// Size returns the pixel dimensions of a canvas rendered at scale.
func Size(width, height, scale float64) (int, int, error) {
	if scale == 0 {
		scale = 1
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return 0, 0, ErrInvalidScale
	}
	w := int(math.Ceil(width * scale))
	h := int(math.Ceil(height * scale))
	if w <= 0 || h <= 0 {
		return 0, 0, document.ErrInvalidSize
	}
	if w > MaxDimension || h > MaxDimension {
		return 0, 0, fmt.Errorf("rendered size %dx%d exceeds %d pixels", w, h, MaxDimension)
	}
	return w, h, nil
}

// RenderImage composites snap, with no pending stroke, into a new image.
func RenderImage(snap document.Snapshot, opts RasterOptions) (*image.RGBA, error) {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	w, h, err := Size(snap.Width, snap.Height, scale)
	if err != nil {
		return nil, err
	}
	c := NewCanvas(w, h, scale)
	c.SetBackground(opts.Background)
	compositor.Compose(c, compositor.Scene{Snapshot: snap, Grid: opts.Grid})
	if opts.Shadow != nil {
		img, _ := opts.Shadow.Apply(c.Image())
		return img, nil
	}
	return c.Image(), nil
}

// Rasterize renders snap and encodes it as PNG.
func Rasterize(snap document.Snapshot, opts RasterOptions) ([]byte, error) {
	img, err := RenderImage(snap, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
