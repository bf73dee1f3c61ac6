// Package viewport maps pointer positions reported by an input device onto
// logical document coordinates and back.
package viewport

import (
	"fmt"
	"math"

	"github.com/example/writingpad/internal/document"
)

const (
	MinZoom = 0.1
	MaxZoom = 8
)

// Viewport describes how a document is shown on a surface.
//
// Origin is the surface's top-left corner in device-independent pixels. Pan
// is measured in the same units and applied after zoom, so a logical point p
// appears at Origin + Pan + p*Zoom.
type Viewport struct {
	Origin           document.Point
	DevicePixelRatio float64
	Zoom             float64
	Pan              document.Point
	CanvasWidth      float64
	CanvasHeight     float64
}

// ForDocument returns a viewport showing d at its stored zoom and pan on a
// surface anchored at the origin with a device pixel ratio of 1.
func ForDocument(d *document.Document) Viewport {
	return Viewport{
		DevicePixelRatio: 1,
		Zoom:             d.Zoom,
		Pan:              d.Pan,
		CanvasWidth:      d.Width,
		CanvasHeight:     d.Height,
	}
}

// Validate reports whether the viewport can be used for mapping.
func (v Viewport) Validate() error {
	if !(v.Zoom > 0) || math.IsInf(v.Zoom, 0) {
		return fmt.Errorf("zoom must be positive, got %g", v.Zoom)
	}
	if !(v.DevicePixelRatio > 0) || math.IsInf(v.DevicePixelRatio, 0) {
		return fmt.Errorf("device pixel ratio must be positive, got %g", v.DevicePixelRatio)
	}
	return nil
}

// ToLogical converts raw device coordinates into logical document
// coordinates clamped to the canvas.
func (v Viewport) ToLogical(deviceX, deviceY float64) (x, y float64) {
	x, y = v.unclamped(deviceX, deviceY)
	return clamp(x, v.CanvasWidth), clamp(y, v.CanvasHeight)
}

func (v Viewport) unclamped(deviceX, deviceY float64) (x, y float64) {
	cssX := deviceX/v.DevicePixelRatio - v.Origin.X
	cssY := deviceY/v.DevicePixelRatio - v.Origin.Y
	return (cssX - v.Pan.X) / v.Zoom, (cssY - v.Pan.Y) / v.Zoom
}

// ToDevice is the inverse of ToLogical for points inside the canvas. It is
// used to place overlays at document positions.
func (v Viewport) ToDevice(x, y float64) (deviceX, deviceY float64) {
	cssX := x*v.Zoom + v.Pan.X + v.Origin.X
	cssY := y*v.Zoom + v.Pan.Y + v.Origin.Y
	return cssX * v.DevicePixelRatio, cssY * v.DevicePixelRatio
}

// ZoomAt scales the view by factor while keeping the logical point under
// (deviceX, deviceY) fixed on screen. The resulting zoom is clamped to
// [MinZoom, MaxZoom].
func (v Viewport) ZoomAt(factor, deviceX, deviceY float64) Viewport {
	if !(factor > 0) {
		return v
	}
	lx, ly := v.unclamped(deviceX, deviceY)
	v.Zoom = ClampZoom(v.Zoom * factor)
	cssX := deviceX/v.DevicePixelRatio - v.Origin.X
	cssY := deviceY/v.DevicePixelRatio - v.Origin.Y
	v.Pan = document.Point{X: cssX - lx*v.Zoom, Y: cssY - ly*v.Zoom}
	return v
}

// PanBy shifts the view by a device-pixel delta.
func (v Viewport) PanBy(dx, dy float64) Viewport {
	v.Pan.X += dx / v.DevicePixelRatio
	v.Pan.Y += dy / v.DevicePixelRatio
	return v
}

// ClampZoom limits z to the supported zoom range.
func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

func clamp(v, max float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
