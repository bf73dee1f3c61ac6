package viewport

import (
	"math"
	"testing"

	"github.com/example/writingpad/internal/document"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestToLogicalAppliesTransform(t *testing.T) {
	v := Viewport{
		Origin:           document.Point{X: 10, Y: 20},
		DevicePixelRatio: 2,
		Zoom:             2,
		Pan:              document.Point{X: 4, Y: 6},
		CanvasWidth:      500,
		CanvasHeight:     500,
	}
	// device (60, 100) -> css (30, 50) -> minus origin (20, 30) -> minus pan (16, 24) -> /zoom (8, 12)
	x, y := v.ToLogical(60, 100)
	if !near(x, 8) || !near(y, 12) {
		t.Fatalf("ToLogical = (%v, %v), want (8, 12)", x, y)
	}
}

func TestToLogicalClamps(t *testing.T) {
	v := Viewport{DevicePixelRatio: 1, Zoom: 1, CanvasWidth: 100, CanvasHeight: 50}
	x, y := v.ToLogical(-5, 400)
	if x != 0 || y != 50 {
		t.Fatalf("ToLogical = (%v, %v), want (0, 50)", x, y)
	}
	x, y = v.ToLogical(math.NaN(), 10)
	if x != 0 || y != 10 {
		t.Fatalf("NaN input mapped to (%v, %v)", x, y)
	}
}

func TestToDeviceInvertsToLogical(t *testing.T) {
	v := Viewport{
		Origin:           document.Point{X: 3, Y: 7},
		DevicePixelRatio: 1.5,
		Zoom:             0.75,
		Pan:              document.Point{X: -12, Y: 30},
		CanvasWidth:      800,
		CanvasHeight:     600,
	}
	for _, p := range []document.Point{{X: 0, Y: 0}, {X: 12.5, Y: 33}, {X: 799, Y: 599}, {X: 400, Y: 300}} {
		dx, dy := v.ToDevice(p.X, p.Y)
		x, y := v.ToLogical(dx, dy)
		if !near(x, p.X) || !near(y, p.Y) {
			t.Errorf("round trip %v -> (%v, %v)", p, x, y)
		}
	}
}

func TestZoomAtKeepsCursorPointFixed(t *testing.T) {
	v := Viewport{DevicePixelRatio: 1, Zoom: 1, CanvasWidth: 1000, CanvasHeight: 1000}
	beforeX, beforeY := v.ToLogical(200, 100)
	z := v.ZoomAt(2, 200, 100)
	if z.Zoom != 2 {
		t.Fatalf("zoom = %v, want 2", z.Zoom)
	}
	afterX, afterY := z.ToLogical(200, 100)
	if !near(beforeX, afterX) || !near(beforeY, afterY) {
		t.Fatalf("cursor point moved from (%v, %v) to (%v, %v)", beforeX, beforeY, afterX, afterY)
	}
	if got := v.ZoomAt(1000, 0, 0).Zoom; got != MaxZoom {
		t.Fatalf("zoom not clamped: %v", got)
	}
}

func TestPanBy(t *testing.T) {
	v := Viewport{DevicePixelRatio: 2, Zoom: 1, CanvasWidth: 100, CanvasHeight: 100}
	v = v.PanBy(20, -10)
	if v.Pan != (document.Point{X: 10, Y: -5}) {
		t.Fatalf("pan = %v", v.Pan)
	}
}

func TestValidate(t *testing.T) {
	if err := (Viewport{DevicePixelRatio: 1, Zoom: 1}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Viewport{DevicePixelRatio: 1}).Validate(); err == nil {
		t.Fatal("expected error for zero zoom")
	}
	if err := (Viewport{Zoom: 1}).Validate(); err == nil {
		t.Fatal("expected error for zero device pixel ratio")
	}
}

func TestForDocumentUsesStoredView(t *testing.T) {
	d, err := document.New(300, 200)
	if err != nil {
		t.Fatal(err)
	}
	d.Zoom = 2
	d.Pan = document.Point{X: 5, Y: 7}
	v := ForDocument(d)
	if err := v.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	x, y := v.ToDevice(10, 10)
	if !near(x, 25) || !near(y, 27) {
		t.Fatalf("ToDevice(10,10) = %g,%g, want 25,27", x, y)
	}
	if v.CanvasWidth != 300 || v.CanvasHeight != 200 {
		t.Fatalf("canvas = %gx%g", v.CanvasWidth, v.CanvasHeight)
	}
}
