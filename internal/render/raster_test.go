package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"math"
	"sync"
	"testing"

	"github.com/example/writingpad/internal/document"
)

var (
	red  = document.Color{R: 255, A: 255}
	blue = document.Color{B: 255, A: 255}
)

func line(id string, tool document.ToolKind, col document.Color, opacity float64) document.Stroke {
	return document.Stroke{
		ID:      id,
		Points:  []document.Point{{X: 2, Y: 10}, {X: 18, Y: 10}},
		Color:   col,
		Width:   4,
		Tool:    tool,
		Opacity: opacity,
	}
}

func layer(id string, opacity float64, strokes ...document.Stroke) document.Layer {
	l := document.NewLayer(id, id)
	l.Opacity = opacity
	l.Strokes = strokes
	return l
}

func render(t *testing.T, snap document.Snapshot) *image.RGBA {
	t.Helper()
	img, err := RenderImage(snap, RasterOptions{Scale: 1})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	return img
}

func TestRasterizeSize(t *testing.T) {
	data, err := Rasterize(document.Snapshot{Width: 10, Height: 5}, RasterOptions{Scale: 1.5})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(15, 8) {
		t.Fatalf("size = %v, want 15x8", got)
	}
}

func TestRasterizeRejectsBadScale(t *testing.T) {
	for _, s := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := Rasterize(document.Snapshot{Width: 10, Height: 10}, RasterOptions{Scale: s}); !errors.Is(err, ErrInvalidScale) {
			t.Errorf("scale %v: err = %v", s, err)
		}
	}
}

func TestStrokePaintsCoveredPixels(t *testing.T) {
	img := render(t, document.Snapshot{Width: 20, Height: 20, Layers: []document.Layer{
		layer("a", 1, line("s", document.ToolPen, red, 1)),
	}})
	if c := img.RGBAAt(10, 10); c.R != 255 || c.A != 255 {
		t.Fatalf("centre pixel = %v, want opaque red", c)
	}
	if c := img.RGBAAt(10, 2); c.A != 0 {
		t.Fatalf("pixel outside the stroke = %v, want transparent", c)
	}
}

func TestEraserOnlyAffectsItsLayer(t *testing.T) {
	img := render(t, document.Snapshot{Width: 20, Height: 20, Layers: []document.Layer{
		layer("a", 1, line("s1", document.ToolPen, red, 1)),
		layer("b", 1, line("s2", document.ToolPen, blue, 1), line("e", document.ToolEraser, document.Black, 1)),
	}})
	c := img.RGBAAt(10, 10)
	if c.R != 255 || c.B != 0 || c.A != 255 {
		t.Fatalf("pixel = %v, want the lower layer's red to show through", c)
	}
}

func TestZeroOpacityLayerIsInvisible(t *testing.T) {
	img := render(t, document.Snapshot{Width: 20, Height: 20, Layers: []document.Layer{
		layer("a", 0, line("s", document.ToolPen, red, 1)),
	}})
	if c := img.RGBAAt(10, 10); c.A != 0 {
		t.Fatalf("pixel = %v, want transparent", c)
	}
}

func TestOpacitiesMultiply(t *testing.T) {
	img := render(t, document.Snapshot{Width: 20, Height: 20, Layers: []document.Layer{
		layer("a", 0.5, line("s", document.ToolHighlighter, red, 0.5)),
	}})
	if a := img.RGBAAt(10, 10).A; a < 60 || a > 68 {
		t.Fatalf("alpha = %d, want about 64", a)
	}
}

func TestTextIsOpaque(t *testing.T) {
	img := render(t, document.Snapshot{Width: 40, Height: 40, Texts: []document.TextElement{{
		ID:        "t",
		Position:  document.Point{X: 4, Y: 30},
		Text:      "HH",
		TextStyle: document.TextStyle{FontSize: 28, Color: document.Color{A: 10}},
	}}})
	var maxA uint8
	for i := 3; i < len(img.Pix); i += 4 {
		maxA = max(maxA, img.Pix[i])
	}
	if maxA < 250 {
		t.Fatalf("max text alpha = %d, want fully opaque glyph pixels", maxA)
	}
}

func TestBackgroundFill(t *testing.T) {
	img, err := RenderImage(document.Snapshot{Width: 4, Height: 4}, RasterOptions{Background: document.White})
	if err != nil {
		t.Fatal(err)
	}
	if c := img.RGBAAt(1, 1); c.R != 255 || c.A != 255 {
		t.Fatalf("background = %v, want white", c)
	}
}

func TestFaceCacheReusesFaces(t *testing.T) {
	var fc FaceCache
	a, err := fc.Face("Go Mono", 12)
	if err != nil {
		t.Fatal(err)
	}
	b, err := fc.Face("monospace", 12)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("expected the same cached face for both mono families")
	}
	var other FaceCache
	c, err := other.Face("monospace", 12)
	if err != nil {
		t.Fatal(err)
	}
	if c == a {
		t.Fatal("separate caches must not share a face")
	}
}

// Run with -race: a paint goroutine and an export may draw the same text at
// the same size at once.
func TestConcurrentTextRasterize(t *testing.T) {
	snap := document.Snapshot{Width: 120, Height: 40, Texts: []document.TextElement{{
		ID:        "t",
		Position:  document.Point{X: 4, Y: 24},
		Text:      "Hello, pad",
		TextStyle: document.TextStyle{FontSize: 16, Color: document.Black},
	}}}
	want, err := Rasterize(snap, RasterOptions{Scale: 1})
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				got, err := Rasterize(snap, RasterOptions{Scale: 1})
				if err != nil {
					errs <- err
					return
				}
				if !bytes.Equal(got, want) {
					errs <- errors.New("concurrent render differs")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestRenderImageShadow(t *testing.T) {
	snap := document.Snapshot{Width: 20, Height: 20, Layers: []document.Layer{layer("a", 1, line("s", document.ToolPen, red, 1))}}
	img, err := RenderImage(snap, RasterOptions{Scale: 1, Shadow: &DefaultShadow})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	// The blur reaches 6px above and left of the canvas, 18px below and right.
	if want := image.Rect(0, 0, 44, 44); !img.Bounds().Eq(want) {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), want)
	}
	if got := img.RGBAAt(16, 16); got.R != 255 || got.A != 255 {
		t.Fatalf("stroke pixel = %+v", got)
	}
	if got := img.RGBAAt(16, 22); got.A == 0 || got.R != 0 {
		t.Fatalf("shadow pixel = %+v", got)
	}
}
