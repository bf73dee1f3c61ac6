// Package render rasterizes writing pad scenes into RGBA images.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/example/writingpad/internal/compositor"
	"github.com/example/writingpad/internal/document"
)

// Canvas is a raster compositor.Renderer. Logical coordinates are mapped to
// pixels as p*Scale + Offset.
type Canvas struct {
	base       *image.RGBA
	stack      []*image.RGBA
	opacities  []float64
	free       []*image.RGBA
	mode       compositor.CompositeMode
	background color.NRGBA

	scale  float64
	offset document.Point

	raster *vector.Rasterizer
	mask   *image.Alpha
	faces  FaceCache
}

var _ compositor.Renderer = (*Canvas)(nil)

// NewCanvas returns a transparent canvas of width x height pixels.
func NewCanvas(width, height int, scale float64) *Canvas {
	r := image.Rect(0, 0, width, height)
	return &Canvas{
		base:   image.NewRGBA(r),
		scale:  scale,
		raster: vector.NewRasterizer(width, height),
		mask:   image.NewAlpha(r),
	}
}

// SetBackground sets the colour Clear fills the base buffer with.
func (c *Canvas) SetBackground(col document.Color) { c.background = col.NRGBA() }

// SetScale changes how many pixels one logical unit covers.
func (c *Canvas) SetScale(scale float64) { c.scale = scale }

// SetOffset translates logical content by off device pixels.
func (c *Canvas) SetOffset(off document.Point) { c.offset = off }

// Image returns the base buffer.
func (c *Canvas) Image() *image.RGBA { return c.base }

func (c *Canvas) target() *image.RGBA {
	if n := len(c.stack); n > 0 {
		return c.stack[n-1]
	}
	return c.base
}

func (c *Canvas) Clear() {
	for i := len(c.stack) - 1; i >= 0; i-- {
		c.release(c.stack[i])
	}
	c.stack = c.stack[:0]
	c.opacities = c.opacities[:0]
	c.mode = compositor.ModeNormal
	draw.Draw(c.base, c.base.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)
}

func (c *Canvas) PushLayer(opacity float64) {
	var buf *image.RGBA
	if n := len(c.free); n > 0 {
		buf = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		buf = image.NewRGBA(c.base.Bounds())
	}
	c.stack = append(c.stack, buf)
	c.opacities = append(c.opacities, clamp01(opacity))
}

func (c *Canvas) PopLayer() {
	n := len(c.stack)
	if n == 0 {
		return
	}
	layer, opacity := c.stack[n-1], c.opacities[n-1]
	c.stack = c.stack[:n-1]
	c.opacities = c.opacities[:n-1]
	if a := uint8(opacity*255 + 0.5); a > 0 {
		dst := c.target()
		draw.DrawMask(dst, dst.Bounds(), layer, image.Point{}, image.NewUniform(color.Alpha{A: a}), image.Point{}, draw.Over)
	}
	c.release(layer)
}

func (c *Canvas) release(buf *image.RGBA) {
	clear(buf.Pix)
	c.free = append(c.free, buf)
}

func (c *Canvas) SetCompositeMode(mode compositor.CompositeMode) { c.mode = mode }

func (c *Canvas) device(p document.Point) (float32, float32) {
	return float32(p.X*c.scale + c.offset.X), float32(p.Y*c.scale + c.offset.Y)
}

// StrokePolyline fills the outline of a round-capped, round-joined polyline.
func (c *Canvas) StrokePolyline(points []document.Point, style compositor.StrokeStyle) {
	half := style.Width * c.scale / 2
	opacity := clamp01(style.Opacity)
	if len(points) == 0 || !(half > 0) || opacity == 0 {
		return
	}
	b := c.base.Bounds()
	c.raster.Reset(b.Dx(), b.Dy())
	for i, p := range points {
		x, y := c.device(p)
		c.addDisc(x, y, float32(half))
		if i > 0 {
			px, py := c.device(points[i-1])
			c.addSegment(px, py, x, y, float32(half))
		}
	}
	clear(c.mask.Pix)
	c.raster.Draw(c.mask, c.mask.Bounds(), image.Opaque, image.Point{})

	dst := c.target()
	if c.mode == compositor.ModeErase {
		erase(dst, c.mask, opacity)
		return
	}
	col := style.Color.NRGBA()
	col.A = uint8(float64(col.A)*opacity + 0.5)
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(col), image.Point{}, c.mask, image.Point{}, draw.Over)
}

// addSegment adds the rectangle covering p0-p1 at the given half width.
// Paths are wound consistently with addDisc so overlaps accumulate.
func (c *Canvas) addSegment(x0, y0, x1, y1, half float32) {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*half, dx/l*half
	c.raster.MoveTo(x0+nx, y0+ny)
	c.raster.LineTo(x1+nx, y1+ny)
	c.raster.LineTo(x1-nx, y1-ny)
	c.raster.LineTo(x0-nx, y0-ny)
	c.raster.ClosePath()
}

func (c *Canvas) addDisc(cx, cy, r float32) {
	n := int(math.Ceil(float64(r) * math.Pi))
	n = max(12, min(n, 96))
	c.raster.MoveTo(cx+r, cy)
	for i := 1; i < n; i++ {
		theta := -2 * math.Pi * float64(i) / float64(n)
		c.raster.LineTo(cx+r*float32(math.Cos(theta)), cy+r*float32(math.Sin(theta)))
	}
	c.raster.ClosePath()
}

// erase scales every premultiplied channel of dst by 1 - coverage*opacity.
func erase(dst *image.RGBA, mask *image.Alpha, opacity float64) {
	k := uint32(opacity*0xffff + 0.5)
	b := dst.Bounds().Intersect(mask.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		mi := mask.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, mi, di = x+1, mi+1, di+4 {
			m := mask.Pix[mi]
			if m == 0 {
				continue
			}
			keep := 0xffff - uint32(m)*0x101*k/0xffff
			p := dst.Pix[di : di+4 : di+4]
			p[0] = uint8(uint32(p[0]) * keep / 0xffff)
			p[1] = uint8(uint32(p[1]) * keep / 0xffff)
			p[2] = uint8(uint32(p[2]) * keep / 0xffff)
			p[3] = uint8(uint32(p[3]) * keep / 0xffff)
		}
	}
}

// DrawText draws t with its baseline starting at t.Position.
func (c *Canvas) DrawText(t document.TextElement) {
	if t.Text == "" {
		return
	}
	face, err := c.faces.Face(t.FontFamily, t.FontSize*c.scale)
	if err != nil {
		Logger().Debug("text face unavailable", "family", t.FontFamily, "error", err)
		return
	}
	x, y := c.device(t.Position)
	d := &font.Drawer{
		Dst:  c.target(),
		Src:  image.NewUniform(t.Color.NRGBA()),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(t.Text)
}

func clamp01(v float64) float64 {
	switch {
	case v != v, v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
