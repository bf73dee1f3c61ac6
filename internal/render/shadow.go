package render

import (
	"image"
	"image/draw"

	"github.com/example/writingpad/internal/document"
)

// Shadow is a blurred drop shadow cast by the opaque parts of an export.
type Shadow struct {
	Radius int
	Offset image.Point
	Color  document.Color
}

// DefaultShadow suits a drawing pasted onto a light slide or page.
var DefaultShadow = Shadow{
	Radius: 12,
	Offset: image.Pt(6, 6),
	Color:  document.Color{A: 140},
}

// Apply returns img on a canvas grown to hold the shadow. The drawing keeps
// its pixels; it is moved by the returned offset when the shadow extends
// above or left of it.
func (s Shadow) Apply(img *image.RGBA) (*image.RGBA, image.Point) {
	if img == nil || img.Bounds().Empty() || s.Color.A == 0 {
		return img, image.Point{}
	}
	r := max(s.Radius, 0)
	src := img.Bounds()
	cast := src.Inset(-r).Add(s.Offset)
	all := src.Union(cast)
	shift := src.Min.Sub(all.Min)

	mask := image.NewAlpha(image.Rect(0, 0, cast.Dx(), cast.Dy()))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		row := img.Pix[img.PixOffset(src.Min.X, y):]
		mrow := mask.Pix[(y-src.Min.Y+r)*mask.Stride+r:]
		for x := 0; x < src.Dx(); x++ {
			mrow[x] = row[x*4+3]
		}
	}
	boxBlur(mask, r)

	out := image.NewRGBA(all.Sub(all.Min))
	draw.DrawMask(out, mask.Bounds().Add(cast.Min.Sub(all.Min)), image.NewUniform(s.Color.NRGBA()), image.Point{}, mask, image.Point{}, draw.Over)
	draw.Draw(out, src.Sub(all.Min), img, src.Min, draw.Over)
	return out, shift
}

// boxBlur averages m over a (2r+1) square window, one axis at a time.
func boxBlur(m *image.Alpha, r int) {
	if r == 0 {
		return
	}
	w, h := m.Rect.Dx(), m.Rect.Dy()
	line := make([]uint8, max(w, h))
	blur := func(get func(int) uint8, set func(int, uint8), n int) {
		for i := 0; i < n; i++ {
			line[i] = get(i)
		}
		sum, count := 0, 0
		for i := 0; i < min(r, n); i++ {
			sum += int(line[i])
			count++
		}
		for i := 0; i < n; i++ {
			if j := i + r; j < n {
				sum += int(line[j])
				count++
			}
			if j := i - r - 1; j >= 0 {
				sum -= int(line[j])
				count--
			}
			set(i, uint8(sum/count))
		}
	}
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride:]
		blur(func(x int) uint8 { return row[x] }, func(x int, v uint8) { row[x] = v }, w)
	}
	for x := 0; x < w; x++ {
		blur(func(y int) uint8 { return m.Pix[y*m.Stride+x] }, func(y int, v uint8) { m.Pix[y*m.Stride+x] = v }, h)
	}
}
