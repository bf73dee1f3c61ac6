package render

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// DefaultFontSize is used when a text element carries no usable size.
const DefaultFontSize = 16

type faceKey struct {
	family string
	size   float64
}

var (
	fontsOnce sync.Once
	fontsErr  error
	fonts     map[string]*sfnt.Font
)

func loadFonts() {
	fonts = make(map[string]*sfnt.Font, 3)
	for name, ttf := range map[string][]byte{
		"regular": goregular.TTF,
		"mono":    gomono.TTF,
		"bold":    gobold.TTF,
	} {
		f, err := opentype.Parse(ttf)
		if err != nil {
			fontsErr = fmt.Errorf("parse %s font: %w", name, err)
			return
		}
		fonts[name] = f
	}
}

// familyKey maps a free-form family name onto one of the bundled Go fonts.
func familyKey(family string) string {
	f := strings.ToLower(family)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"), strings.Contains(f, "code"):
		return "mono"
	case strings.Contains(f, "bold"):
		return "bold"
	}
	return "regular"
}

// NewFace returns a face for family at size pixels. A face keeps glyph
// buffers, so it must not be shared between goroutines.
func NewFace(family string, size float64) (font.Face, error) {
	if !(size > 0) {
		size = DefaultFontSize
	}
	fontsOnce.Do(loadFonts)
	if fontsErr != nil {
		return nil, fontsErr
	}
	return opentype.NewFace(fonts[familyKey(family)], &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// FaceCache reuses faces for one owner. The zero value is ready to use; it
// is not safe for concurrent use.
type FaceCache struct {
	faces map[faceKey]font.Face
}

// Face returns the cached face for family at size, creating it on first use.
func (fc *FaceCache) Face(family string, size float64) (font.Face, error) {
	if !(size > 0) {
		size = DefaultFontSize
	}
	key := faceKey{family: familyKey(family), size: size}
	if face, ok := fc.faces[key]; ok {
		return face, nil
	}
	face, err := NewFace(family, size)
	if err != nil {
		return nil, err
	}
	if fc.faces == nil {
		fc.faces = make(map[faceKey]font.Face)
	}
	fc.faces[key] = face
	return face, nil
}
