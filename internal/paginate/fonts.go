package paginate

import (
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// variant selects one of the embedded Go fonts.
type variant uint8

const (
	regular variant = iota
	bold
	italic
	boldItalic
	mono
)

var fontData = map[variant][]byte{
	regular:    goregular.TTF,
	bold:       gobold.TTF,
	italic:     goitalic.TTF,
	boldItalic: gobolditalic.TTF,
	mono:       gomono.TTF,
}

type faceKey struct {
	v    variant
	size int // hundredths of a pixel
}

// faceCache builds faces lazily. font.Face values are not safe for
// concurrent use; callers hold MetricsMeasurer.mu.
type faceCache struct {
	fonts map[variant]*opentype.Font
	faces map[faceKey]font.Face
}

func newFaceCache() (*faceCache, error) {
	c := &faceCache{
		fonts: make(map[variant]*opentype.Font, len(fontData)),
		faces: make(map[faceKey]font.Face),
	}
	for v, data := range fontData {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse embedded font: %w", err)
		}
		c.fonts[v] = f
	}
	return c, nil
}

// face returns a face whose units are CSS pixels: at 72 dpi one point
// maps to one pixel.
func (c *faceCache) face(v variant, sizePx float64) (font.Face, error) {
	key := faceKey{v: v, size: int(math.Round(sizePx * 100))}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(c.fonts[v], &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	c.faces[key] = f
	return f, nil
}

// advance returns the width of r in pixels. Runes missing from the font
// fall back to half an em.
func advance(f font.Face, r rune, sizePx float64) float64 {
	if adv, ok := f.GlyphAdvance(r); ok {
		return float64(adv) / 64
	}
	return sizePx / 2
}
