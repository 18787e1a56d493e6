package imaging

import (
	"image"
	"image/color"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// badgeFont is parsed once; Go Bold ships with x/image.
var badgeFont, badgeFontErr = opentype.Parse(gobold.TTF)

// InitialsBadge draws up to two initials centered on a disc of the given
// hex color ("2E4A7D") and returns a PNG. The text is white on dark
// colors and near-black on light ones. nil on failure.
func (p *Processor) InitialsBadge(initials string, size int, hex string) []byte {
	text := badgeText(initials)
	bg, ok := ParseHex(hex)
	if text == "" || size <= 0 || !ok {
		p.logger.Debug("initials badge skipped", "initials", initials, "size", size, "color", hex)
		return nil
	}
	if badgeFontErr != nil {
		p.logger.Debug("badge font unavailable", "error", badgeFontErr)
		return nil
	}

	face, err := opentype.NewFace(badgeFont, &opentype.FaceOptions{
		Size:    float64(size) * 0.4,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		p.logger.Debug("badge face failed", "error", err)
		return nil
	}
	defer face.Close()

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, newDisc(size), image.Point{}, draw.Over)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(contrast(bg)), Face: face}
	m := face.Metrics()
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(size) - width) / 2,
		Y: (fixed.I(size) + m.Ascent - m.Descent) / 2,
	}
	d.DrawString(text)

	return encodePNG(dst, p.logger)
}

// badgeText upper-cases the first two letters of initials.
func badgeText(initials string) string {
	var out []rune
	for _, r := range strings.TrimSpace(initials) {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// ParseHex parses a six-digit hex color, with or without '#'.
func ParseHex(hex string) (color.RGBA, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// contrast picks a readable text color for bg.
func contrast(bg color.RGBA) color.RGBA {
	luma := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if luma > 160 {
		return color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	}
	return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
}
