package style

// Paper dimensions in twips.
var pageSizes = map[string]struct{ Width, Height int }{
	"A4":     {Width: 11906, Height: 16838},
	"Letter": {Width: 12240, Height: 15840},
}

// PageSizes lists the supported paper size names.
func PageSizes() []string {
	return []string{"A4", "Letter"}
}

// Geometry is the page box in CSS pixels at 96 dpi.
type Geometry struct {
	Width, Height                                    float64
	MarginTop, MarginRight, MarginBottom, MarginLeft float64
}

// ContentWidth is the width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.Width - g.MarginLeft - g.MarginRight
}

// ContentHeight is the height between the top and bottom margins.
func (g Geometry) ContentHeight() float64 {
	return g.Height - g.MarginTop - g.MarginBottom
}

// Geometry returns the page box for the descriptor's paper and margins.
func (s *Style) Geometry() Geometry {
	size, ok := pageSizes[s.Page.Size]
	if !ok {
		size = pageSizes["A4"]
	}
	m := s.Page.Margins
	return Geometry{
		Width:        TwipsToPx(size.Width),
		Height:       TwipsToPx(size.Height),
		MarginTop:    TwipsToPx(m.Top),
		MarginRight:  TwipsToPx(m.Right),
		MarginBottom: TwipsToPx(m.Bottom),
		MarginLeft:   TwipsToPx(m.Left),
	}
}

// PageTwips returns the paper width and height in twips.
func (s *Style) PageTwips() (width, height int) {
	size, ok := pageSizes[s.Page.Size]
	if !ok {
		size = pageSizes["A4"]
	}
	return size.Width, size.Height
}
