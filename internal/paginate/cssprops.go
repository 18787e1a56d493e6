package paginate

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// textStyle holds the inherited properties that affect text metrics.
type textStyle struct {
	size       float64 // px
	lineHeight float64 // multiple of size
	bold       bool
	italic     bool
	mono       bool
	nowrap     bool
}

func (t textStyle) variant() variant {
	switch {
	case t.mono:
		return mono
	case t.bold && t.italic:
		return boldItalic
	case t.bold:
		return bold
	case t.italic:
		return italic
	}
	return regular
}

func (t textStyle) lineBox() float64 {
	return t.size * t.lineHeight
}

// boxStyle holds the non-inherited box properties of one element.
type boxStyle struct {
	display   string
	direction string
	wrap      bool
	gap       float64
	margin    [4]float64 // top right bottom left
	padding   [4]float64
	border    [4]float64
	width     float64 // px, 0 when unset
	widthPct  float64 // percent, 0 when unset
	height    float64 // px, 0 when unset
	flexGrow  float64
	flexNone  bool
	flexBasis float64 // percent, 0 when unset
	borderBox bool
	hidden    bool
}

func (b boxStyle) vertical() float64 {
	return b.margin[0] + b.margin[2] + b.padding[0] + b.padding[2] + b.border[0] + b.border[2]
}

func (b boxStyle) horizontalInner() float64 {
	return b.padding[1] + b.padding[3] + b.border[1] + b.border[3]
}

func (b boxStyle) horizontalOuter() float64 {
	return b.margin[1] + b.margin[3]
}

func (b boxStyle) isFlex() bool {
	return b.display == "flex" || b.display == "inline-flex"
}

func (b boxStyle) isRow() bool {
	return b.isFlex() && (b.direction == "" || strings.HasPrefix(b.direction, "row"))
}

// blockTags are laid out as blocks unless their style says otherwise.
var blockTags = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Div: true, atom.Footer: true, atom.Header: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Section: true,
	atom.Table: true, atom.Ul: true, atom.Hr: true,
}

// computeStyle applies tag defaults and the inline style attribute of n.
func computeStyle(n *html.Node, parent textStyle) (textStyle, boxStyle) {
	t := parent
	var b boxStyle
	if blockTags[n.DataAtom] {
		b.display = "block"
	} else {
		b.display = "inline"
	}

	switch n.DataAtom {
	case atom.Strong, atom.B, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Th:
		t.bold = true
	case atom.Em, atom.I:
		t.italic = true
	case atom.Code, atom.Pre, atom.Kbd, atom.Samp:
		t.mono = true
	case atom.Img:
		b.display = "inline-block"
		b.width = attrPx(n, "width")
		b.height = attrPx(n, "height")
	}

	applyDeclarations(attr(n, "style"), &t, &b, parent)
	return t, b
}

func applyDeclarations(style string, t *textStyle, b *boxStyle, parent textStyle) {
	for _, d := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(d, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))

		switch prop {
		case "font-size":
			if v, ok := length(value, parent.size); ok && v > 0 {
				t.size = v
			}
		case "line-height":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				t.lineHeight = v
			} else if px, ok := length(value, t.size); ok && t.size > 0 {
				t.lineHeight = px / t.size
			}
		case "font-weight":
			t.bold = value == "bold" || value == "bolder" || weight(value) >= 600
		case "font-style":
			t.italic = value == "italic" || value == "oblique"
		case "font-family":
			t.mono = strings.HasSuffix(value, "monospace")
		case "white-space":
			t.nowrap = value == "nowrap" || value == "pre"
		case "display":
			b.display = value
			b.hidden = value == "none"
		case "flex-direction":
			b.direction = value
		case "flex-wrap":
			b.wrap = value == "wrap"
		case "gap", "column-gap":
			if v, ok := length(firstField(value), t.size); ok {
				b.gap = v
			}
		case "margin":
			b.margin = sides(value, t.size)
		case "margin-top":
			b.margin[0], _ = length(value, t.size)
		case "margin-bottom":
			b.margin[2], _ = length(value, t.size)
		case "padding":
			b.padding = sides(value, t.size)
		case "padding-top":
			b.padding[0], _ = length(value, t.size)
		case "padding-bottom":
			b.padding[2], _ = length(value, t.size)
		case "padding-left":
			b.padding[3], _ = length(value, t.size)
		case "border":
			w := borderWidth(value, t.size)
			b.border = [4]float64{w, w, w, w}
		case "border-top":
			b.border[0] = borderWidth(value, t.size)
		case "border-bottom":
			b.border[2] = borderWidth(value, t.size)
		case "width":
			if strings.HasSuffix(value, "%") {
				b.widthPct, _ = strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
			} else {
				b.width, _ = length(value, t.size)
			}
		case "height":
			b.height, _ = length(value, t.size)
		case "box-sizing":
			b.borderBox = value == "border-box"
		case "flex":
			parseFlex(value, b)
		}
	}
}

func parseFlex(value string, b *boxStyle) {
	if value == "none" {
		b.flexNone = true
		return
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return
	}
	b.flexGrow, _ = strconv.ParseFloat(fields[0], 64)
	if len(fields) == 3 && strings.HasSuffix(fields[2], "%") {
		b.flexBasis, _ = strconv.ParseFloat(strings.TrimSuffix(fields[2], "%"), 64)
	}
}

// length parses a px, pt, em or unitless zero length.
func length(value string, em float64) (float64, bool) {
	value = strings.TrimSpace(value)
	switch {
	case value == "0" || value == "auto":
		return 0, value == "0"
	case strings.HasSuffix(value, "px"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 64)
		return v, err == nil
	case strings.HasSuffix(value, "pt"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, "pt"), 64)
		return v * 96 / 72, err == nil
	case strings.HasSuffix(value, "rem"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, "rem"), 64)
		return v * 16, err == nil
	case strings.HasSuffix(value, "em"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, "em"), 64)
		return v * em, err == nil
	}
	return 0, false
}

// sides expands a one to four value margin or padding shorthand.
func sides(value string, em float64) [4]float64 {
	f := strings.Fields(value)
	v := make([]float64, len(f))
	for i, s := range f {
		v[i], _ = length(s, em)
	}
	switch len(v) {
	case 1:
		return [4]float64{v[0], v[0], v[0], v[0]}
	case 2:
		return [4]float64{v[0], v[1], v[0], v[1]}
	case 3:
		return [4]float64{v[0], v[1], v[2], v[1]}
	case 4:
		return [4]float64{v[0], v[1], v[2], v[3]}
	}
	return [4]float64{}
}

func borderWidth(value string, em float64) float64 {
	for _, f := range strings.Fields(value) {
		if v, ok := length(f, em); ok {
			return v
		}
	}
	return 0
}

func weight(value string) int {
	w, err := strconv.Atoi(value)
	if err != nil {
		return 400
	}
	return w
}

func firstField(value string) string {
	if f := strings.Fields(value); len(f) > 0 {
		return f[0]
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func attrPx(n *html.Node, key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSuffix(attr(n, key), "px"), 64)
	if err != nil {
		return 0
	}
	return v
}
