package paginate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/segmenter"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// defaultText matches a browser's initial text style.
var defaultText = textStyle{size: 16, lineHeight: 1.2}

// MetricsMeasurer measures fragments with a small box model over inline
// styles. Glyph advances come from the Go fonts and line breaks follow
// UAX #14. Vertical margins are summed, never collapsed, so heights err
// on the tall side. Safe for concurrent use.
type MetricsMeasurer struct {
	mu    sync.Mutex
	faces *faceCache
}

// NewMetricsMeasurer creates a MetricsMeasurer.
func NewMetricsMeasurer() (*MetricsMeasurer, error) {
	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	return &MetricsMeasurer{faces: faces}, nil
}

// Measure implements Measurer.
func (m *MetricsMeasurer) Measure(ctx context.Context, c Container) (Measurement, error) {
	if err := ctx.Err(); err != nil {
		return Measurement{}, err
	}
	nodes, err := topLevel(c.HTML)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: %v", ErrMeasure, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div,
		Attr: []html.Attribute{{Key: "style", Val: c.Style}}}
	text, box := computeStyle(root, defaultText)

	var out Measurement
	for i, n := range nodes {
		var h float64
		if n.Type == html.TextNode {
			h = m.inlineHeight([]*html.Node{n}, c.Width, text)
		} else {
			h = m.outerHeight(n, c.Width, text)
		}
		out.Children = append(out.Children, h)
		out.Total += h
		if i > 0 && box.isFlex() && !box.isRow() {
			out.Total += box.gap
		}
	}
	return out, nil
}

// outerHeight is the margin-box height of element n laid out in avail
// pixels of width.
func (m *MetricsMeasurer) outerHeight(n *html.Node, avail float64, parent textStyle) float64 {
	t, b := computeStyle(n, parent)
	if b.hidden {
		return 0
	}
	if n.DataAtom == atom.Img {
		return b.height + b.vertical()
	}
	if n.DataAtom == atom.Br {
		return t.lineBox()
	}

	inner := m.contentHeight(n, m.contentWidth(b, avail), t, b)
	if b.height > 0 {
		inner = b.height
		if b.borderBox {
			inner -= b.padding[0] + b.padding[2] + b.border[0] + b.border[2]
		}
	}
	return inner + b.vertical()
}

// contentWidth resolves the width of the content box.
func (m *MetricsMeasurer) contentWidth(b boxStyle, avail float64) float64 {
	w := avail - b.horizontalOuter()
	switch {
	case b.width > 0:
		w = b.width
		if !b.borderBox {
			return w
		}
	case b.widthPct > 0:
		w = avail * b.widthPct / 100
	}
	return math.Max(0, w-b.horizontalInner())
}

func (m *MetricsMeasurer) contentHeight(n *html.Node, width float64, t textStyle, b boxStyle) float64 {
	children := childNodes(n)
	if b.isFlex() {
		if b.isRow() {
			return m.flexRow(children, width, t, b)
		}
		return m.flexColumn(children, width, t, b.gap)
	}
	return m.blockFlow(children, width, t)
}

// blockFlow stacks block children and wraps runs of inline content in
// anonymous line boxes.
func (m *MetricsMeasurer) blockFlow(children []*html.Node, width float64, t textStyle) float64 {
	var h float64
	var inline []*html.Node
	flush := func() {
		if len(inline) > 0 {
			h += m.inlineHeight(inline, width, t)
			inline = inline[:0]
		}
	}
	for _, c := range children {
		if isBlockLevel(c, t) {
			flush()
			h += m.outerHeight(c, width, t)
			continue
		}
		inline = append(inline, c)
	}
	flush()
	return h
}

func (m *MetricsMeasurer) flexColumn(children []*html.Node, width float64, t textStyle, gap float64) float64 {
	var h float64
	count := 0
	for _, c := range children {
		ch := m.itemHeight(c, width, t)
		if ch == 0 && c.Type == html.TextNode {
			continue
		}
		if count > 0 {
			h += gap
		}
		h += ch
		count++
	}
	return h
}

// flexRow places items side by side, or in wrapped lines for
// flex-wrap containers.
func (m *MetricsMeasurer) flexRow(children []*html.Node, width float64, t textStyle, b boxStyle) float64 {
	items := flexItems(children)
	if len(items) == 0 {
		return 0
	}
	if b.wrap {
		return m.wrappedRow(items, width, t, b.gap)
	}

	widths := make([]float64, len(items))
	free := width - b.gap*float64(len(items)-1)
	var grow float64
	var auto []int
	for i, it := range items {
		_, ib := m.itemStyle(it, t)
		switch {
		case ib.flexBasis > 0:
			widths[i] = width * ib.flexBasis / 100
		case ib.width > 0:
			widths[i] = ib.width + ib.horizontalInner() + ib.horizontalOuter()
			if ib.borderBox {
				widths[i] = ib.width + ib.horizontalOuter()
			}
		case ib.flexGrow > 0:
			grow += ib.flexGrow
			continue
		case ib.flexNone:
			widths[i] = m.intrinsicWidth(it, t)
		default:
			auto = append(auto, i)
			continue
		}
		free -= widths[i]
	}
	for _, i := range auto {
		widths[i] = math.Min(m.intrinsicWidth(items[i], t), math.Max(0, free))
		free -= widths[i]
	}
	if grow > 0 {
		for i, it := range items {
			if _, ib := m.itemStyle(it, t); ib.flexGrow > 0 && ib.flexBasis == 0 && ib.width == 0 {
				widths[i] = math.Max(0, free) * ib.flexGrow / grow
			}
		}
	}

	var h float64
	for i, it := range items {
		h = math.Max(h, m.itemHeight(it, widths[i], t))
	}
	return h
}

func (m *MetricsMeasurer) wrappedRow(items []*html.Node, width float64, t textStyle, gap float64) float64 {
	var total, lineW, lineH float64
	lines := 0
	for _, it := range items {
		w := math.Min(m.intrinsicWidth(it, t), width)
		h := m.itemHeight(it, w, t)
		if lineW > 0 && lineW+gap+w > width {
			total += lineH
			lines++
			lineW, lineH = 0, 0
		}
		if lineW > 0 {
			lineW += gap
		}
		lineW += w
		lineH = math.Max(lineH, h)
	}
	total += lineH
	return total + gap*float64(lines)
}

// itemHeight measures a flex item, which is blockified.
func (m *MetricsMeasurer) itemHeight(n *html.Node, width float64, t textStyle) float64 {
	if n.Type == html.TextNode {
		return m.inlineHeight([]*html.Node{n}, width, t)
	}
	ct, b := computeStyle(n, t)
	if b.hidden {
		return 0
	}
	if b.flexBasis > 0 || b.width > 0 || b.flexGrow > 0 || b.flexNone {
		// The allotted width is the margin box; measure as a fixed block.
		var inner float64
		if n.DataAtom != atom.Img {
			inner = m.contentHeight(n, math.Max(0, width-b.horizontalOuter()-b.horizontalInner()), ct, b)
		}
		if b.height > 0 {
			inner = b.height
		}
		return inner + b.vertical()
	}
	return m.outerHeight(n, width, t)
}

func (m *MetricsMeasurer) itemStyle(n *html.Node, t textStyle) (textStyle, boxStyle) {
	if n.Type == html.TextNode {
		return t, boxStyle{display: "inline"}
	}
	return computeStyle(n, t)
}

// intrinsicWidth is the max-content width of n: its content on one line.
func (m *MetricsMeasurer) intrinsicWidth(n *html.Node, parent textStyle) float64 {
	if n.Type == html.TextNode {
		return m.lineWidth([]*html.Node{n}, parent)
	}
	t, b := computeStyle(n, parent)
	if b.hidden {
		return 0
	}
	if b.width > 0 {
		if b.borderBox {
			return b.width + b.horizontalOuter()
		}
		return b.width + b.horizontalInner() + b.horizontalOuter()
	}

	children := childNodes(n)
	var w float64
	switch {
	case b.isRow():
		items := flexItems(children)
		for i, c := range items {
			if i > 0 {
				w += b.gap
			}
			w += m.intrinsicWidth(c, t)
		}
	default:
		var inline []*html.Node
		for _, c := range children {
			if isBlockLevel(c, t) {
				w = math.Max(w, m.lineWidth(inline, t))
				inline = inline[:0]
				w = math.Max(w, m.intrinsicWidth(c, t))
				continue
			}
			inline = append(inline, c)
		}
		w = math.Max(w, m.lineWidth(inline, t))
	}
	return w + b.horizontalInner() + b.horizontalOuter()
}

// run is a span of collapsed text with one style.
type run struct {
	text []rune
	t    textStyle
}

// collectRuns flattens inline nodes into styled runs, collapsing
// whitespace the way white-space:normal does. <br> becomes '\n'.
func collectRuns(nodes []*html.Node, t textStyle) []run {
	var runs []run
	space := true // at line start, leading spaces are dropped
	var walk func(n *html.Node, t textStyle)
	walk = func(n *html.Node, t textStyle) {
		switch n.Type {
		case html.TextNode:
			var buf []rune
			for _, r := range n.Data {
				if unicode.IsSpace(r) && r != '\u00a0' {
					if space {
						continue
					}
					r = ' '
					space = true
				} else {
					space = false
				}
				buf = append(buf, r)
			}
			if len(buf) > 0 {
				runs = append(runs, run{text: buf, t: t})
			}
		case html.ElementNode:
			ct, cb := computeStyle(n, t)
			if cb.hidden {
				return
			}
			if n.DataAtom == atom.Br {
				runs = append(runs, run{text: []rune{'\n'}, t: ct})
				space = true
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, ct)
			}
		}
	}
	for _, n := range nodes {
		walk(n, t)
	}
	return runs
}

// lineWidth is the width of the inline content without wrapping.
func (m *MetricsMeasurer) lineWidth(nodes []*html.Node, t textStyle) float64 {
	var w, widest float64
	for _, r := range collectRuns(nodes, t) {
		f, err := m.faces.face(r.t.variant(), r.t.size)
		if err != nil {
			continue
		}
		for _, c := range r.text {
			if c == '\n' {
				widest = math.Max(widest, w)
				w = 0
				continue
			}
			w += advance(f, c, r.t.size)
		}
	}
	return math.Max(widest, w)
}

// inlineHeight lays inline content into lines of the given width and
// returns the summed line box heights.
func (m *MetricsMeasurer) inlineHeight(nodes []*html.Node, width float64, t textStyle) float64 {
	runs := collectRuns(nodes, t)

	var text []rune
	var widths, heights []float64
	var nowrap []bool
	for _, r := range runs {
		f, err := m.faces.face(r.t.variant(), r.t.size)
		for _, c := range r.text {
			text = append(text, c)
			adv := r.t.size / 2
			if err == nil {
				adv = advance(f, c, r.t.size)
			}
			if c == '\n' {
				adv = 0
			}
			widths = append(widths, adv)
			heights = append(heights, r.t.lineBox())
			nowrap = append(nowrap, r.t.nowrap)
		}
	}
	// Trailing collapsible space does not produce a line.
	for len(text) > 0 && text[len(text)-1] == ' ' {
		text, widths, heights = text[:len(text)-1], widths[:len(widths)-1], heights[:len(heights)-1]
	}
	if len(text) == 0 {
		return 0
	}

	strut := t.lineBox()
	var total, lineW float64
	lineH := strut
	open := false

	var seg segmenter.Segmenter
	seg.Init(text)
	it := seg.LineIterator()
	for it.Next() {
		l := it.Line()
		var w, trail, h float64
		for i := range l.Text {
			k := l.Offset + i
			w += widths[k]
			h = math.Max(h, heights[k])
			if l.Text[i] == ' ' || l.Text[i] == '\n' {
				trail += widths[k]
			} else {
				trail = 0
			}
		}
		wrapOK := !nowrap[l.Offset]
		if open && lineW > 0 && wrapOK && lineW+w-trail > width {
			total += lineH
			lineW, lineH = 0, strut
		}
		lineW += w
		lineH = math.Max(lineH, h)
		open = true
		if l.IsMandatoryBreak {
			total += lineH
			lineW, lineH = 0, strut
			open = false
		}
	}
	if open {
		total += lineH
	}
	return total
}

// isBlockLevel reports whether n starts a block in normal flow.
func isBlockLevel(n *html.Node, parent textStyle) bool {
	if n.Type != html.ElementNode {
		return false
	}
	_, b := computeStyle(n, parent)
	switch b.display {
	case "block", "flex", "list-item", "grid", "table":
		return true
	}
	return false
}

// childNodes returns element children and text children.
func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode || c.Type == html.TextNode {
			out = append(out, c)
		}
	}
	return out
}

// flexItems drops whitespace-only text between flex items.
func flexItems(children []*html.Node) []*html.Node {
	var out []*html.Node
	for _, c := range children {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Compile-time interface check.
var _ Measurer = (*MetricsMeasurer)(nil)
