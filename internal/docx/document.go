package docx

import (
	"fmt"
	"strings"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	// emuPerPixel converts 96 dpi pixels to English Metric Units.
	emuPerPixel = 9525

	bulletNumID = "1"
)

// bodyWriter serializes word/document.xml and records the hyperlinks
// it meets, in order, for the relationships part.
type bodyWriter struct {
	*xw
	links []string
}

func imageRelID(id int) string { return fmt.Sprintf("rIdImage%d", id) }
func linkRelID(n int) string   { return fmt.Sprintf("rIdLink%d", n) }

func (d *Document) documentXML() ([]byte, []string) {
	w := &bodyWriter{xw: newXW()}
	w.open("w:document", "xmlns:w", nsW, "xmlns:r", nsR, "xmlns:wp", nsWP)
	w.open("w:body")
	for _, b := range d.Body {
		w.block(b)
	}
	w.section(d.Page)
	w.close("w:body")
	w.close("w:document")
	return w.bytes(), w.links
}

func (w *bodyWriter) block(b Block) {
	switch v := b.(type) {
	case *Paragraph:
		w.paragraph(v)
	case *Table:
		w.table(v)
	}
}

func (w *bodyWriter) section(p Page) {
	w.open("w:sectPr")
	w.empty("w:pgSz", "w:w", itoa(p.Width), "w:h", itoa(p.Height))
	m := p.Margins
	w.empty("w:pgMar",
		"w:top", itoa(m.Top), "w:right", itoa(m.Right),
		"w:bottom", itoa(m.Bottom), "w:left", itoa(m.Left),
		"w:header", "708", "w:footer", "708", "w:gutter", "0")
	w.close("w:sectPr")
}

func (w *bodyWriter) paragraph(p *Paragraph) {
	w.open("w:p")
	w.paragraphProps(p)
	for _, in := range p.Inlines {
		switch v := in.(type) {
		case Run:
			w.run(v)
		case Link:
			w.link(v)
		case Image:
			w.image(v)
		}
	}
	w.close("w:p")
}

// paragraphProps follows the CT_PPr child order.
func (w *bodyWriter) paragraphProps(p *Paragraph) {
	w.open("w:pPr")
	if p.KeepNext {
		w.empty("w:keepNext")
	}
	if p.Bullet {
		w.open("w:numPr")
		w.empty("w:ilvl", "w:val", "0")
		w.empty("w:numId", "w:val", bulletNumID)
		w.close("w:numPr")
	}
	if b := p.BorderBottom; b != nil {
		w.open("w:pBdr")
		w.empty("w:bottom", "w:val", "single", "w:sz", itoa(b.Size),
			"w:space", itoa(b.Space), "w:color", colorOr(b.Color, "auto"))
		w.close("w:pBdr")
	}
	if p.Shading != "" {
		w.empty("w:shd", "w:val", "clear", "w:color", "auto", "w:fill", p.Shading)
	}
	if len(p.Tabs) > 0 {
		w.open("w:tabs")
		for _, t := range p.Tabs {
			w.empty("w:tab", "w:val", tabAlign(t.Align), "w:pos", itoa(t.Pos))
		}
		w.close("w:tabs")
	}
	s := p.Spacing
	attrs := []string{"w:before", itoa(s.Before), "w:after", itoa(s.After)}
	if s.Line > 0 {
		attrs = append(attrs, "w:line", itoa(s.Line), "w:lineRule", "auto")
	}
	w.empty("w:spacing", attrs...)
	if p.Indent.Left > 0 || p.Indent.Hanging > 0 {
		w.empty("w:ind", "w:left", itoa(p.Indent.Left), "w:hanging", itoa(p.Indent.Hanging))
	}
	if p.Align != AlignLeft {
		w.empty("w:jc", "w:val", string(p.Align))
	}
	w.close("w:pPr")
}

func tabAlign(a Align) string {
	if a == AlignLeft {
		return "left"
	}
	return string(a)
}

func (w *bodyWriter) run(r Run) {
	w.open("w:r")
	w.runProps(r)
	if r.Tab {
		w.empty("w:tab")
	}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			w.empty("w:br")
		}
		if line != "" {
			w.leaf("w:t", line, "xml:space", "preserve")
		}
	}
	w.close("w:r")
}

// runProps follows the CT_RPr child order.
func (w *bodyWriter) runProps(r Run) {
	font := r.Font
	if r.Mono && font == "" {
		font = "Courier New"
	}
	if font == "" && !r.Bold && !r.Italic && !r.Caps && r.Color == "" && r.Size == 0 && r.Shading == "" {
		return
	}
	w.open("w:rPr")
	if font != "" {
		w.empty("w:rFonts", "w:ascii", font, "w:hAnsi", font, "w:cs", font)
	}
	if r.Bold {
		w.empty("w:b")
	}
	if r.Italic {
		w.empty("w:i")
	}
	if r.Caps {
		w.empty("w:caps")
	}
	if r.Color != "" {
		w.empty("w:color", "w:val", r.Color)
	}
	if r.Size > 0 {
		w.empty("w:sz", "w:val", itoa(r.Size))
		w.empty("w:szCs", "w:val", itoa(r.Size))
	}
	if r.Shading != "" {
		w.empty("w:shd", "w:val", "clear", "w:color", "auto", "w:fill", r.Shading)
	}
	w.close("w:rPr")
}

func (w *bodyWriter) link(l Link) {
	w.links = append(w.links, l.URL)
	w.open("w:hyperlink", "r:id", linkRelID(len(w.links)), "w:history", "1")
	for _, r := range l.Runs {
		w.run(r)
	}
	w.close("w:hyperlink")
}

func (w *bodyWriter) image(img Image) {
	cx, cy := itoa(img.Width*emuPerPixel), itoa(img.Height*emuPerPixel)
	name := fmt.Sprintf("image%d.png", img.id)

	w.open("w:r")
	w.open("w:drawing")
	w.open("wp:inline", "distT", "0", "distB", "0", "distL", "0", "distR", "0")
	w.empty("wp:extent", "cx", cx, "cy", cy)
	w.empty("wp:docPr", "id", itoa(img.id), "name", fmt.Sprintf("Picture %d", img.id))
	w.open("a:graphic", "xmlns:a", nsA)
	w.open("a:graphicData", "uri", nsPic)
	w.open("pic:pic", "xmlns:pic", nsPic)
	w.open("pic:nvPicPr")
	w.empty("pic:cNvPr", "id", "0", "name", name)
	w.empty("pic:cNvPicPr")
	w.close("pic:nvPicPr")
	w.open("pic:blipFill")
	w.empty("a:blip", "r:embed", imageRelID(img.id))
	w.open("a:stretch")
	w.empty("a:fillRect")
	w.close("a:stretch")
	w.close("pic:blipFill")
	w.open("pic:spPr")
	w.open("a:xfrm")
	w.empty("a:off", "x", "0", "y", "0")
	w.empty("a:ext", "cx", cx, "cy", cy)
	w.close("a:xfrm")
	w.open("a:prstGeom", "prst", "rect")
	w.empty("a:avLst")
	w.close("a:prstGeom")
	w.close("pic:spPr")
	w.close("pic:pic")
	w.close("a:graphicData")
	w.close("a:graphic")
	w.close("wp:inline")
	w.close("w:drawing")
	w.close("w:r")
}

func (w *bodyWriter) table(t *Table) {
	w.open("w:tbl")
	w.open("w:tblPr")
	if t.WidthPct > 0 {
		w.empty("w:tblW", "w:w", itoa(t.WidthPct*50), "w:type", "pct")
	} else {
		w.empty("w:tblW", "w:w", "0", "w:type", "auto")
	}
	w.open("w:tblBorders")
	for _, side := range []string{"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV"} {
		if t.Borders {
			w.empty(side, "w:val", "single", "w:sz", "4", "w:space", "0", "w:color", "auto")
		} else {
			w.empty(side, "w:val", "nil")
		}
	}
	w.close("w:tblBorders")
	w.empty("w:tblLayout", "w:type", "fixed")
	w.open("w:tblCellMar")
	w.empty("w:left", "w:w", "0", "w:type", "dxa")
	w.empty("w:right", "w:w", "0", "w:type", "dxa")
	w.close("w:tblCellMar")
	w.close("w:tblPr")

	w.open("w:tblGrid")
	for _, c := range t.Columns {
		w.empty("w:gridCol", "w:w", itoa(c))
	}
	w.close("w:tblGrid")

	for _, row := range t.Rows {
		w.open("w:tr")
		for _, cell := range row.Cells {
			w.cell(cell)
		}
		w.close("w:tr")
	}
	w.close("w:tbl")
}

// cell follows the CT_TcPr child order and always ends with a paragraph.
func (w *bodyWriter) cell(c Cell) {
	w.open("w:tc")
	w.open("w:tcPr")
	if c.WidthPct > 0 {
		w.empty("w:tcW", "w:w", itoa(c.WidthPct*50), "w:type", "pct")
	} else {
		w.empty("w:tcW", "w:w", itoa(c.Width), "w:type", "dxa")
	}
	if c.Shading != "" {
		w.empty("w:shd", "w:val", "clear", "w:color", "auto", "w:fill", c.Shading)
	}
	if m := c.Margins; m != nil {
		w.open("w:tcMar")
		w.empty("w:top", "w:w", itoa(m.Top), "w:type", "dxa")
		w.empty("w:left", "w:w", itoa(m.Left), "w:type", "dxa")
		w.empty("w:bottom", "w:w", itoa(m.Bottom), "w:type", "dxa")
		w.empty("w:right", "w:w", itoa(m.Right), "w:type", "dxa")
		w.close("w:tcMar")
	}
	w.close("w:tcPr")

	last := len(c.Blocks) - 1
	for _, b := range c.Blocks {
		w.block(b)
	}
	if last < 0 {
		w.empty("w:p")
	} else if _, ok := c.Blocks[last].(*Paragraph); !ok {
		w.empty("w:p")
	}
	w.close("w:tc")
}

func colorOr(c, fallback string) string {
	if c == "" {
		return fallback
	}
	return c
}
