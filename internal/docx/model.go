// Package docx builds WordprocessingML documents.
//
// A Document is a single-section body of paragraphs and tables. Lengths
// are twips (1/20 pt, 1440 per inch), font sizes half-points and colors
// six-digit hex without '#'. Write packages the document as an OOXML zip.
package docx

// Page is the size and margins of the single section, in twips.
type Page struct {
	Width, Height int
	Margins       Margins
}

// Margins are page or cell margins in twips.
type Margins struct {
	Top, Right, Bottom, Left int
}

// Defaults are the document-wide run properties.
type Defaults struct {
	Font  string
	Size  int // half-points
	Color string
}

// Block is a body-level element: *Paragraph or *Table.
type Block interface {
	block()
}

// Inline is paragraph content: Run, Link or Image.
type Inline interface {
	inline()
}

// Align is a paragraph justification value.
type Align string

const (
	AlignLeft   Align = ""
	AlignCenter Align = "center"
	AlignRight  Align = "right"
	AlignBoth   Align = "both"
)

// Paragraph is a w:p.
type Paragraph struct {
	Inlines      []Inline
	Align        Align
	Spacing      Spacing
	Indent       Indent
	Tabs         []TabStop
	Bullet       bool
	BorderBottom *Border
	Shading      string
	KeepNext     bool
}

// Spacing is paragraph spacing. Before and After are twips; Line is in
// 240ths of a line, 0 meaning the document default.
type Spacing struct {
	Before, After, Line int
}

// Indent is a paragraph indentation in twips.
type Indent struct {
	Left, Hanging int
}

// TabStop is a custom tab position in twips from the left margin.
type TabStop struct {
	Pos   int
	Align Align
}

// Border is a single-line border. Size is in eighths of a point.
type Border struct {
	Size  int
	Color string
	Space int // points between border and text
}

// Run is a span of text with one formatting.
type Run struct {
	Text    string
	Bold    bool
	Italic  bool
	Caps    bool
	Mono    bool
	Size    int // half-points, 0 inherits
	Color   string
	Font    string
	Shading string // background fill
	Tab     bool   // a tab character precedes the text
}

// Link is an external hyperlink around runs.
type Link struct {
	URL  string
	Runs []Run
}

// Image is an inline picture added with Document.AddImage.
type Image struct {
	id            int
	Width, Height int // pixels at 96 dpi
}

// Table is a w:tbl. Columns are grid widths in twips.
type Table struct {
	WidthPct int // percent of the text width, 0 for auto
	Columns  []int
	Rows     []Row
	Borders  bool
}

// Row is a table row.
type Row struct {
	Cells []Cell
}

// Cell is a table cell. A cell without paragraphs is written with an
// empty one, which the format requires.
type Cell struct {
	Width    int // twips
	WidthPct int // percent of the table width; overrides Width when set
	Shading  string
	Margins  *Margins
	Blocks   []Block
}

func (*Paragraph) block() {}
func (*Table) block()     {}
func (Run) inline()       {}
func (Link) inline()      {}
func (Image) inline()     {}

// Text is a convenience for a paragraph of one plain run.
func Text(s string) *Paragraph {
	return &Paragraph{Inlines: []Inline{Run{Text: s}}}
}

// media is an embedded PNG.
type media struct {
	data []byte
}

// Document is the body plus packaging metadata.
type Document struct {
	Page     Page
	Defaults Defaults
	Title    string
	Author   string
	Body     []Block
	media    []media
}

// New creates an empty document.
func New(page Page, defaults Defaults) *Document {
	return &Document{Page: page, Defaults: defaults}
}

// Add appends blocks to the body.
func (d *Document) Add(blocks ...Block) {
	d.Body = append(d.Body, blocks...)
}

// AddImage embeds PNG data and returns an inline image of the given
// display size in pixels.
func (d *Document) AddImage(png []byte, width, height int) Image {
	d.media = append(d.media, media{data: png})
	return Image{id: len(d.media), Width: width, Height: height}
}

// Media returns the number of embedded images.
func (d *Document) Media() int {
	return len(d.media)
}
