// Package htmlrender serializes a layout tree to HTML.
//
// Markup is inline-styled so that every top-level child of the flow is
// self-contained and can be measured and moved to another page on its
// own. The only external stylesheet is the base sheet from the asset
// loader, used by the page shell.
package htmlrender

import (
	"html"
	"strings"

	"github.com/alnah/go-cvkit/internal/layout"
	"github.com/alnah/go-cvkit/internal/style"
	"github.com/alnah/go-cvkit/resume"
)

// Parts is a rendered tree split by destination.
type Parts struct {
	// Flow holds the header and the main sections as top-level children.
	// It is what the paginator distributes across pages.
	Flow string

	// Sidebar holds the sidebar sections, shown beside the flow on the
	// first page. Empty for layouts without a sidebar.
	Sidebar string

	// FlowWidth and FlowHeight are the content box of the flow column in
	// CSS pixels.
	FlowWidth  float64
	FlowHeight float64

	// BaseStyle is the inline style of the flow container.
	BaseStyle string
}

// Render serializes t. The result depends only on t.
func Render(t layout.Tree) Parts {
	r := renderer{s: t.Style}
	g := t.Style.Geometry()

	var flow strings.Builder
	r.header(&flow, t.Header)
	for _, sec := range t.Main {
		r.section(&flow, sec, false)
	}

	var side strings.Builder
	for _, sec := range t.Sidebar {
		r.section(&side, sec, true)
	}

	width := g.ContentWidth()
	if t.Style.HasSidebar() {
		width = g.Width*float64(t.Style.MainRatio())/100 - g.MarginLeft - g.MarginRight
	}

	return Parts{
		Flow:       flow.String(),
		Sidebar:    side.String(),
		FlowWidth:  width,
		FlowHeight: g.ContentHeight(),
		BaseStyle:  r.baseStyle(),
	}
}

type renderer struct {
	s *style.Style
}

func (r renderer) baseStyle() string {
	f := r.s.Fonts
	return css().
		set("display", "flex").
		set("flex-direction", "column").
		set("font-family", r.s.FontStack(f.Body)).
		set("font-size", px(style.PtToPx(f.Size))).
		set("line-height", num(f.LineHeight)).
		set("color", style.Color(r.s.Palette.Text)).
		String()
}

func (r renderer) header(b *strings.Builder, h layout.Header) {
	p := r.s.Palette
	banner := r.s.Layout == style.LayoutBanner

	nameColor, mutedColor := p.Heading, p.Muted
	hs := css().
		set("text-align", r.s.Header.Align).
		set("margin", box(0, 0, style.PtToPx(r.s.Headings.SpacingBefore), 0))
	if banner {
		nameColor, mutedColor = p.BannerText, p.BannerText
		hs.set("padding", box(20, 24, 20, 24)).
			set("background", style.Color(p.BannerBackground)).
			set("color", style.Color(p.BannerText))
	}

	b.WriteString(`<header data-part="header" style="`)
	b.WriteString(hs.String())
	b.WriteString(`">`)

	photo := h.ShowPhoto
	if photo {
		justify := "flex-start"
		if r.s.Header.Align == "center" {
			justify = "center"
		}
		b.WriteString(`<div style="`)
		b.WriteString(css().set("display", "flex").set("align-items", "center").set("justify-content", justify).set("gap", px(16)).String())
		b.WriteString(`">`)
		r.photo(b, h)
		b.WriteString(`<div>`)
	}

	if h.Name != "" {
		b.WriteString(`<h1 style="`)
		b.WriteString(css().
			set("font-family", r.s.FontStack(r.s.Fonts.Heading)).
			set("font-size", px(style.PtToPx(r.s.Fonts.NameSize))).
			set("font-weight", "700").
			set("line-height", "1.2").
			set("color", style.Color(nameColor)).
			set("margin", "0").
			String())
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(h.Name))
		b.WriteString(`</h1>`)
	}
	if h.Tagline != "" {
		b.WriteString(`<p style="`)
		b.WriteString(css().
			set("font-size", px(style.PtToPx(r.s.Fonts.TaglineSize))).
			set("color", style.Color(mutedColor)).
			set("margin", box(4, 0, 0, 0)).
			String())
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(h.Tagline))
		b.WriteString(`</p>`)
	}
	if len(h.Contacts) > 0 {
		r.contacts(b, h.Contacts, mutedColor)
	}

	if photo {
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</header>`)
}

var contactIcons = map[layout.ContactKind]string{
	layout.ContactEmail:    "✉",
	layout.ContactPhone:    "☎",
	layout.ContactLinkedIn: "in",
	layout.ContactLocation: "⌂",
}

func (r renderer) contacts(b *strings.Builder, contacts []layout.Contact, color string) {
	b.WriteString(`<p style="`)
	b.WriteString(css().
		set("font-size", px(style.PtToPx(r.s.Fonts.SmallSize))).
		set("color", style.Color(color)).
		set("margin", box(6, 0, 0, 0)).
		String())
	b.WriteString(`">`)
	for i, c := range contacts {
		if i > 0 {
			b.WriteString(`<span>`)
			b.WriteString(html.EscapeString(r.s.Header.Separator))
			b.WriteString(`</span>`)
		}
		b.WriteString(`<span data-contact="`)
		b.WriteString(string(c.Kind))
		b.WriteString(`">`)
		if r.s.Header.Icons {
			b.WriteString(`<span style="color:`)
			b.WriteString(style.Color(r.s.Palette.Accent))
			b.WriteString(`">`)
			b.WriteString(contactIcons[c.Kind])
			b.WriteString(`</span> `)
		}
		writeLinked(b, c.Text, c.Link)
		b.WriteString(`</span>`)
	}
	b.WriteString(`</p>`)
}

func (r renderer) photo(b *strings.Builder, h layout.Header) {
	size := float64(r.s.Header.PhotoSize)
	radius := "0"
	if r.s.Header.PhotoShape == "circle" {
		radius = "50%"
	}
	ps := css().
		set("flex", "none").
		set("width", px(size)).
		set("height", px(size)).
		set("border-radius", radius)

	if h.Photo != "" && safePhoto(h.Photo) {
		b.WriteString(`<img class="cv-photo" alt="" src="`)
		b.WriteString(html.EscapeString(h.Photo))
		b.WriteString(`" style="`)
		b.WriteString(ps.String())
		b.WriteString(`">`)
		return
	}

	ps.set("display", "flex").
		set("align-items", "center").
		set("justify-content", "center").
		set("background", style.Color(r.s.Palette.BadgeBackground)).
		set("color", style.Color(r.s.Palette.BadgeText)).
		set("font-size", px(size*0.38)).
		set("font-weight", "700").
		set("line-height", "1")
	b.WriteString(`<div class="cv-photo" data-part="initials" style="`)
	b.WriteString(ps.String())
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(h.Initials))
	b.WriteString(`</div>`)
}

func (r renderer) section(b *strings.Builder, sec layout.Section, sidebar bool) {
	p := r.s.Palette
	headingColor := p.Heading
	if sidebar {
		headingColor = p.SidebarText
	}

	b.WriteString(`<section data-key="`)
	b.WriteString(html.EscapeString(sec.Key))
	b.WriteString(`" style="`)
	b.WriteString(css().set("margin", box(0, 0, style.PtToPx(r.s.Headings.SpacingBefore), 0)).String())
	b.WriteString(`">`)

	hs := css().
		set("font-family", r.s.FontStack(r.s.Fonts.Heading)).
		set("font-size", px(style.PtToPx(r.s.Fonts.HeadingSize))).
		set("font-weight", "700").
		set("line-height", "1.25").
		set("color", style.Color(headingColor)).
		set("margin", box(0, 0, style.PtToPx(r.s.Headings.SpacingAfter), 0))
	if r.s.Headings.Rule && r.s.Headings.RuleSize > 0 {
		hs.set("padding", box(0, 0, 3, 0)).
			set("border-bottom", px(ruleWidth(r.s.Headings.RuleSize))+" solid "+style.Color(p.Rule))
	}
	b.WriteString(`<h2 style="`)
	b.WriteString(hs.String())
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(sec.Title))
	b.WriteString(`</h2>`)

	for _, blk := range sec.Blocks {
		r.block(b, blk, sidebar)
	}
	b.WriteString(`</section>`)
}

// ruleWidth converts eighths of a point to pixels, at least one pixel.
func ruleWidth(eighths int) float64 {
	w := style.PtToPx(float64(eighths) / 8)
	if w < 1 {
		return 1
	}
	return w
}

func (r renderer) block(b *strings.Builder, blk layout.Block, sidebar bool) {
	switch v := blk.(type) {
	case layout.Paragraph:
		b.WriteString(`<p style="margin:0 0 4px 0">`)
		writeRuns(b, v.Runs)
		b.WriteString(`</p>`)
	case layout.Entry:
		r.entry(b, v)
	case layout.SkillGrid:
		r.skillGrid(b, v)
	case layout.TagList:
		r.tags(b, v.Items)
	case layout.List:
		r.list(b, v)
	}
}

func (r renderer) entry(b *strings.Builder, e layout.Entry) {
	small := px(style.PtToPx(r.s.Fonts.SmallSize))
	muted := style.Color(r.s.Palette.Muted)

	b.WriteString(`<div data-part="entry" style="margin:0 0 8px 0">`)

	title := func() {
		b.WriteString(`<h3 style="`)
		b.WriteString(css().set("flex", "1").set("font-size", px(style.PtToPx(r.s.Fonts.Size))).set("font-weight", "700").set("margin", "0").String())
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(e.Title))
		if e.Subtitle != "" {
			if e.Title != "" {
				b.WriteString(`<span style="font-weight:400"> · </span>`)
			}
			b.WriteString(`<span style="font-weight:400;color:`)
			b.WriteString(muted)
			b.WriteString(`">`)
			writeLinked(b, e.Subtitle, e.Link)
			b.WriteString(`</span>`)
		}
		b.WriteString(`</h3>`)
	}
	meta := func(text string) {
		if text == "" {
			return
		}
		b.WriteString(`<p style="`)
		b.WriteString(css().set("font-size", small).set("color", muted).set("margin", "0").String())
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(text))
		b.WriteString(`</p>`)
	}

	if r.s.Entry.DatePosition == "right" && e.Dates != "" {
		b.WriteString(`<div style="display:flex;justify-content:space-between;gap:12px">`)
		title()
		b.WriteString(`<span style="`)
		b.WriteString(css().set("flex", "none").set("font-size", small).set("color", muted).set("white-space", "nowrap").String())
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(e.Dates))
		b.WriteString(`</span></div>`)
		meta(e.Location)
	} else {
		title()
		meta(join(" · ", e.Dates, e.Location))
	}

	if len(e.Bullets) > 0 {
		b.WriteString(`<ul style="margin:4px 0 0 0;padding:0 0 0 16px">`)
		for _, runs := range e.Bullets {
			b.WriteString(`<li style="margin:0 0 2px 0">`)
			writeRuns(b, runs)
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</div>`)
}

func (r renderer) skillGrid(b *strings.Builder, g layout.SkillGrid) {
	b.WriteString(`<div data-part="skills" style="display:flex;gap:12px">`)
	for _, col := range g.Columns {
		b.WriteString(`<ul style="flex:1;margin:0;padding:0;list-style:none">`)
		for _, sk := range col {
			b.WriteString(`<li style="margin:0 0 2px 0">`)
			b.WriteString(html.EscapeString(sk.Name))
			if g.ShowLevels && sk.Level != resume.LevelNone {
				b.WriteString(` <span title="`)
				b.WriteString(string(sk.Level))
				b.WriteString(`" style="color:`)
				b.WriteString(style.Color(r.s.Palette.Accent))
				b.WriteString(`">`)
				b.WriteString(layout.LevelDots(sk.Level))
				b.WriteString(`</span>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</div>`)
}

func (r renderer) tags(b *strings.Builder, items []string) {
	b.WriteString(`<div data-part="tags" style="display:flex;flex-wrap:wrap;gap:6px">`)
	chip := css().
		set("display", "inline-block").
		set("padding", box(2, 8, 2, 8)).
		set("border-radius", px(10)).
		set("background", style.Color(r.s.Palette.BadgeBackground)).
		set("color", style.Color(r.s.Palette.BadgeText)).
		set("font-size", px(style.PtToPx(r.s.Fonts.SmallSize))).
		String()
	for _, item := range items {
		b.WriteString(`<span style="`)
		b.WriteString(chip)
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(item))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
}

func (r renderer) list(b *strings.Builder, l layout.List) {
	if l.Inline {
		b.WriteString(`<p style="margin:0">`)
		b.WriteString(html.EscapeString(strings.Join(l.Items, " · ")))
		b.WriteString(`</p>`)
		return
	}
	b.WriteString(`<ul style="margin:0;padding:0 0 0 16px">`)
	for _, item := range l.Items {
		b.WriteString(`<li style="margin:0 0 2px 0">`)
		b.WriteString(html.EscapeString(item))
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
}

func writeRuns(b *strings.Builder, runs []layout.Run) {
	for _, run := range runs {
		text := html.EscapeString(run.Text)
		if run.Code {
			text = `<code>` + text + `</code>`
		}
		if run.Italic {
			text = `<em>` + text + `</em>`
		}
		if run.Bold {
			text = `<strong>` + text + `</strong>`
		}
		if run.Link != "" && layout.SafeLink(run.Link) {
			text = `<a href="` + html.EscapeString(run.Link) + `">` + text + `</a>`
		}
		b.WriteString(text)
	}
}

func writeLinked(b *strings.Builder, text, link string) {
	if link == "" || !layout.SafeLink(link) {
		b.WriteString(html.EscapeString(text))
		return
	}
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(link))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(text))
	b.WriteString(`</a>`)
}

// safePhoto accepts image references a browser can display.
func safePhoto(ref string) bool {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "data:") {
		return strings.HasPrefix(lower, "data:image/")
	}
	return layout.SafeLink(ref) || strings.HasPrefix(lower, "blob:") || strings.HasPrefix(lower, "file:")
}

func join(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
