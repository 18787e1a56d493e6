package export

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alnah/go-cvkit/internal/docx"
	"github.com/alnah/go-cvkit/internal/layout"
	"github.com/alnah/go-cvkit/internal/style"
	"github.com/alnah/go-cvkit/resume"
)

const (
	twipsPerPixel = 15
	columnGap     = 240 // twips between the sidebar and main columns
)

// inks are the colors of one column.
type inks struct {
	text, muted, heading string
}

// builder maps a layout tree onto a docx document.
type builder struct {
	ctx    context.Context
	s      *style.Style
	doc    *docx.Document
	photos PhotoSource
	logger *slog.Logger
}

func (b *builder) build(t layout.Tree) *docx.Document {
	s := b.s
	w, h := s.PageTwips()
	m := s.Page.Margins
	b.doc = docx.New(
		docx.Page{Width: w, Height: h, Margins: docx.Margins{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left}},
		docx.Defaults{Font: s.Fonts.Body, Size: style.HalfPoints(s.Fonts.Size), Color: s.Palette.Text},
	)
	b.doc.Title = t.Header.Name
	b.doc.Author = t.Header.Name

	textWidth := w - m.Left - m.Right
	main := inks{text: s.Palette.Text, muted: s.Palette.Muted, heading: s.Palette.Heading}

	if !s.HasSidebar() {
		b.doc.Add(b.header(t.Header, textWidth)...)
		b.doc.Add(b.sections(t.Main, textWidth, main)...)
		return b.doc
	}

	sideWidth := textWidth * s.Sidebar.Ratio / 100
	mainWidth := textWidth - sideWidth
	pad := style.Twips(s.Sidebar.Padding)
	side := inks{text: s.Palette.SidebarText, muted: s.Palette.SidebarText, heading: s.Palette.SidebarText}

	flow := append(b.header(t.Header, mainWidth-columnGap), b.sections(t.Main, mainWidth-columnGap, main)...)
	// Cell widths are also written as shares of the table width.
	mainCell := docx.Cell{Width: mainWidth, WidthPct: s.MainRatio(), Blocks: flow, Margins: &docx.Margins{}}
	sideCell := docx.Cell{
		Width:    sideWidth,
		WidthPct: s.Sidebar.Ratio,
		Shading:  s.Palette.SidebarBackground,
		Margins:  &docx.Margins{Top: pad, Right: pad, Bottom: pad, Left: pad},
		Blocks:   b.sections(t.Sidebar, sideWidth-2*pad, side),
	}

	cells := []docx.Cell{sideCell, mainCell}
	columns := []int{sideWidth, mainWidth}
	if s.SidebarLeft() {
		mainCell.Margins.Left = columnGap
	} else {
		mainCell.Margins.Right = columnGap
		cells = []docx.Cell{mainCell, sideCell}
		columns = []int{mainWidth, sideWidth}
	}
	b.doc.Add(&docx.Table{WidthPct: 100, Columns: columns, Rows: []docx.Row{{Cells: cells}}})
	return b.doc
}

func (b *builder) header(h layout.Header, width int) []docx.Block {
	s := b.s
	p := s.Palette
	banner := s.Layout == style.LayoutBanner
	align := docx.AlignLeft
	if s.Header.Align == "center" {
		align = docx.AlignCenter
	}

	nameColor, mutedColor := p.Heading, p.Muted
	if banner {
		nameColor, mutedColor = p.BannerText, p.BannerText
	}

	var text []docx.Block
	if h.Name != "" {
		text = append(text, &docx.Paragraph{
			Align: align,
			Inlines: []docx.Inline{docx.Run{
				Text: h.Name, Bold: true, Font: s.Fonts.Heading,
				Size: style.HalfPoints(s.Fonts.NameSize), Color: nameColor,
			}},
		})
	}
	if h.Tagline != "" {
		text = append(text, &docx.Paragraph{
			Align:   align,
			Spacing: docx.Spacing{Before: 60},
			Inlines: []docx.Inline{docx.Run{Text: h.Tagline, Size: style.HalfPoints(s.Fonts.TaglineSize), Color: mutedColor}},
		})
	}
	if len(h.Contacts) > 0 {
		text = append(text, &docx.Paragraph{
			Align:   align,
			Spacing: docx.Spacing{Before: 90},
			Inlines: b.contacts(h.Contacts, mutedColor),
		})
	}

	blocks := text
	if h.ShowPhoto {
		blocks = b.withPhoto(h, text, width, align)
	}
	if banner {
		pad := 20 * twipsPerPixel
		blocks = []docx.Block{&docx.Table{
			WidthPct: 100,
			Columns:  []int{width},
			Rows: []docx.Row{{Cells: []docx.Cell{{
				Width:   width,
				Shading: p.BannerBackground,
				Margins: &docx.Margins{Top: pad, Right: 24 * twipsPerPixel, Bottom: pad, Left: 24 * twipsPerPixel},
				Blocks:  blocks,
			}}}},
		}}
	}
	return append(blocks, spacer(style.Twips(s.Headings.SpacingBefore)))
}

// withPhoto places the photo above centered headers and beside left
// aligned ones.
func (b *builder) withPhoto(h layout.Header, text []docx.Block, width int, align docx.Align) []docx.Block {
	photo := b.photo(h)
	if align == docx.AlignCenter {
		return append([]docx.Block{photo}, text...)
	}
	photoWidth := b.s.Header.PhotoSize*twipsPerPixel + columnGap
	return []docx.Block{&docx.Table{
		WidthPct: 100,
		Columns:  []int{photoWidth, width - photoWidth},
		Rows: []docx.Row{{Cells: []docx.Cell{
			{Width: photoWidth, Blocks: []docx.Block{photo}},
			{Width: width - photoWidth, Blocks: text},
		}}},
	}}
}

// photo returns the picture paragraph: the profile image, else a
// rasterized initials badge, else a shaded text badge.
func (b *builder) photo(h layout.Header) *docx.Paragraph {
	s := b.s
	size := s.Header.PhotoSize
	align := docx.AlignLeft
	if s.Header.Align == "center" {
		align = docx.AlignCenter
	}

	var png []byte
	if h.Photo != "" && b.photos != nil {
		// Rasterize at twice the display size for print.
		if s.Header.PhotoShape == "circle" {
			png = b.photos.Circular(b.ctx, h.Photo, size*2)
		} else {
			png = b.photos.Square(b.ctx, h.Photo, size*2)
		}
		if png == nil {
			b.logger.Debug("profile image unavailable, using initials badge")
		}
	}
	if png == nil && b.photos != nil && h.Initials != "" {
		png = b.photos.InitialsBadge(h.Initials, size*2, s.Palette.BadgeBackground)
	}
	if png != nil {
		img := b.doc.AddImage(png, size, size)
		return &docx.Paragraph{Align: align, Inlines: []docx.Inline{img}}
	}

	return &docx.Paragraph{
		Align:   align,
		Shading: s.Palette.BadgeBackground,
		Inlines: []docx.Inline{docx.Run{
			Text: " " + h.Initials + " ", Bold: true, Color: s.Palette.BadgeText,
			Size: style.HalfPoints(s.Fonts.NameSize),
		}},
	}
}

var contactIcons = map[layout.ContactKind]string{
	layout.ContactEmail:    "✉",
	layout.ContactPhone:    "☎",
	layout.ContactLinkedIn: "in",
	layout.ContactLocation: "⌂",
}

func (b *builder) contacts(contacts []layout.Contact, color string) []docx.Inline {
	s := b.s
	small := style.HalfPoints(s.Fonts.SmallSize)
	var out []docx.Inline
	for i, c := range contacts {
		if i > 0 {
			out = append(out, docx.Run{Text: s.Header.Separator, Size: small, Color: color})
		}
		if s.Header.Icons {
			out = append(out, docx.Run{Text: contactIcons[c.Kind] + " ", Size: small, Color: s.Palette.Accent})
		}
		run := docx.Run{Text: c.Text, Size: small, Color: color}
		if c.Link != "" && layout.SafeLink(c.Link) {
			out = append(out, docx.Link{URL: c.Link, Runs: []docx.Run{run}})
			continue
		}
		out = append(out, run)
	}
	return out
}

func (b *builder) sections(secs []layout.Section, width int, ink inks) []docx.Block {
	var out []docx.Block
	for i, sec := range secs {
		out = append(out, b.heading(sec.Title, ink, i > 0))
		for _, blk := range sec.Blocks {
			out = append(out, b.block(blk, width, ink)...)
		}
	}
	return out
}

func (b *builder) heading(title string, ink inks, spaced bool) *docx.Paragraph {
	s := b.s
	p := &docx.Paragraph{
		KeepNext: true,
		Spacing:  docx.Spacing{After: style.Twips(s.Headings.SpacingAfter)},
		Inlines: []docx.Inline{docx.Run{
			Text: title, Bold: true, Font: s.Fonts.Heading,
			Size: style.HalfPoints(s.Fonts.HeadingSize), Color: ink.heading,
		}},
	}
	if spaced {
		p.Spacing.Before = style.Twips(s.Headings.SpacingBefore)
	}
	if s.Headings.Rule && s.Headings.RuleSize > 0 {
		p.BorderBottom = &docx.Border{Size: s.Headings.RuleSize, Color: s.Palette.Rule, Space: 1}
	}
	return p
}

func (b *builder) block(blk layout.Block, width int, ink inks) []docx.Block {
	switch v := blk.(type) {
	case layout.Paragraph:
		return []docx.Block{&docx.Paragraph{Spacing: docx.Spacing{After: 60}, Inlines: runs(v.Runs, ink.text)}}
	case layout.Entry:
		return b.entry(v, width, ink)
	case layout.SkillGrid:
		return []docx.Block{b.skillGrid(v, width, ink)}
	case layout.TagList:
		return []docx.Block{b.tags(v.Items)}
	case layout.List:
		return list(v, ink)
	}
	return nil
}

func (b *builder) entry(e layout.Entry, width int, ink inks) []docx.Block {
	s := b.s
	small := style.HalfPoints(s.Fonts.SmallSize)

	title := []docx.Inline{docx.Run{Text: e.Title, Bold: true, Color: ink.text}}
	if e.Subtitle != "" {
		if e.Title != "" {
			title = append(title, docx.Run{Text: " · ", Color: ink.text})
		}
		sub := docx.Run{Text: e.Subtitle, Color: ink.muted}
		if e.Link != "" && layout.SafeLink(e.Link) {
			title = append(title, docx.Link{URL: e.Link, Runs: []docx.Run{sub}})
		} else {
			title = append(title, sub)
		}
	}

	meta := func(text string) *docx.Paragraph {
		return &docx.Paragraph{Inlines: []docx.Inline{docx.Run{Text: text, Size: small, Color: ink.muted}}}
	}

	head := &docx.Paragraph{Inlines: title, KeepNext: true}
	out := []docx.Block{head}
	if s.Entry.DatePosition == "right" && e.Dates != "" {
		head.Tabs = []docx.TabStop{{Pos: width, Align: docx.AlignRight}}
		head.Inlines = append(head.Inlines, docx.Run{Text: e.Dates, Tab: true, Size: small, Color: ink.muted})
		if e.Location != "" {
			out = append(out, meta(e.Location))
		}
	} else if text := joinNonEmpty(" · ", e.Dates, e.Location); text != "" {
		out = append(out, meta(text))
	}

	for i, bullet := range e.Bullets {
		p := &docx.Paragraph{Bullet: true, Spacing: docx.Spacing{After: 30}, Inlines: runs(bullet, ink.text)}
		if i == 0 {
			p.Spacing.Before = 60
		}
		out = append(out, p)
	}

	last := out[len(out)-1].(*docx.Paragraph)
	last.Spacing.After = 120
	return out
}

func (b *builder) skillGrid(g layout.SkillGrid, width int, ink inks) *docx.Table {
	n := max(len(g.Columns), 1)
	colWidth := width / n
	row := docx.Row{}
	columns := make([]int, 0, n)
	for _, col := range g.Columns {
		cell := docx.Cell{Width: colWidth}
		for _, sk := range col {
			inl := []docx.Inline{docx.Run{Text: sk.Name, Color: ink.text}}
			if g.ShowLevels && sk.Level != resume.LevelNone {
				inl = append(inl, docx.Run{Text: " " + layout.LevelDots(sk.Level), Color: b.s.Palette.Accent})
			}
			cell.Blocks = append(cell.Blocks, &docx.Paragraph{Spacing: docx.Spacing{After: 30}, Inlines: inl})
		}
		row.Cells = append(row.Cells, cell)
		columns = append(columns, colWidth)
	}
	return &docx.Table{WidthPct: 100, Columns: columns, Rows: []docx.Row{row}}
}

func (b *builder) tags(items []string) *docx.Paragraph {
	p := b.s.Palette
	small := style.HalfPoints(b.s.Fonts.SmallSize)
	var inl []docx.Inline
	for i, item := range items {
		if i > 0 {
			inl = append(inl, docx.Run{Text: "  ", Size: small})
		}
		inl = append(inl, docx.Run{Text: " " + item + " ", Size: small, Color: p.BadgeText, Shading: p.BadgeBackground})
	}
	return &docx.Paragraph{Spacing: docx.Spacing{After: 60, Line: 300}, Inlines: inl}
}

func list(l layout.List, ink inks) []docx.Block {
	if l.Inline {
		return []docx.Block{&docx.Paragraph{
			Spacing: docx.Spacing{After: 60},
			Inlines: []docx.Inline{docx.Run{Text: strings.Join(l.Items, " · "), Color: ink.text}},
		}}
	}
	out := make([]docx.Block, 0, len(l.Items))
	for _, item := range l.Items {
		out = append(out, &docx.Paragraph{Bullet: true, Spacing: docx.Spacing{After: 30},
			Inlines: []docx.Inline{docx.Run{Text: item, Color: ink.text}}})
	}
	return out
}

// runs maps styled layout runs; links become hyperlinks when safe.
func runs(in []layout.Run, color string) []docx.Inline {
	out := make([]docx.Inline, 0, len(in))
	for _, r := range in {
		run := docx.Run{Text: r.Text, Bold: r.Bold, Italic: r.Italic, Mono: r.Code, Color: color}
		if r.Link != "" && layout.SafeLink(r.Link) {
			out = append(out, docx.Link{URL: r.Link, Runs: []docx.Run{run}})
			continue
		}
		out = append(out, run)
	}
	return out
}

func spacer(after int) *docx.Paragraph {
	return &docx.Paragraph{Spacing: docx.Spacing{After: after}}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
