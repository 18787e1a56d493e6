package htmlrender

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-cvkit/internal/assets"
	"github.com/alnah/go-cvkit/internal/style"
)

// ErrShellRender indicates the page shell template failed.
var ErrShellRender = errors.New("page shell rendering failed")

// Page wraps one page worth of flow markup in the page sheet. The
// sidebar column is filled on the first page only; later pages keep the
// column background so the band runs the whole document.
func Page(s *style.Style, parts Parts, flow string, index int) string {
	g := s.Geometry()
	var b strings.Builder

	sheet := css().
		set("box-sizing", "border-box").
		set("width", px(g.Width)).
		set("min-height", px(g.Height)).
		set("background", "#ffffff").
		set("font-family", s.FontStack(s.Fonts.Body)).
		set("font-size", px(style.PtToPx(s.Fonts.Size))).
		set("line-height", num(s.Fonts.LineHeight)).
		set("color", style.Color(s.Palette.Text))

	if !s.HasSidebar() {
		sheet.set("padding", box(g.MarginTop, g.MarginRight, g.MarginBottom, g.MarginLeft))
		b.WriteString(`<div class="cv-sheet" style="`)
		b.WriteString(sheet.String())
		b.WriteString(`"><div data-part="flow" style="display:flex;flex-direction:column">`)
		b.WriteString(flow)
		b.WriteString(`</div></div>`)
		return b.String()
	}

	direction := "row"
	if !s.SidebarLeft() {
		direction = "row-reverse"
	}
	sheet.set("display", "flex").set("flex-direction", direction)

	pad := style.PtToPx(s.Sidebar.Padding)
	aside := css().
		set("flex", "0 0 "+fmt.Sprintf("%d%%", s.Sidebar.Ratio)).
		set("box-sizing", "border-box").
		set("padding", box(g.MarginTop, pad, g.MarginBottom, pad)).
		set("background", style.Color(s.Palette.SidebarBackground)).
		set("color", style.Color(s.Palette.SidebarText))
	main := css().
		set("flex", "1").
		set("box-sizing", "border-box").
		set("display", "flex").
		set("flex-direction", "column").
		set("padding", box(g.MarginTop, g.MarginRight, g.MarginBottom, g.MarginLeft))

	b.WriteString(`<div class="cv-sheet" style="`)
	b.WriteString(sheet.String())
	b.WriteString(`"><aside data-part="sidebar" style="`)
	b.WriteString(aside.String())
	b.WriteString(`">`)
	if index == 0 {
		b.WriteString(parts.Sidebar)
	}
	b.WriteString(`</aside><div data-part="flow" style="`)
	b.WriteString(main.String())
	b.WriteString(`">`)
	b.WriteString(flow)
	b.WriteString(`</div></div>`)
	return b.String()
}

// Shell renders complete HTML documents around rendered pages.
type Shell struct {
	tmpl *template.Template
	css  string
}

// NewShell loads the page shell and base stylesheet from loader.
func NewShell(loader assets.AssetLoader) (*Shell, error) {
	content, err := loader.Load(assets.KindShell, assets.DefaultShell)
	if err != nil {
		return nil, err
	}
	sheet, err := loader.Load(assets.KindStyle, assets.DefaultStyle)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("shell").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShellRender, err)
	}
	return &Shell{tmpl: tmpl, css: string(sheet)}, nil
}

// shellData is the page shell template input.
type shellData struct {
	Lang     string
	Title    string
	Template string
	PageSize template.CSS
	CSS      template.CSS
	Width    float64
	Height   float64
	Pages    []template.HTML
}

// Document renders pages into a standalone HTML document.
func (sh *Shell) Document(s *style.Style, title string, pages []string) (string, error) {
	g := s.Geometry()
	data := shellData{
		Lang:     "en",
		Title:    title,
		Template: s.Name,
		PageSize: template.CSS(s.Page.Size),
		CSS:      template.CSS(sh.css),
		Width:    g.Width,
		Height:   g.Height,
		Pages:    make([]template.HTML, len(pages)),
	}
	for i, p := range pages {
		data.Pages[i] = template.HTML(p) // #nosec G203 -- produced by Render, text escaped there
	}

	var buf bytes.Buffer
	if err := sh.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrShellRender, err)
	}
	return buf.String(), nil
}
