package layout

import (
	"strings"

	"github.com/alnah/go-cvkit/internal/dateutil"
	"github.com/alnah/go-cvkit/internal/style"
	"github.com/alnah/go-cvkit/resume"
)

// Build lays out doc with s. Only visible sections are included, in
// document order; sections that end up with no blocks are dropped.
func Build(doc resume.Document, s *style.Style) Tree {
	b := builder{doc: doc, style: s, dates: s.Dates()}

	t := Tree{Style: s, Header: b.header()}
	for _, key := range doc.VisibleSections() {
		sidebar := s.InSidebar(key)
		blocks := b.blocks(key, sidebar)
		if len(blocks) == 0 {
			continue
		}
		sec := Section{
			Key:    key,
			Title:  s.HeadingText(s.Label(key, doc.SectionLabel(key))),
			Blocks: blocks,
		}
		if sidebar {
			t.Sidebar = append(t.Sidebar, sec)
		} else {
			t.Main = append(t.Main, sec)
		}
	}
	return t
}

type builder struct {
	doc   resume.Document
	style *style.Style
	dates dateutil.Formatter
}

func (b builder) header() Header {
	p := b.doc.Personal
	h := Header{
		Name:      b.style.NameText(p.FullName()),
		Tagline:   strings.TrimSpace(p.Tagline),
		ShowPhoto: b.style.Header.Photo,
		Initials:  p.Initials(),
	}
	if h.ShowPhoto {
		h.Photo = strings.TrimSpace(p.ProfileImage)
	}

	if email := strings.TrimSpace(p.Email); email != "" {
		h.Contacts = append(h.Contacts, Contact{Kind: ContactEmail, Text: email, Link: "mailto:" + email})
	}
	if phone := strings.TrimSpace(p.Phone); phone != "" {
		h.Contacts = append(h.Contacts, Contact{Kind: ContactPhone, Text: phone, Link: "tel:" + strings.ReplaceAll(phone, " ", "")})
	}
	if li := strings.TrimSpace(p.LinkedIn); li != "" {
		h.Contacts = append(h.Contacts, Contact{Kind: ContactLinkedIn, Text: displayURL(li), Link: absoluteURL(li)})
	}
	if loc := p.Location(); loc != "" {
		h.Contacts = append(h.Contacts, Contact{Kind: ContactLocation, Text: loc})
	}
	return h
}

func (b builder) blocks(key string, sidebar bool) []Block {
	d := b.doc
	switch key {
	case resume.KeySummary:
		return paragraphs(d.Summary)
	case resume.KeyEmployment:
		return collect(d.Employment, func(e resume.Employment) (Entry, bool) {
			return Entry{
				Title:    strings.TrimSpace(e.JobTitle),
				Subtitle: strings.TrimSpace(e.Company),
				Dates:    b.dates.Range(e.Start, e.End),
				Location: strings.TrimSpace(e.Location),
				Bullets:  bullets(e.Description),
			}, !e.IsZero()
		})
	case resume.KeyEducation:
		return collect(d.Education, func(e resume.Education) (Entry, bool) {
			title, subtitle := strings.TrimSpace(e.Degree), strings.TrimSpace(e.School)
			if title == "" {
				title, subtitle = subtitle, ""
			}
			return Entry{
				Title:    title,
				Subtitle: subtitle,
				Dates:    b.dates.Range(e.Start, e.End),
				Location: strings.TrimSpace(e.Location),
				Bullets:  bullets(e.Description),
			}, !e.IsZero()
		})
	case resume.KeyProjects:
		return collect(d.Projects, func(p resume.Project) (Entry, bool) {
			link := strings.TrimSpace(p.Link)
			return Entry{
				Title:    strings.TrimSpace(p.Title),
				Subtitle: displayURL(link),
				Link:     absoluteURL(link),
				Dates:    b.dates.Range(p.Start, p.End),
				Location: strings.TrimSpace(p.Location),
				Bullets:  bullets(p.Description),
			}, !p.IsZero()
		})
	case resume.KeySkills:
		return b.skills(sidebar)
	case resume.KeyCertifications:
		return b.list(d.Certifications.Normalize())
	case resume.KeyLanguages:
		return b.list(d.Languages.Normalize())
	}

	v := d.Custom[key]
	if v.Mode() == resume.ModeSimple {
		return paragraphs(v.Text)
	}
	return collect(v.Entries, func(e resume.CustomEntry) (Entry, bool) {
		return Entry{
			Title:    strings.TrimSpace(e.Title),
			Subtitle: strings.TrimSpace(e.Subtitle),
			Dates:    b.dates.Format(e.Date),
			Location: strings.TrimSpace(e.Location),
			Bullets:  bullets(e.Description),
		}, !e.IsZero()
	})
}

func (b builder) skills(sidebar bool) []Block {
	skills := b.doc.Skills.Normalize()
	if len(skills) == 0 {
		return nil
	}
	if b.style.Skills.Display == "tags" {
		return []Block{TagList{Items: b.doc.Skills.Labels()}}
	}
	columns := b.style.Skills.Columns
	if sidebar {
		columns = 1
	}
	return []Block{SkillGrid{
		Columns:    resume.Columns(skills, columns),
		ShowLevels: b.style.Skills.Levels,
	}}
}

func (b builder) list(items []string) []Block {
	if len(items) == 0 {
		return nil
	}
	return []Block{List{Items: items, Inline: b.style.Lists.Display == "inline"}}
}

func collect[T any](items []T, entry func(T) (Entry, bool)) []Block {
	var out []Block
	for _, item := range items {
		if e, ok := entry(item); ok {
			out = append(out, e)
		}
	}
	return out
}

func paragraphs(text string) []Block {
	var out []Block
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if runs := ParseInline(line); len(runs) > 0 {
			out = append(out, Paragraph{Runs: runs})
		}
	}
	return out
}

func bullets(desc string) [][]Run {
	lines := resume.BulletLines(desc)
	if len(lines) == 0 {
		return nil
	}
	out := make([][]Run, 0, len(lines))
	for _, line := range lines {
		out = append(out, ParseInline(line))
	}
	return out
}

func displayURL(u string) string {
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimSuffix(u, "/")
}

func absoluteURL(u string) string {
	if u == "" || strings.Contains(u, "://") {
		return u
	}
	return "https://" + u
}
