// Package layout builds the target-agnostic layout tree for a résumé.
//
// The tree is produced once per render from a resume.Document and a
// style.Style. It already encodes every visual decision both outputs
// share: which sections appear and in which column, how skills split into
// columns, how descriptions break into bullets, and how inline emphasis
// maps onto styled runs. The HTML and DOCX serializers only decide how to
// draw it.
package layout

import (
	"strings"

	"github.com/alnah/go-cvkit/internal/style"
	"github.com/alnah/go-cvkit/resume"
)

// Tree is a laid-out résumé.
type Tree struct {
	Style   *style.Style
	Header  Header
	Main    []Section
	Sidebar []Section // empty unless the style has a sidebar
}

// Sections returns main and sidebar sections in document order.
func (t Tree) Sections() []Section {
	out := make([]Section, 0, len(t.Main)+len(t.Sidebar))
	return append(append(out, t.Main...), t.Sidebar...)
}

// ContactKind identifies a contact line in the header.
type ContactKind string

const (
	ContactEmail    ContactKind = "email"
	ContactPhone    ContactKind = "phone"
	ContactLinkedIn ContactKind = "linkedin"
	ContactLocation ContactKind = "location"
)

// Contact is one header contact item. Link is empty when not clickable.
type Contact struct {
	Kind ContactKind
	Text string
	Link string
}

// Header is the name block.
type Header struct {
	Name     string
	Tagline  string
	Contacts []Contact

	// ShowPhoto is true when the style reserves a photo slot. Photo holds
	// the image reference, or "" when the slot falls back to Initials.
	ShowPhoto bool
	Photo     string
	Initials  string
}

// Section is a titled group of blocks.
type Section struct {
	Key    string
	Title  string
	Blocks []Block
}

// Block is one of Paragraph, Entry, SkillGrid, TagList or List.
type Block interface {
	block()
}

// Paragraph is free text.
type Paragraph struct {
	Runs []Run
}

// Entry is a dated item such as a job or a degree.
type Entry struct {
	Title    string
	Subtitle string
	Dates    string
	Location string
	Link     string
	Bullets  [][]Run
}

// SkillGrid lays skills out in columns. Columns may be empty.
type SkillGrid struct {
	Columns    [][]resume.Skill
	ShowLevels bool
}

// TagList shows short labels as chips.
type TagList struct {
	Items []string
}

// List shows plain items, inline or as bullets.
type List struct {
	Items  []string
	Inline bool
}

func (Paragraph) block() {}
func (Entry) block()     {}
func (SkillGrid) block() {}
func (TagList) block()   {}
func (List) block()      {}

// Run is a span of uniformly styled text.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
	Link   string
}

// PlainText concatenates run texts.
func PlainText(runs []Run) string {
	n := 0
	for _, r := range runs {
		n += len(r.Text)
	}
	b := make([]byte, 0, n)
	for _, r := range runs {
		b = append(b, r.Text...)
	}
	return string(b)
}

// LevelDots draws a three-dot proficiency meter.
func LevelDots(l resume.Level) string {
	return strings.Repeat("●", l.Rank()) + strings.Repeat("○", 3-l.Rank())
}

// SafeLink reports whether u may be emitted as a clickable link. Only
// navigational schemes pass; relative references have no scheme.
func SafeLink(u string) bool {
	scheme, _, ok := strings.Cut(u, ":")
	if !ok {
		return true
	}
	switch strings.ToLower(scheme) {
	case "http", "https", "mailto", "tel":
		return true
	}
	return false
}
