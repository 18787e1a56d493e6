package htmlrender

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-cvkit/internal/assets"
	"github.com/alnah/go-cvkit/internal/layout"
	"github.com/alnah/go-cvkit/internal/style"
	"github.com/alnah/go-cvkit/resume"
)

func loadStyle(t *testing.T, name string) *style.Style {
	t.Helper()
	s, err := style.NewCatalog(assets.NewEmbeddedLoader()).Get(name)
	if err != nil {
		t.Fatalf("Get(%q) unexpected error: %v", name, err)
	}
	return s
}

func query(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse HTML: %v", err)
	}
	return doc
}

func sampleDoc() resume.Document {
	doc := resume.New()
	doc.Personal = resume.Personal{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	doc.Sections = []string{resume.KeySummary, resume.KeyEmployment, resume.KeyEducation, resume.KeySkills, "awards"}
	doc.Summary = "First programmer."
	doc.Employment = []resume.Employment{{JobTitle: "Engineer", Company: "Acme", Start: "2020", Description: "Built X\nShipped Y"}}
	doc.Education = []resume.Education{{}}
	doc.Skills = resume.SkillList{{Name: "Math"}, {Name: "Programming"}, {Name: "Logic"}, {Name: "Writing"}}
	doc.CustomSections = []resume.CustomSection{{Key: "awards", Label: "Awards"}}
	doc.Custom["awards"] = resume.TextValue("Won X")
	return doc
}

func render(t *testing.T, doc resume.Document, template string) Parts {
	t.Helper()
	return Render(layout.Build(doc, loadStyle(t, template)))
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"classic", "modern", "minimal", "professional", "sidebar", "executive", "banner", "creative"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			a, b := render(t, sampleDoc(), name), render(t, sampleDoc(), name)
			if a != b {
				t.Error("Render() is not deterministic")
			}
			if a.FlowWidth <= 0 || a.FlowHeight <= 0 {
				t.Errorf("flow box = %vx%v", a.FlowWidth, a.FlowHeight)
			}
		})
	}
}

func TestRender_SectionSuppression(t *testing.T) {
	t.Parallel()

	doc := query(t, render(t, sampleDoc(), "classic").Flow)

	if n := doc.Find(`section[data-key="education"]`).Length(); n != 0 {
		t.Errorf("empty education rendered %d times", n)
	}
	var keys []string
	doc.Find("section").Each(func(_ int, s *goquery.Selection) {
		keys = append(keys, s.AttrOr("data-key", ""))
	})
	if got := strings.Join(keys, ","); got != "summary,employment,skills,awards" {
		t.Errorf("section order = %s", got)
	}
	if got := doc.Find(`section[data-key="awards"] h2`).Text(); got != "AWARDS" {
		t.Errorf("awards heading = %q", got)
	}
}

func TestRender_EntryWithoutEndDate(t *testing.T) {
	t.Parallel()

	flow := render(t, sampleDoc(), "classic").Flow
	entry := query(t, flow).Find(`section[data-key="employment"] [data-part="entry"]`)
	if entry.Length() != 1 {
		t.Fatalf("entries = %d, want 1", entry.Length())
	}
	if strings.Contains(entry.Text(), " - ") {
		t.Errorf("dangling separator in %q", entry.Text())
	}
	if n := entry.Find("li").Length(); n != 2 {
		t.Errorf("bullets = %d, want 2", n)
	}
}

func TestRender_SkillColumns(t *testing.T) {
	t.Parallel()

	cols := query(t, render(t, sampleDoc(), "classic").Flow).Find(`[data-part="skills"] ul`)
	if cols.Length() != 3 {
		t.Fatalf("skill columns = %d, want 3", cols.Length())
	}
	want := []int{2, 2, 0}
	cols.Each(func(i int, s *goquery.Selection) {
		if n := s.Find("li").Length(); n != want[i] {
			t.Errorf("column %d has %d skills, want %d", i, n, want[i])
		}
	})
}

func TestRender_Sidebar(t *testing.T) {
	t.Parallel()

	parts := render(t, sampleDoc(), "sidebar")
	side := query(t, parts.Sidebar)
	if side.Find(`section[data-key="summary"]`).Length() != 1 || side.Find(`section[data-key="skills"]`).Length() != 1 {
		t.Errorf("sidebar is missing summary or skills: %s", parts.Sidebar)
	}
	flow := query(t, parts.Flow)
	if flow.Find(`section[data-key="summary"]`).Length() != 0 {
		t.Error("summary should leave the main flow")
	}
	if flow.Find(`[data-part="initials"]`).Text() != "AL" {
		t.Error("photo slot without image should show initials")
	}
}

func TestRender_EscapesText(t *testing.T) {
	t.Parallel()

	doc := sampleDoc()
	doc.Personal.FirstName = "<script>alert(1)</script>"
	doc.Summary = "[click](javascript:alert(1))"

	flow := render(t, doc, "classic").Flow
	if strings.Contains(flow, "<script>") {
		t.Error("name was not escaped")
	}
	if strings.Contains(flow, `href="javascript`) {
		t.Error("unsafe link was emitted")
	}
}

func TestShell_Document(t *testing.T) {
	t.Parallel()

	sh, err := NewShell(assets.NewEmbeddedLoader())
	if err != nil {
		t.Fatalf("NewShell() unexpected error: %v", err)
	}
	s := loadStyle(t, "sidebar")
	parts := Render(layout.Build(sampleDoc(), s))

	out, err := sh.Document(s, "Ada Lovelace", []string{Page(s, parts, parts.Flow, 0), Page(s, parts, "", 1)})
	if err != nil {
		t.Fatalf("Document() unexpected error: %v", err)
	}

	doc := query(t, out)
	if n := doc.Find(".cv-page").Length(); n != 2 {
		t.Errorf("pages = %d, want 2", n)
	}
	if doc.Find("title").Text() != "Ada Lovelace" {
		t.Errorf("title = %q", doc.Find("title").Text())
	}
	if doc.Find(`.cv-page[data-page="2"] aside section`).Length() != 0 {
		t.Error("sidebar content repeated on page 2")
	}
	if doc.Find(`main`).AttrOr("data-template", "") != "sidebar" {
		t.Error("data-template missing")
	}
}
