package style

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-cvkit/internal/assets"
)

func embeddedCatalog() *Catalog {
	return NewCatalog(assets.NewEmbeddedLoader())
}

func TestCatalog_AllEmbedded(t *testing.T) {
	t.Parallel()

	all, err := embeddedCatalog().All()
	if err != nil {
		t.Fatalf("All() unexpected error: %v", err)
	}
	if len(all) != 8 {
		t.Fatalf("All() returned %d templates, want 8", len(all))
	}
	for i, s := range all {
		if s.ID != i+1 {
			t.Errorf("template %d has id %d, want %d", i, s.ID, i+1)
		}
	}
}

func TestCatalog_Get(t *testing.T) {
	t.Parallel()

	c := embeddedCatalog()

	tests := []struct {
		ref      string
		wantName string
		wantErr  error
	}{
		{ref: "", wantName: DefaultTemplate},
		{ref: "sidebar", wantName: "sidebar"},
		{ref: " Banner ", wantName: "banner"},
		{ref: "6", wantName: "executive"},
		{ref: "9", wantErr: ErrUnknownTemplate},
		{ref: "nope", wantErr: ErrUnknownTemplate},
		{ref: "../x", wantErr: assets.ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			t.Parallel()

			s, err := c.Get(tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Get(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get(%q) unexpected error: %v", tt.ref, err)
			}
			if s.Name != tt.wantName {
				t.Errorf("Get(%q).Name = %q, want %q", tt.ref, s.Name, tt.wantName)
			}
		})
	}
}

func TestCatalog_SidebarRatios(t *testing.T) {
	t.Parallel()

	c := embeddedCatalog()
	for name, want := range map[string]int{"sidebar": 35, "executive": 40} {
		s, err := c.Get(name)
		if err != nil {
			t.Fatalf("Get(%q) unexpected error: %v", name, err)
		}
		if s.Sidebar.Ratio != want || s.MainRatio() != 100-want {
			t.Errorf("%s ratio = %d/%d, want %d", name, s.Sidebar.Ratio, s.MainRatio(), want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	valid, err := assets.NewEmbeddedLoader().Load(assets.KindTemplate, "classic")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{name: "bad color", data: strings.Replace(string(valid), `accent: "2E4A7D"`, `accent: "#2E4A7D"`, 1), wantMsg: "palette.accent"},
		{name: "unknown layout", data: strings.Replace(string(valid), "layout: single", "layout: grid", 1), wantMsg: "layout"},
		{name: "sidebar without ratio", data: strings.Replace(string(valid), "layout: single", "layout: sidebar", 1), wantMsg: "sidebar.ratio"},
		{name: "unknown field", data: string(valid) + "extra: 1\n", wantMsg: "extra"},
		{name: "bad date format", data: strings.Replace(string(valid), "dateFormat: short", `dateFormat: "[YYYY"`, 1), wantMsg: "dateFormat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrInvalidStyle) {
				t.Fatalf("Parse() error = %v, want ErrInvalidStyle", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Parse() error = %q, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestStyle_Text(t *testing.T) {
	t.Parallel()

	s := &Style{Headings: Headings{Case: "title"}, Header: Header{NameCase: "upper"}}
	if got := s.HeadingText("employment history"); got != "Employment History" {
		t.Errorf("HeadingText(title) = %q", got)
	}
	s.Headings.Case = "upper"
	if got := s.HeadingText("Skills"); got != "SKILLS" {
		t.Errorf("HeadingText(upper) = %q", got)
	}
	if got := s.NameText("Ada Lovelace"); got != "ADA LOVELACE" {
		t.Errorf("NameText() = %q", got)
	}

	s.Labels = map[string]string{"summary": "About"}
	if got := s.Label("summary", "Profile"); got != "About" {
		t.Errorf("Label(override) = %q", got)
	}
	if got := s.Label("skills", "Skills"); got != "Skills" {
		t.Errorf("Label(fallback) = %q", got)
	}
}

func TestUnits(t *testing.T) {
	t.Parallel()

	if got := HalfPoints(10.5); got != 21 {
		t.Errorf("HalfPoints(10.5) = %d, want 21", got)
	}
	if got := Twips(12); got != 240 {
		t.Errorf("Twips(12) = %d, want 240", got)
	}
	if got := TwipsToPx(1440); got != 96 {
		t.Errorf("TwipsToPx(1440) = %v, want 96", got)
	}
	if got := PtToPx(12); got != 16 {
		t.Errorf("PtToPx(12) = %v, want 16", got)
	}
}

func TestStyle_Geometry(t *testing.T) {
	t.Parallel()

	s := &Style{Page: Page{Size: "Letter", Margins: Margins{Top: 1440, Right: 720, Bottom: 1440, Left: 720}}}
	g := s.Geometry()
	if g.Width != 816 || g.Height != 1056 {
		t.Errorf("Letter = %vx%v, want 816x1056", g.Width, g.Height)
	}
	if g.ContentWidth() != 720 || g.ContentHeight() != 864 {
		t.Errorf("content = %vx%v, want 720x864", g.ContentWidth(), g.ContentHeight())
	}

	a4, err := s.WithPageSize("A4")
	if err != nil {
		t.Fatalf("WithPageSize() unexpected error: %v", err)
	}
	if s.Page.Size != "Letter" || a4.Page.Size != "A4" {
		t.Error("WithPageSize() must not modify the receiver")
	}
	if _, err := s.WithPageSize("A5"); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("WithPageSize(A5) error = %v, want ErrInvalidStyle", err)
	}
}
