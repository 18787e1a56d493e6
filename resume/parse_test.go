package resume

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
personal:
  firstName: Ada
  lastName: Lovelace
sections: [summary, employment, skills, awards]
summary: First programmer.
employment:
  - jobTitle: Engineer
    company: Acme
    start: "2020"
    end: "2022"
    desc: |
      Built X
      Shipped Y
skills: Math, Programming, Logic
customSections:
  - key: awards
    label: Awards
awards:
  - title: Royal Medal
    description: Won it
`

func TestParse_YAML(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if doc.Personal.FullName() != "Ada Lovelace" {
		t.Errorf("FullName() = %q", doc.Personal.FullName())
	}
	if got := doc.Skills.Labels(); len(got) != 3 {
		t.Errorf("Skills = %v, want 3 labels", got)
	}
	if doc.Custom["awards"].Mode() != ModeStructured {
		t.Error("awards should be structured")
	}
	if got := BulletLines(doc.Employment[0].Description); len(got) != 2 {
		t.Errorf("bullets = %v, want 2", got)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
	}{
		{name: "bad format", data: `{}`, format: "toml", wantErr: ErrUnsupportedFormat},
		{name: "schema violation", data: `{"summary":"x"}`, format: FormatJSON, wantErr: ErrParse},
		{name: "not json", data: `{`, format: FormatJSON, wantErr: ErrParse},
		{name: "unresolved section", data: `{"sections":["awards"]}`, format: FormatJSON, wantErr: ErrUnknownSection},
		{name: "bad yaml", data: "sections: [a\n", format: FormatYAML, wantErr: ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Parse([]byte(tt.data), tt.format); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ada.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if doc.Personal.FirstName != "Ada" {
		t.Errorf("FirstName = %q", doc.Personal.FirstName)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, ErrRead) {
		t.Errorf("Load(missing) error = %v, want ErrRead", err)
	}
	if _, err := Load(filepath.Join(dir, "cv.txt")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(txt) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(doc, format)
		if err != nil {
			t.Fatalf("Encode(%s) unexpected error: %v", format, err)
		}
		back, err := Parse(data, format)
		if err != nil {
			t.Fatalf("Parse(Encode(%s)) unexpected error: %v", format, err)
		}
		if back.Custom["awards"].Entries[0].Title != "Royal Medal" {
			t.Errorf("%s: custom entries lost", format)
		}
		if len(back.Sections) != len(doc.Sections) {
			t.Errorf("%s: sections = %v", format, back.Sections)
		}
	}
}

func TestIsDocumentFile(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{
		"cv.json": true, "cv.YAML": true, "cv.yml": true, "cv.md": false, "cv": false,
	} {
		if got := IsDocumentFile(path); got != want {
			t.Errorf("IsDocumentFile(%q) = %v, want %v", path, got, want)
		}
	}
}
