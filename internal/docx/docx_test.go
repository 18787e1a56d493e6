package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
)

func sampleDocument() *Document {
	d := New(Page{Width: 11906, Height: 16838, Margins: Margins{720, 720, 720, 720}},
		Defaults{Font: "Calibri", Size: 21, Color: "222222"})
	d.Title = "Ada Lovelace"
	d.Author = "Ada Lovelace"

	photo := d.AddImage([]byte("\x89PNG fake"), 96, 96)
	d.Add(
		&Paragraph{Inlines: []Inline{photo}, Align: AlignCenter},
		&Paragraph{
			Inlines:      []Inline{Run{Text: "Experience", Bold: true, Caps: true, Size: 24, Color: "2E4A7D"}},
			BorderBottom: &Border{Size: 8, Color: "2E4A7D", Space: 1},
			KeepNext:     true,
		},
		&Paragraph{
			Inlines: []Inline{Run{Text: "Engineer", Bold: true}, Run{Text: "2020 - 2022", Tab: true}},
			Tabs:    []TabStop{{Pos: 10466, Align: AlignRight}},
		},
		&Paragraph{Inlines: []Inline{Run{Text: "Built <X> & more"}}, Bullet: true},
		&Paragraph{Inlines: []Inline{Run{Text: "Shipped Y"}}, Bullet: true},
		&Paragraph{Inlines: []Inline{Link{URL: "https://example.com/?a=1&b=2", Runs: []Run{{Text: "example.com"}}}}},
		&Paragraph{Inlines: []Inline{Run{Text: "line one\nline two"}}},
		&Table{
			WidthPct: 100,
			Columns:  []int{3000, 3000, 3000},
			Rows: []Row{{Cells: []Cell{
				{Width: 3000, WidthPct: 40, Blocks: []Block{Text("Math")}},
				{Width: 3000, Shading: "EEEEEE", Margins: &Margins{Left: 100}},
				{Width: 3000, Blocks: []Block{&Table{Columns: []int{3000}}}},
			}}},
		},
	)
	return d
}

func unzip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() unexpected error: %v", err)
	}
	parts := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(b)
	}
	return parts
}

func TestDocument_Parts(t *testing.T) {
	t.Parallel()

	data, err := sampleDocument().Bytes()
	if err != nil {
		t.Fatalf("Bytes() unexpected error: %v", err)
	}
	parts := unzip(t, data)

	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "docProps/core.xml", "docProps/app.xml",
		"word/document.xml", "word/_rels/document.xml.rels", "word/styles.xml",
		"word/numbering.xml", "word/media/image1.png",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	for name, content := range parts {
		if !strings.HasSuffix(name, ".xml") && !strings.HasSuffix(name, ".rels") {
			continue
		}
		dec := xml.NewDecoder(strings.NewReader(content))
		for {
			_, err := dec.Token()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Errorf("%s is not well-formed: %v", name, err)
				break
			}
		}
	}

	if parts["word/media/image1.png"] != "\x89PNG fake" {
		t.Error("media bytes were altered")
	}
}

func TestDocument_Body(t *testing.T) {
	t.Parallel()

	data, err := sampleDocument().Bytes()
	if err != nil {
		t.Fatalf("Bytes() unexpected error: %v", err)
	}
	parts := unzip(t, data)
	body := parts["word/document.xml"]
	rels := parts["word/_rels/document.xml.rels"]

	checks := []struct {
		name, part, want string
		count            int
	}{
		{name: "bullets", part: body, want: `<w:numId w:val="1"/>`, count: 2},
		{name: "escaped text", part: body, want: "Built &lt;X&gt; &amp; more", count: 1},
		{name: "right tab", part: body, want: `<w:tab w:val="right" w:pos="10466"/>`, count: 1},
		{name: "section border", part: body, want: `<w:bottom w:val="single" w:sz="8" w:space="1" w:color="2E4A7D"/>`, count: 1},
		{name: "page size", part: body, want: `<w:pgSz w:w="11906" w:h="16838"/>`, count: 1},
		{name: "line break", part: body, want: "<w:br/>", count: 1},
		{name: "image extent", part: body, want: `cx="914400"`, count: 2},
		{name: "image rel", part: rels, want: `Target="media/image1.png"`, count: 1},
		{name: "link rel", part: rels, want: `Target="https://example.com/?a=1&amp;b=2" TargetMode="External"`, count: 1},
		{name: "link ref", part: body, want: `<w:hyperlink r:id="rIdLink1"`, count: 1},
		{name: "borderless table", part: body, want: `<w:insideV w:val="nil"/>`, count: 2},
		{name: "cell shading", part: body, want: `w:fill="EEEEEE"`, count: 1},
		{name: "percent cell width", part: body, want: `<w:tcW w:w="2000" w:type="pct"/>`, count: 1},
		{name: "twips cell width", part: body, want: `<w:tcW w:w="3000" w:type="dxa"/>`, count: 2},
	}
	for _, c := range checks {
		if got := strings.Count(c.part, c.want); got != c.count {
			t.Errorf("%s: %q appears %d times, want %d", c.name, c.want, got, c.count)
		}
	}

	// The empty cell and the cell ending in a table both get a closing paragraph.
	if got := strings.Count(body, "<w:p/>"); got != 2 {
		t.Errorf("empty paragraphs = %d, want 2", got)
	}
	if !strings.Contains(parts["word/styles.xml"], `<w:sz w:val="21"/>`) {
		t.Error("styles.xml missing default size")
	}
	if !strings.Contains(parts["docProps/core.xml"], "<dc:title>Ada Lovelace</dc:title>") {
		t.Error("core.xml missing title")
	}
}

func TestDocument_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := sampleDocument().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	b, err := sampleDocument().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("equal documents produced different bytes")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestDocument_WriteError(t *testing.T) {
	t.Parallel()

	if err := sampleDocument().Write(failingWriter{}); !errors.Is(err, ErrPackage) {
		t.Errorf("Write() error = %v, want ErrPackage", err)
	}
}

func TestRunProps_PlainRunHasNone(t *testing.T) {
	t.Parallel()

	d := New(Page{Width: 100, Height: 100}, Defaults{})
	d.Add(Text("plain"))
	body, _ := d.documentXML()
	if strings.Contains(string(body), "<w:rPr>") {
		t.Errorf("plain run should have no rPr: %s", body)
	}
}
