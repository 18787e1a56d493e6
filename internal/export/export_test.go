package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-cvkit/internal/assets"
	"github.com/alnah/go-cvkit/internal/docx"
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

func parseDoc(t *testing.T, src string) resume.Document {
	t.Helper()
	doc, err := resume.Parse([]byte(src), resume.FormatYAML)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	return doc
}

const adaYAML = `
personal:
  firstName: Ada
  lastName: Lovelace
  email: ada@example.com
  linkedin: linkedin.com/in/ada
  city: London
sections: [summary, employment, education, skills, languages, awards]
summary: First *programmer*.
employment:
  - jobTitle: Engineer
    company: Acme
    start: "2020"
    end: "2022"
    desc: |
      - Built X
      Shipped Y
education:
  - {}
skills: [Math, Programming, Logic, Writing]
languages: [English, French]
customSections:
  - key: awards
    label: Awards
awards: Won X
`

// files unzips a result.
func files(t *testing.T, res Result) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(res.Data), int64(len(res.Data)))
	if err != nil {
		t.Fatalf("result is not a zip: %v", err)
	}
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func TestExport_AllTemplates(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, adaYAML)
	for _, name := range []string{"classic", "modern", "minimal", "professional", "sidebar", "executive", "banner", "creative"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := loadStyle(t, name)
			a, err := New().Export(context.Background(), doc, s)
			if err != nil {
				t.Fatalf("Export() unexpected error: %v", err)
			}
			b, err := New().Export(context.Background(), doc, s)
			if err != nil {
				t.Fatalf("Export() unexpected error: %v", err)
			}
			if !bytes.Equal(a.Data, b.Data) {
				t.Error("Export() is not deterministic")
			}
			if a.Filename != "Ada_Lovelace.docx" {
				t.Errorf("Filename = %q, want Ada_Lovelace.docx", a.Filename)
			}
			if a.ContentType != docx.ContentType {
				t.Errorf("ContentType = %q", a.ContentType)
			}

			body := files(t, a)["word/document.xml"]
			for _, want := range []string{"Engineer", "Acme", "Built X", "Shipped Y", "Won X", "Logic"} {
				if !strings.Contains(body, want) {
					t.Errorf("document.xml missing %q", want)
				}
			}
			if strings.Contains(strings.ToLower(body), ">education<") {
				t.Error("empty education section should be suppressed")
			}
		})
	}
}

func TestExport_EmploymentBullets(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
personal: {firstName: Ada, lastName: Lovelace}
sections: [employment]
employment:
  - jobTitle: Engineer
    company: Acme
    start: "2020"
    end: "2022"
    desc: "Built X\nShipped Y"
`)
	res, err := New().Export(context.Background(), doc, loadStyle(t, "classic"))
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}
	body := files(t, res)["word/document.xml"]

	if got := strings.Count(body, "<w:numPr>"); got != 2 {
		t.Errorf("bullet paragraphs = %d, want 2", got)
	}
	for _, want := range []string{">Built X<", ">Shipped Y<", ">2020 - 2022<"} {
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
}

func TestExport_SkillColumns(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `
personal: {firstName: Ada, lastName: Lovelace}
sections: [skills]
skills: [Math, Programming, Logic, Writing]
`)
	res, err := New().Export(context.Background(), doc, loadStyle(t, "classic"))
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}
	body := files(t, res)["word/document.xml"]

	if got := strings.Count(body, "<w:gridCol "); got != 3 {
		t.Errorf("skill grid columns = %d, want 3", got)
	}
	// The empty third column still gets its required paragraph.
	if !strings.Contains(body, "<w:p/></w:tc>") {
		t.Error("empty skill column should hold an empty paragraph")
	}
	if strings.Index(body, ">Programming<") > strings.Index(body, ">Logic<") {
		t.Error("skills out of order")
	}
}

func TestExport_CustomSectionModes(t *testing.T) {
	t.Parallel()

	simple := parseDoc(t, `
personal: {firstName: Ada}
sections: [awards]
customSections: [{key: awards, label: Awards}]
awards: Won X
`)
	structured := parseDoc(t, `
personal: {firstName: Ada}
sections: [awards]
customSections: [{key: awards, label: Awards}]
awards:
  - title: X
    description: Won it
`)
	s := loadStyle(t, "classic")

	for name, tt := range map[string]struct {
		doc  resume.Document
		want string
	}{
		"simple":     {simple, ">Won X<"},
		"structured": {structured, ">Won it<"},
	} {
		res, err := New().Export(context.Background(), tt.doc, s)
		if err != nil {
			t.Fatalf("%s: Export() unexpected error: %v", name, err)
		}
		body := files(t, res)["word/document.xml"]
		if !strings.Contains(body, ">AWARDS<") || !strings.Contains(body, tt.want) {
			t.Errorf("%s: missing heading or %q", name, tt.want)
		}
	}
}

func TestExport_SidebarLayout(t *testing.T) {
	t.Parallel()

	s := loadStyle(t, "sidebar")
	res, err := New().Export(context.Background(), parseDoc(t, adaYAML), s)
	if err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}
	body := files(t, res)["word/document.xml"]

	if !strings.Contains(body, `w:fill="`+s.Palette.SidebarBackground+`"`) {
		t.Error("sidebar cell shading missing")
	}
	if !strings.Contains(body, `<w:tblW w:w="5000" w:type="pct"/>`) {
		t.Error("layout table should span the full width")
	}
	for _, pct := range []int{s.Sidebar.Ratio, s.MainRatio()} {
		want := fmt.Sprintf(`<w:tcW w:w="%d" w:type="pct"/>`, pct*50)
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing column width %s", want)
		}
	}
}

// fakePhotos records calls and returns canned images.
type fakePhotos struct {
	mu       sync.Mutex
	calls    []string
	photo    []byte
	badge    []byte
	badgeHex string
}

func (f *fakePhotos) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePhotos) Circular(_ context.Context, _ string, _ int) []byte {
	f.record("circular")
	return f.photo
}

func (f *fakePhotos) Square(_ context.Context, _ string, _ int) []byte {
	f.record("square")
	return f.photo
}

func (f *fakePhotos) InitialsBadge(initials string, _ int, hex string) []byte {
	f.record("badge:" + initials)
	f.mu.Lock()
	f.badgeHex = hex
	f.mu.Unlock()
	return f.badge
}

func TestExport_PhotoFallbacks(t *testing.T) {
	t.Parallel()

	s := loadStyle(t, "modern")
	if !s.Header.Photo {
		t.Fatal("modern should show a photo")
	}
	withImage := parseDoc(t, adaYAML)
	withImage.Personal.ProfileImage = "https://unreachable.invalid/ada.png"

	tests := []struct {
		name      string
		photos    *fakePhotos
		doc       resume.Document
		wantCalls string
		wantMedia string
		wantText  string
	}{
		{name: "profile image", photos: &fakePhotos{photo: []byte("photo")}, doc: withImage,
			wantCalls: "circular", wantMedia: "photo"},
		{name: "unreachable image uses badge", photos: &fakePhotos{badge: []byte("badge")}, doc: withImage,
			wantCalls: "circular,badge:AL", wantMedia: "badge"},
		{name: "no image uses badge", photos: &fakePhotos{badge: []byte("badge")}, doc: parseDoc(t, adaYAML),
			wantCalls: "badge:AL", wantMedia: "badge"},
		{name: "badge failure uses text", photos: &fakePhotos{}, doc: withImage,
			wantCalls: "circular,badge:AL", wantText: "> AL <"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := New(WithPhotos(tt.photos)).Export(context.Background(), tt.doc, s)
			if err != nil {
				t.Fatalf("Export() unexpected error: %v", err)
			}
			if got := strings.Join(tt.photos.calls, ","); got != tt.wantCalls {
				t.Errorf("calls = %q, want %q", got, tt.wantCalls)
			}
			parts := files(t, res)
			if got := parts["word/media/image1.png"]; got != tt.wantMedia {
				t.Errorf("media = %q, want %q", got, tt.wantMedia)
			}
			if tt.wantText != "" && !strings.Contains(parts["word/document.xml"], tt.wantText) {
				t.Errorf("document.xml missing text badge %q", tt.wantText)
			}
			if strings.HasPrefix(tt.wantCalls, "badge") && tt.photos.badgeHex != s.Palette.BadgeBackground {
				t.Errorf("badge color = %q, want %q", tt.photos.badgeHex, s.Palette.BadgeBackground)
			}
		})
	}
}

func TestExport_States(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var states []string
	observe := func(s State) {
		mu.Lock()
		states = append(states, string(s))
		mu.Unlock()
	}
	e := New(WithObserver(observe))
	s := loadStyle(t, "classic")
	doc := parseDoc(t, adaYAML)

	if _, err := e.Export(context.Background(), doc, s); err != nil {
		t.Fatalf("Export() unexpected error: %v", err)
	}
	if got := strings.Join(states, ","); got != "building,packaging,done" {
		t.Errorf("states = %s", got)
	}

	states = nil
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := e.Export(ctx, doc, s)
	if !errors.Is(err, ErrExportFailed) {
		t.Fatalf("Export(canceled) error = %v, want ErrExportFailed", err)
	}
	if res.Data != nil || res.Filename != "" {
		t.Error("failed export should return no file")
	}
	if got := strings.Join(states, ","); got != "building,failed" {
		t.Errorf("states = %s", got)
	}
}

func TestExport_NilStyle(t *testing.T) {
	t.Parallel()

	if _, err := New().Export(context.Background(), resume.New(), nil); !errors.Is(err, ErrExportFailed) {
		t.Errorf("Export(nil style) error = %v, want ErrExportFailed", err)
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to State
		want     bool
	}{
		{StateIdle, StateBuilding, true},
		{StateBuilding, StatePackaging, true},
		{StatePackaging, StateDone, true},
		{StateBuilding, StateFailed, true},
		{StatePackaging, StateFailed, true},
		{StateIdle, StateDone, false},
		{StateDone, StateBuilding, false},
		{StateFailed, StateBuilding, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

type fakeTracker struct {
	got   chan string
	panic bool
}

func (f *fakeTracker) TrackExport(_ context.Context, template string) error {
	f.got <- template
	if f.panic {
		panic("tracker down")
	}
	return errors.New("offline")
}

func TestExport_TrackerIsFireAndForget(t *testing.T) {
	t.Parallel()

	for _, panics := range []bool{false, true} {
		tr := &fakeTracker{got: make(chan string, 1), panic: panics}
		res, err := New(WithTracker(tr)).Export(context.Background(), parseDoc(t, adaYAML), loadStyle(t, "banner"))
		if err != nil || len(res.Data) == 0 {
			t.Fatalf("Export() = %d bytes, %v; tracker must not fail the export", len(res.Data), err)
		}
		select {
		case name := <-tr.got:
			if name != "banner" {
				t.Errorf("tracked %q, want banner", name)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("tracker was not called")
		}
	}
}

func TestFlightKey(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, adaYAML)
	classic, modern := loadStyle(t, "classic"), loadStyle(t, "modern")

	k1, _ := flightKey(doc, classic)
	k2, _ := flightKey(doc.Clone(), classic)
	if k1 != k2 {
		t.Error("equal requests should share a key")
	}
	if k3, _ := flightKey(doc, modern); k3 == k1 {
		t.Error("different templates should not share a key")
	}
	changed := doc.Clone()
	changed.Summary = "Changed."
	if k4, _ := flightKey(changed, classic); k4 == k1 {
		t.Error("different content should not share a key")
	}
}

func TestExport_ConcurrentIdenticalRequests(t *testing.T) {
	t.Parallel()

	e := New()
	doc := parseDoc(t, adaYAML)
	s := loadStyle(t, "executive")

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.Export(context.Background(), doc, s)
			if err != nil {
				t.Errorf("Export() unexpected error: %v", err)
				return
			}
			results[i] = res.Data
		}()
	}
	wg.Wait()
	for i := 1; i < len(results); i++ {
		if !bytes.Equal(results[0], results[i]) {
			t.Fatalf("result %d differs", i)
		}
	}
}

// gatedPhotos blocks Circular until open is closed.
type gatedPhotos struct {
	started chan struct{}
	open    chan struct{}
	once    sync.Once
}

func (g *gatedPhotos) Circular(_ context.Context, _ string, _ int) []byte {
	g.once.Do(func() { close(g.started) })
	<-g.open
	return []byte("photo")
}

func (g *gatedPhotos) Square(ctx context.Context, src string, size int) []byte {
	return g.Circular(ctx, src, size)
}

func (g *gatedPhotos) InitialsBadge(string, int, string) []byte { return nil }

func TestExport_SharedBuildOutlivesFirstCaller(t *testing.T) {
	t.Parallel()

	photos := &gatedPhotos{started: make(chan struct{}), open: make(chan struct{})}
	e := New(WithPhotos(photos))
	s := loadStyle(t, "modern")
	doc := parseDoc(t, adaYAML)
	doc.Personal.ProfileImage = "https://example.com/ada.png"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	firstErr := make(chan error, 1)
	go func() {
		_, err := e.Export(ctx, doc, s)
		firstErr <- err
	}()
	<-photos.started

	type outcome struct {
		res Result
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		res, err := e.Export(context.Background(), doc, s)
		second <- outcome{res, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	close(photos.open)

	if err := <-firstErr; !errors.Is(err, ErrExportFailed) || !errors.Is(err, context.Canceled) {
		t.Errorf("first Export() error = %v, want ErrExportFailed wrapping context.Canceled", err)
	}
	got := <-second
	if got.err != nil {
		t.Fatalf("second Export() unexpected error: %v", got.err)
	}
	if files(t, got.res)["word/media/image1.png"] != "photo" {
		t.Error("second Export() should carry the photo")
	}
}
