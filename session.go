package cvkit

import (
	"context"
	"sync"

	"github.com/alnah/go-cvkit/resume"
)

// Session is a live editing session: a document, the template it is
// previewed in, and the page being viewed. Every change re-paginates.
// Safe for concurrent use.
type Session struct {
	conv *Converter

	mu       sync.Mutex
	doc      resume.Document
	template string
	preview  *Preview
	page     int // 1-based
}

// NewSession renders doc in template and shows its first page.
func (c *Converter) NewSession(ctx context.Context, doc resume.Document, template string) (*Session, error) {
	doc = doc.Clone()
	p, err := c.Preview(ctx, doc, template)
	if err != nil {
		return nil, err
	}
	return &Session{conv: c, doc: doc, template: p.Template, preview: p, page: 1}, nil
}

// Dispatch applies an editor action. On success the preview is rebuilt
// and the active page goes back to 1. A rejected action leaves the
// session untouched.
func (s *Session) Dispatch(ctx context.Context, a resume.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := resume.Reduce(s.doc, a)
	if err != nil {
		return err
	}
	p, err := s.conv.Preview(ctx, next, s.template)
	if err != nil {
		return err
	}
	s.doc, s.preview, s.page = next, p, 1
	return nil
}

// SetTemplate switches the template. The active page is kept when the
// new rendering still has it and clamped to the last page otherwise.
func (s *Session) SetTemplate(ctx context.Context, template string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.conv.Preview(ctx, s.doc, template)
	if err != nil {
		return err
	}
	s.template, s.preview = p.Template, p
	s.page = clampPage(s.page, p.PageCount())
	return nil
}

// Document returns a copy of the current document.
func (s *Session) Document() resume.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Template returns the active template name.
func (s *Session) Template() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// Preview returns the current paginated rendering.
func (s *Session) Preview() *Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Page returns the active page number and its markup.
func (s *Session) Page() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page, s.preview.Pages[s.page-1]
}

// PageCount returns the number of pages in the current rendering.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview.PageCount()
}

// SetPage moves to page n, clamped to the valid range, and returns the
// page shown.
func (s *Session) SetPage(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = clampPage(n, s.preview.PageCount())
	return s.page
}

// Next moves forward one page. It reports false on the last page.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page >= s.preview.PageCount() {
		return false
	}
	s.page++
	return true
}

// Prev moves back one page. It reports false on the first page.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page <= 1 {
		return false
	}
	s.page--
	return true
}

// Export builds the DOCX of the current document.
func (s *Session) Export(ctx context.Context) (*File, error) {
	s.mu.Lock()
	doc, template := s.doc.Clone(), s.template
	s.mu.Unlock()
	return s.conv.Export(ctx, doc, template)
}

func clampPage(n, count int) int {
	if count < 1 {
		return 1
	}
	return max(1, min(n, count))
}
