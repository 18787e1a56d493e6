package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cvkit "github.com/alnah/go-cvkit"
	"github.com/alnah/go-cvkit/resume"
)

const adaYAML = `personal:
  firstName: Ada
  lastName: Lovelace
  tagline: Analyst & Programmer
sections: [summary, employment, skills]
summary: First programmer.
employment:
  - jobTitle: Engineer
    company: Analytical Engines
    start: "1842"
    end: "1843"
skills: Mathematics, Poetry
`

const graceJSON = `{
  "personal": {"firstName": "Grace", "lastName": "Hopper"},
  "sections": ["summary"],
  "summary": "Compiler pioneer."
}`

// fakeConverter records calls and returns canned files.
type fakeConverter struct {
	mu        sync.Mutex
	templates []string
	pages     int
	err       error
	pdfErr    error
}

var _ Converter = (*fakeConverter)(nil)

func (f *fakeConverter) record(template string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates = append(f.templates, template)
}

func (f *fakeConverter) Preview(_ context.Context, doc resume.Document, template string) (*cvkit.Preview, error) {
	f.record(template)
	if f.err != nil {
		return nil, f.err
	}
	pages := make([]string, max(f.pages, 1))
	return &cvkit.Preview{Template: template, Pages: pages, HTML: "<html>" + doc.Personal.FullName() + "</html>"}, nil
}

func (f *fakeConverter) Export(_ context.Context, doc resume.Document, template string) (*cvkit.File, error) {
	f.record(template)
	if f.err != nil {
		return nil, f.err
	}
	return &cvkit.File{Name: doc.FilenameWithExt(".docx"), Data: []byte("PK docx")}, nil
}

func (f *fakeConverter) ExportPDF(_ context.Context, doc resume.Document, _ string) (*cvkit.File, error) {
	if f.pdfErr != nil {
		return nil, f.pdfErr
	}
	return &cvkit.File{Name: doc.FilenameWithExt(".pdf"), Data: []byte("%PDF-1.7")}, nil
}

func (f *fakeConverter) Templates() ([]cvkit.Template, error) {
	return []cvkit.Template{{ID: 1, Name: "classic", Title: "Classic", Layout: "single", PageSize: "A4"}}, nil
}

// fakePool hands out one shared fakeConverter and tracks concurrency.
type fakePool struct {
	conv       *fakeConverter
	size       int
	acquireErr error
	opts       int

	inUse   atomic.Int32
	maxUse  atomic.Int32
	closed  atomic.Bool
	holdFor time.Duration
}

var _ Pool = (*fakePool)(nil)

func (p *fakePool) Acquire() (Converter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	n := p.inUse.Add(1)
	for {
		m := p.maxUse.Load()
		if n <= m || p.maxUse.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(p.holdFor)
	return p.conv, nil
}

func (p *fakePool) Release(Converter) { p.inUse.Add(-1) }
func (p *fakePool) Size() int         { return p.size }
func (p *fakePool) Close() error {
	p.closed.Store(true)
	return nil
}

// testEnv returns an Environment writing to buffers, with pools built by
// newPool.
func testEnv(newPool func(int, ...cvkit.Option) (Pool, error)) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:     time.Now,
		Stdout:  &stdout,
		Stderr:  &stderr,
		NewPool: newPool,
	}, &stdout, &stderr
}

// fakePoolEnv wires a fakePool into an Environment and records the size
// and option count it was built with.
func fakePoolEnv(p *fakePool) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	return testEnv(func(n int, opts ...cvkit.Option) (Pool, error) {
		if p.size == 0 {
			p.size = n
		}
		p.opts = len(opts)
		return p, nil
	})
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup write: %v", err)
	}
	return path
}

func errFake(msg string) error { return errors.New(msg) }
