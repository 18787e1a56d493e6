package cvkit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alnah/go-cvkit/internal/chrome"
	"github.com/alnah/go-cvkit/internal/export"
	"github.com/alnah/go-cvkit/internal/htmlrender"
	"github.com/alnah/go-cvkit/internal/imaging"
	"github.com/alnah/go-cvkit/internal/layout"
	"github.com/alnah/go-cvkit/internal/paginate"
	"github.com/alnah/go-cvkit/internal/style"
	"github.com/alnah/go-cvkit/resume"
)

// Compile-time interface implementation checks.
var (
	_ paginate.Measurer   = (*paginate.MetricsMeasurer)(nil)
	_ paginate.Measurer   = (*paginate.BrowserMeasurer)(nil)
	_ paginate.PageOpener = (*chrome.Browser)(nil)
	_ pageOpener          = (*chrome.Browser)(nil)
	_ export.PhotoSource  = (*imaging.Processor)(nil)
)

// untitled is the document title when the résumé has no name.
const untitled = "Résumé"

// Converter renders résumés to paginated HTML, DOCX and PDF.
// Create with NewConverter and Close when done. Safe for concurrent use.
type Converter struct {
	cfg      converterConfig
	logger   *slog.Logger
	catalog  *style.Catalog
	shell    *htmlrender.Shell
	images   *imaging.Processor
	exporter *export.Exporter
	measurer paginate.Measurer
	browser  *chrome.Browser
	printer  pdfPrinter
}

// NewConverter creates a Converter. Chrome is launched on first use only,
// so a Converter that never measures in the browser or prints PDF never
// starts it.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:  defaultTimeout,
			measurer: MeasurerMetrics,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.timeout <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeout, c.cfg.timeout)
	}
	c.logger = c.cfg.logger
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	size, err := NormalizePageSize(c.cfg.pageSize)
	if err != nil {
		return nil, err
	}
	c.cfg.pageSize = size

	loader, err := newAssetLoader(c.cfg.assetPath)
	if err != nil {
		return nil, err
	}
	c.catalog = style.NewCatalog(loader)
	c.shell, err = htmlrender.NewShell(loader)
	if err != nil {
		return nil, fmt.Errorf("loading page shell: %w", convertAssetError(err))
	}

	c.browser = chrome.New(c.cfg.timeout)

	imageOpts := []imaging.Option{
		imaging.WithMaxBytes(c.cfg.maxImageBytes),
		imaging.WithLogger(c.logger),
		imaging.WithHTTPClient(c.cfg.httpClient),
	}
	if c.cfg.blobs != nil {
		imageOpts = append(imageOpts, imaging.WithBlobStore(c.cfg.blobs))
	}
	c.images = imaging.New(imageOpts...)

	if c.measurer == nil {
		if c.measurer, err = c.newMeasurer(); err != nil {
			return nil, err
		}
	}

	exportOpts := []export.Option{
		export.WithPhotos(c.images),
		export.WithLogger(c.logger),
	}
	if c.cfg.tracker != nil {
		exportOpts = append(exportOpts, export.WithTracker(c.cfg.tracker))
	}
	c.exporter = export.New(exportOpts...)

	if c.printer == nil {
		c.printer = newRodPrinter(c.browser)
	}
	return c, nil
}

// newMeasurer builds the measurer named by WithMeasurer.
func (c *Converter) newMeasurer() (paginate.Measurer, error) {
	switch c.cfg.measurer {
	case MeasurerMetrics, "":
		m, err := paginate.NewMetricsMeasurer()
		if err != nil {
			return nil, fmt.Errorf("loading font metrics: %w", err)
		}
		return m, nil
	case MeasurerBrowser:
		return paginate.NewBrowserMeasurer(c.browser), nil
	}
	return nil, fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidMeasurer, c.cfg.measurer, MeasurerMetrics, MeasurerBrowser)
}

// Render returns the unpaginated HTML of doc in the given template (name
// or id; empty selects DefaultTemplate). It performs no I/O: profile
// images are referenced as given.
func (c *Converter) Render(doc resume.Document, template string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrRender, r)
		}
	}()

	s, err := c.template(template)
	if err != nil {
		return "", err
	}
	parts := htmlrender.Render(layout.Build(doc, s))
	page := htmlrender.Page(s, parts, parts.Flow, 0)
	return c.shell.Document(s, title(doc), []string{page})
}

// Preview renders doc and splits it into pages. Profile images are read
// and embedded; an unreadable image falls back to the initials badge.
// Pagination never fails: when measuring is impossible the whole résumé
// is returned as one page.
func (c *Converter) Preview(ctx context.Context, doc resume.Document, template string) (p *Preview, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrRender, r)
		}
	}()

	s, err := c.template(template)
	if err != nil {
		return nil, err
	}
	tree := layout.Build(doc, s)
	c.embedPhoto(ctx, &tree)
	parts := htmlrender.Render(tree)

	pg := paginate.New(c.measurer,
		paginate.WithBaseStyle(parts.BaseStyle),
		paginate.WithLogger(c.logger))
	flows := pg.Paginate(ctx, parts.Flow, parts.FlowWidth, parts.FlowHeight)

	pages := make([]string, len(flows))
	for i, flow := range flows {
		pages[i] = htmlrender.Page(s, parts, flow, i)
	}
	markup, err := c.shell.Document(s, title(doc), pages)
	if err != nil {
		return nil, err
	}
	return &Preview{Template: s.Name, Pages: pages, HTML: markup}, nil
}

// Export builds the DOCX document for doc. On failure no bytes are
// returned and the error wraps ErrExportFailed.
func (c *Converter) Export(ctx context.Context, doc resume.Document, template string) (f *File, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrExportFailed, r)
		}
	}()

	s, err := c.template(template)
	if err != nil {
		return nil, err
	}
	res, err := c.exporter.Export(ctx, doc, s)
	if err != nil {
		return nil, err
	}
	return &File{Name: res.Filename, ContentType: res.ContentType, Data: res.Data}, nil
}

// ExportPDF prints the paginated preview of doc through headless Chrome.
func (c *Converter) ExportPDF(ctx context.Context, doc resume.Document, template string) (f *File, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrPDFGeneration, r)
		}
	}()

	s, err := c.template(template)
	if err != nil {
		return nil, err
	}
	p, err := c.Preview(ctx, doc, s.Name)
	if err != nil {
		return nil, err
	}
	data, err := c.printer.Print(ctx, p.HTML, pdfOptionsForTwips(s.PageTwips()))
	if err != nil {
		return nil, err
	}
	return &File{Name: doc.FilenameWithExt(".pdf"), ContentType: "application/pdf", Data: data}, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}

// embedPhoto replaces the header photo reference with an inline PNG, or
// clears it so the renderer draws the initials badge.
func (c *Converter) embedPhoto(ctx context.Context, t *layout.Tree) {
	h := &t.Header
	if !h.ShowPhoto || h.Photo == "" {
		return
	}
	size := t.Style.Header.PhotoSize * 2
	h.Photo = imaging.DataURI(c.images.Square(ctx, h.Photo, size))
}

func title(doc resume.Document) string {
	if name := doc.Personal.FullName(); name != "" {
		return name
	}
	return untitled
}
