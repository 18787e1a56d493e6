package cvkit

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alnah/go-cvkit/internal/export"
	"github.com/alnah/go-cvkit/internal/imaging"
	"github.com/alnah/go-cvkit/internal/style"
)

// Page size names.
const (
	PageSizeA4     = "A4"
	PageSizeLetter = "Letter"
)

// Measurer names accepted by WithMeasurer.
const (
	// MeasurerMetrics lays pages out in pure Go from font metrics.
	MeasurerMetrics = "metrics"

	// MeasurerBrowser measures rendered pages in headless Chrome.
	MeasurerBrowser = "browser"
)

// defaultTimeout bounds a single browser operation.
const defaultTimeout = 30 * time.Second

// BlobStore holds uploaded images addressed by "blob:cvkit/" references.
// Share one store between the code that accepts uploads and the
// Converter that renders them.
type BlobStore = imaging.BlobStore

// NewBlobStore creates an empty BlobStore.
func NewBlobStore() *BlobStore {
	return imaging.NewBlobStore()
}

// Tracker receives export analytics. It is called in the background after
// a successful DOCX export; its errors and panics are logged and dropped.
type Tracker = export.Tracker

// NormalizePageSize returns the canonical spelling of a page size name,
// matched case-insensitively. An empty name yields "".
func NormalizePageSize(size string) (string, error) {
	size = strings.TrimSpace(size)
	if size == "" {
		return "", nil
	}
	for _, known := range style.PageSizes() {
		if strings.EqualFold(size, known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q (must be one of %s)", ErrInvalidPageSize, size, strings.Join(style.PageSizes(), ", "))
}

// PageSizes lists the supported page size names.
func PageSizes() []string {
	return style.PageSizes()
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds Converter construction settings.
type converterConfig struct {
	timeout       time.Duration
	assetPath     string
	pageSize      string
	measurer      string
	maxImageBytes int64
	logger        *slog.Logger
	blobs         *BlobStore
	httpClient    *http.Client
	tracker       Tracker
}

// WithTimeout sets the timeout for browser operations (measuring and PDF
// printing) and image downloads.
func WithTimeout(d time.Duration) Option {
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithAssetPath sets a directory whose templates/, styles/ and shells/
// override the embedded assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithPageSize overrides the paper size of every template ("A4" or
// "Letter", case-insensitive).
func WithPageSize(size string) Option {
	return func(c *Converter) {
		c.cfg.pageSize = size
	}
}

// WithMeasurer selects how previews are measured for pagination:
// MeasurerMetrics (default) or MeasurerBrowser.
func WithMeasurer(name string) Option {
	return func(c *Converter) {
		c.cfg.measurer = name
	}
}

// WithMaxImageBytes caps the size of profile images read from any source.
func WithMaxImageBytes(n int64) Option {
	return func(c *Converter) {
		c.cfg.maxImageBytes = n
	}
}

// WithLogger sets the logger for degraded paths: unreadable images,
// failed measurements and tracker errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithBlobStore resolves "blob:" profile image references through s.
func WithBlobStore(s *BlobStore) Option {
	return func(c *Converter) {
		c.cfg.blobs = s
	}
}

// WithHTTPClient sets the client used to download remote profile images.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Converter) {
		c.cfg.httpClient = hc
	}
}

// WithTracker reports each successful DOCX export to t.
func WithTracker(t Tracker) Option {
	return func(c *Converter) {
		c.cfg.tracker = t
	}
}

// Template describes one built-in or custom template.
type Template struct {
	ID       int
	Name     string
	Title    string
	Layout   string
	PageSize string
}

// File is a produced document.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Preview is a paginated HTML rendering.
type Preview struct {
	// Template is the resolved template name.
	Template string

	// Pages holds the markup of each page sheet, in order. There is
	// always at least one page.
	Pages []string

	// HTML is a standalone document showing every page.
	HTML string
}

// PageCount returns the number of pages.
func (p *Preview) PageCount() int {
	if p == nil {
		return 0
	}
	return len(p.Pages)
}
