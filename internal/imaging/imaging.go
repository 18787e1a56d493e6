// Package imaging loads profile photos and prepares them for export.
//
// Sources may be data URIs, blob: references from a BlobStore, http(s)
// URLs, or local paths. Every operation returns nil on failure and logs
// the cause at debug level; callers fall back to an initials badge.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"net/http"
	"time"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultTimeout bounds a remote image fetch.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBytes caps the size of a source image.
	DefaultMaxBytes = 10 << 20

	// DefaultMaxPixels caps the decoded area of a source image. Compressed
	// formats can declare dimensions far beyond what the byte cap implies.
	DefaultMaxPixels = 40_000_000
)

// Processor loads and reshapes images.
type Processor struct {
	client    *http.Client
	blobs     *BlobStore
	maxBytes  int64
	maxPixels int
	logger    *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Processor) {
		if c != nil {
			p.client = c
		}
	}
}

// WithBlobStore resolves blob: references through s.
func WithBlobStore(s *BlobStore) Option {
	return func(p *Processor) { p.blobs = s }
}

// WithMaxBytes caps the size of a source image.
func WithMaxBytes(n int64) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxBytes = n
		}
	}
}

// WithMaxPixels caps the decoded width times height of a source image.
func WithMaxPixels(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxPixels = n
		}
	}
}

// WithLogger sets the logger that records load and decode failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		client:    &http.Client{Timeout: DefaultTimeout},
		maxBytes:  DefaultMaxBytes,
		maxPixels: DefaultMaxPixels,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Bytes returns the raw bytes behind src, or nil.
func (p *Processor) Bytes(ctx context.Context, src string) []byte {
	data, err := p.load(ctx, src)
	if err != nil {
		p.logger.Debug("image load failed", "source", abbreviate(src), "error", err)
		return nil
	}
	return data
}

// Circular returns src cropped to a centered square, scaled to size
// pixels, masked to a circle and encoded as PNG. nil on failure.
func (p *Processor) Circular(ctx context.Context, src string, size int) []byte {
	return p.reshape(ctx, src, size, true)
}

// Square is Circular without the mask.
func (p *Processor) Square(ctx context.Context, src string, size int) []byte {
	return p.reshape(ctx, src, size, false)
}

func (p *Processor) reshape(ctx context.Context, src string, size int, round bool) []byte {
	if size <= 0 {
		return nil
	}
	data := p.Bytes(ctx, src)
	if data == nil {
		return nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		p.logger.Debug("image decode failed", "source", abbreviate(src), "error", err)
		return nil
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(p.maxPixels) {
		p.logger.Debug("image too large", "source", abbreviate(src), "width", cfg.Width, "height", cfg.Height)
		return nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		p.logger.Debug("image decode failed", "source", abbreviate(src), "error", err)
		return nil
	}
	p.logger.Debug("image decoded", "format", format, "bounds", img.Bounds().String())

	out := coverSquare(img, size)
	if round {
		masked := image.NewRGBA(out.Bounds())
		draw.DrawMask(masked, masked.Bounds(), out, image.Point{}, newDisc(size), image.Point{}, draw.Over)
		out = masked
	}
	return encodePNG(out, p.logger)
}

// coverSquare center-crops img to a square and scales it to size.
func coverSquare(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Src, nil)
	return dst
}

// disc is an anti-aliased circular alpha mask.
type disc struct {
	size   int
	center float64
	radius float64
}

func newDisc(size int) disc {
	r := float64(size) / 2
	return disc{size: size, center: r, radius: r}
}

func (d disc) ColorModel() color.Model { return color.AlphaModel }

func (d disc) Bounds() image.Rectangle { return image.Rect(0, 0, d.size, d.size) }

func (d disc) At(x, y int) color.Color {
	dx := float64(x) + 0.5 - d.center
	dy := float64(y) + 0.5 - d.center
	cover := d.radius - math.Hypot(dx, dy) + 0.5
	switch {
	case cover <= 0:
		return color.Alpha{}
	case cover >= 1:
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{A: uint8(cover * 0xff)}
}

// DataURI wraps PNG bytes in a data: URI for inline <img> sources.
func DataURI(pngData []byte) string {
	if len(pngData) == 0 {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngData)
}

func encodePNG(img image.Image, logger *slog.Logger) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		logger.Debug("png encode failed", "error", err)
		return nil
	}
	return buf.Bytes()
}

// abbreviate keeps data URIs out of log lines.
func abbreviate(src string) string {
	const limit = 64
	if len(src) <= limit {
		return src
	}
	return src[:limit] + "..."
}
