package cvkit

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-cvkit/internal/fileutil"
)

// twipsPerInch converts page sizes to the inches Chrome prints with.
const twipsPerInch = 1440

// pdfPrinter abstracts HTML to PDF printing to allow different backends.
type pdfPrinter interface {
	Print(ctx context.Context, htmlContent string, opts pdfOptions) ([]byte, error)
}

// pageOpener opens a blank browser page. *chrome.Browser implements it.
type pageOpener interface {
	Page(ctx context.Context) (*rod.Page, error)
}

// Compile-time interface check.
var _ pdfPrinter = (*rodPrinter)(nil)

// pdfOptions is the paper size in inches. Page margins live in the page
// sheets themselves, so the printer adds none.
type pdfOptions struct {
	Width  float64
	Height float64
}

// pdfOptionsForTwips converts a paper size in twips.
func pdfOptionsForTwips(width, height int) pdfOptions {
	return pdfOptions{
		Width:  float64(width) / twipsPerInch,
		Height: float64(height) / twipsPerInch,
	}
}

// rodPrinter prints through headless Chrome via go-rod.
type rodPrinter struct {
	pages pageOpener
}

func newRodPrinter(pages pageOpener) *rodPrinter {
	return &rodPrinter{pages: pages}
}

// Print writes htmlContent to a temporary file, opens it in Chrome and
// prints it. Loading from a file keeps large inline images out of the
// DevTools message.
func (r *rodPrinter) Print(ctx context.Context, htmlContent string, opts pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	defer cleanup()

	page, err := r.pages.Page(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = page.Close() }()

	if err := page.Navigate("file://" + path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// buildPDFOptions constructs the print request for one paper size.
func buildPDFOptions(opts pdfOptions) *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(opts.Width),
		PaperHeight:     floatPtr(opts.Height),
		MarginTop:       floatPtr(0),
		MarginBottom:    floatPtr(0),
		MarginLeft:      floatPtr(0),
		MarginRight:     floatPtr(0),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
