package cvkit

import (
	"errors"

	"github.com/alnah/go-cvkit/internal/chrome"
	"github.com/alnah/go-cvkit/internal/export"
	"github.com/alnah/go-cvkit/internal/htmlrender"
	"github.com/alnah/go-cvkit/internal/style"
)

// Sentinel errors for library operations.
var (
	ErrPDFGeneration    = errors.New("PDF generation failed")
	ErrRender           = errors.New("HTML rendering failed")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidMeasurer  = errors.New("invalid measurer")
	ErrInvalidTimeout   = errors.New("invalid timeout")
	ErrPoolClosed       = errors.New("converter pool closed")
)

// Errors raised by the pipeline stages. They are the same values the
// stages return, so errors.Is works on anything a Converter returns.
var (
	ErrUnknownTemplate = style.ErrUnknownTemplate
	ErrInvalidTemplate = style.ErrInvalidStyle
	ErrExportFailed    = export.ErrExportFailed
	ErrShellRender     = htmlrender.ErrShellRender
	ErrBrowserConnect  = chrome.ErrBrowserConnect
	ErrPageCreate      = chrome.ErrPageCreate
	ErrPageLoad        = chrome.ErrPageLoad
	ErrBrowserClosed   = chrome.ErrClosed
)
