package main

import (
	"errors"
	"os"

	cvkit "github.com/alnah/go-cvkit"
	"github.com/alnah/go-cvkit/internal/config"
	"github.com/alnah/go-cvkit/resume"
)

// Exit codes for the cvkit CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, template or document
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitExport  = 5 // Rendering or DOCX assembly failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, cvkit.ErrBrowserConnect) ||
		errors.Is(err, cvkit.ErrPageCreate) ||
		errors.Is(err, cvkit.ErrPageLoad) ||
		errors.Is(err, cvkit.ErrBrowserClosed) ||
		errors.Is(err, cvkit.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, cvkit.ErrExportFailed) ||
		errors.Is(err, cvkit.ErrRender) ||
		errors.Is(err, cvkit.ErrShellRender) {
		return ExitExport
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, resume.ErrRead) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoDocuments) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, cvkit.ErrUnknownTemplate) ||
		errors.Is(err, cvkit.ErrInvalidTemplate) ||
		errors.Is(err, cvkit.ErrInvalidPageSize) ||
		errors.Is(err, cvkit.ErrInvalidMeasurer) ||
		errors.Is(err, cvkit.ErrInvalidTimeout) ||
		errors.Is(err, cvkit.ErrInvalidAssetPath) ||
		errors.Is(err, resume.ErrParse) ||
		errors.Is(err, resume.ErrUnsupportedFormat) ||
		errors.Is(err, resume.ErrNoSections) ||
		errors.Is(err, resume.ErrDuplicateSection) ||
		errors.Is(err, resume.ErrUnknownSection) ||
		errors.Is(err, resume.ErrDuplicateCustom) ||
		errors.Is(err, resume.ErrReservedKey) ||
		errors.Is(err, resume.ErrEmptyKey) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidFlags) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
