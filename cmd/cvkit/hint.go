package main

import (
	"context"
	"errors"

	cvkit "github.com/alnah/go-cvkit"
	"github.com/alnah/go-cvkit/internal/config"
	"github.com/alnah/go-cvkit/internal/hints"
	"github.com/alnah/go-cvkit/resume"
)

// builtinTemplates names the embedded templates in id order.
var builtinTemplates = []string{
	"classic", "modern", "minimal", "professional",
	"sidebar", "executive", "banner", "creative",
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, cvkit.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, cvkit.ErrUnknownTemplate):
		return hints.ForTemplateNotFound(builtinTemplates)
	case errors.Is(err, cvkit.ErrInvalidPageSize):
		return hints.ForPageSize(cvkit.PageSizes())
	case errors.Is(err, resume.ErrParse), errors.Is(err, resume.ErrUnknownSection):
		return hints.ForInvalidDocument()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
