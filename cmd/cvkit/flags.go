package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlags wraps flag parsing failures.
var ErrInvalidFlags = errors.New("invalid flags")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds the template and paper choices.
type renderFlags struct {
	template  string
	pageSize  string
	measurer  string
	assetPath string
}

// convertFlags holds all flags for the render and export commands.
type convertFlags struct {
	common  commonFlags
	render  renderFlags
	output  string
	workers int
	timeout string
	pdf     bool
}

// templatesFlags holds flags for the templates command.
type templatesFlags struct {
	common commonFlags
	render renderFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds template and paper flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.template, "template", "t", "", "template name or id (1-8)")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size override: A4, Letter")
	fs.StringVar(&f.measurer, "measurer", "", "pagination measurer: metrics, browser")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// newFlagSet creates a FlagSet that reports to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseConvertFlags parses render or export flags and returns positional args.
func parseConvertFlags(cmd string, args []string, w io.Writer) (*convertFlags, []string, error) {
	usage := printRenderUsage
	if cmd == cmdExport {
		usage = printExportUsage
	}
	fs := newFlagSet(cmd, w, usage)
	f := &convertFlags{}
	addConvertFlags(fs, cmd, f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// addConvertFlags registers the render or export flags. Completion
// reads the same registration.
func addConvertFlags(fs *flag.FlagSet, cmd string, f *convertFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.timeout, "timeout", "", "per-document timeout (e.g., 30s, 2m)")
	if cmd == cmdExport {
		fs.BoolVar(&f.pdf, "pdf", false, "also print a PDF next to each DOCX")
	}

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
}

// addTemplatesFlags registers the templates command flags.
func addTemplatesFlags(fs *flag.FlagSet, f *templatesFlags) {
	fs.BoolVar(&f.json, "json", false, "output JSON")
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
}

// parseTemplatesFlags parses templates command flags.
func parseTemplatesFlags(args []string, w io.Writer) (*templatesFlags, error) {
	fs := newFlagSet(cmdTemplates, w, printTemplatesUsage)
	f := &templatesFlags{}
	addTemplatesFlags(fs, f)

	if err := fs.Parse(args); err != nil {
		return nil, parseError(err)
	}
	return f, nil
}

// parseValidateFlags parses validate command flags.
func parseValidateFlags(args []string, w io.Writer) (*commonFlags, []string, error) {
	fs := newFlagSet(cmdValidate, w, printValidateUsage)
	f := &commonFlags{}
	addCommonFlags(fs, f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, parseError(err)
	}
	return f, fs.Args(), nil
}

// parseError keeps flag.ErrHelp recognizable and marks the rest as usage errors.
func parseError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}
