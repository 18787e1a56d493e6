package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	cvkit "github.com/alnah/go-cvkit"
)

// templateJSON is the --json shape of one template.
type templateJSON struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Layout   string `json:"layout"`
	PageSize string `json:"pageSize"`
}

// runTemplates lists the templates a converter would offer with the
// current settings.
func runTemplates(args []string, env *Environment) error {
	flags, err := parseTemplatesFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(flags.common.config)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags.render, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := converterOptions(cfg, newLogger(env.Stderr, flags.common.quiet, flags.common.verbose))
	if err != nil {
		return err
	}
	pool, err := env.NewPool(1, opts...)
	if err != nil {
		return err
	}
	defer pool.Close()

	conv, err := pool.Acquire()
	if err != nil {
		return err
	}
	defer pool.Release(conv)

	templates, err := conv.Templates()
	if err != nil {
		return err
	}

	if flags.json {
		return printTemplatesJSON(env.Stdout, templates)
	}
	return printTemplatesTable(env.Stdout, templates)
}

func printTemplatesJSON(w io.Writer, templates []cvkit.Template) error {
	out := make([]templateJSON, 0, len(templates))
	for _, t := range templates {
		out = append(out, templateJSON(t))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printTemplatesTable(w io.Writer, templates []cvkit.Template) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTITLE\tLAYOUT\tPAGE")
	for _, t := range templates {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Title, t.Layout, t.PageSize)
	}
	return tw.Flush()
}
