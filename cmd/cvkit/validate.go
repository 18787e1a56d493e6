package main

import (
	"fmt"

	"github.com/alnah/go-cvkit/internal/schema"
	"github.com/alnah/go-cvkit/resume"
)

// runValidate checks documents against the schema and the section rules
// without rendering them.
func runValidate(args []string, env *Environment) error {
	flags, positional, err := parseValidateFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(flags.config)
	if err != nil {
		return err
	}
	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}
	files, err := discoverFiles(inputPath, "")
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoDocuments, inputPath)
	}

	var failed int
	var first error
	for _, f := range files {
		doc, err := resume.Load(f.InputPath)
		if err != nil {
			failed++
			if first == nil {
				first = err
			}
			fmt.Fprintf(env.Stderr, "INVALID %s: %v\n", f.InputPath, err)
			continue
		}
		if !flags.quiet {
			fmt.Fprintf(env.Stdout, "OK %s (%d sections)\n", f.InputPath, len(doc.VisibleSections()))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) invalid: %w", failed, len(files), first)
	}
	return nil
}

// runSchema prints the JSON schema résumé files are checked against.
func runSchema(env *Environment) error {
	_, err := env.Stdout.Write(schema.Source())
	return err
}
