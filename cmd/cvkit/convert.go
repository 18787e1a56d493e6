package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	cvkit "github.com/alnah/go-cvkit"
	"github.com/alnah/go-cvkit/internal/config"
	"github.com/alnah/go-cvkit/internal/fileutil"
	"github.com/alnah/go-cvkit/resume"
)

// ErrWriteOutput wraps failures writing produced files.
var ErrWriteOutput = errors.New("failed to write output file")

const filePermissions = 0o644 // rw-r--r--: owner read+write, others read

// ConversionResult holds the outcome of a single document.
type ConversionResult struct {
	InputPath string
	Outputs   []string
	Pages     int
	Err       error
	Duration  time.Duration
}

// jobOutput is what a job wrote for one document.
type jobOutput struct {
	Paths []string
	Pages int
}

// job turns one loaded document into files under base.
type job func(ctx context.Context, conv Converter, doc resume.Document, template, base string) (jobOutput, error)

// runConvert orchestrates the render and export commands.
func runConvert(ctx context.Context, cmd string, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(cmd, args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadSettings(flags.common.config)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	opts, err := converterOptions(cfg, logger)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}
	files, err := discoverFiles(inputPath, resolveOutput(flags.output, cfg))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoDocuments, inputPath)
	}

	workers := min(cvkit.ResolvePoolSize(cfg.Render.Workers), len(files))
	logger.Debug("starting batch", "command", cmd, "documents", len(files), "workers", workers)

	pool, err := env.NewPool(workers, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converters", "error", err)
		}
	}()

	j := renderJob
	if cmd == cmdExport {
		j = exportJob(cfg.Output.PDF)
	}

	results := convertBatch(ctx, pool, files, cfg.Template, j, env.Now)
	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return batchError(results, failed)
	}
	return nil
}

// loadSettings loads the named config (flag, then CVKIT_CONFIG) and
// overlays environment values.
func loadSettings(configFlag string) (*config.Config, error) {
	envCfg := loadEnvConfig()

	name := configFlag
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeRenderFlags merges template and paper flags into config. CLI wins.
func mergeRenderFlags(f renderFlags, cfg *config.Config) {
	if f.template != "" {
		cfg.Template = f.template
	}
	if f.pageSize != "" {
		cfg.Page.Size = f.pageSize
	}
	if f.measurer != "" {
		cfg.Render.Measurer = f.measurer
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
}

// mergeFlags merges render/export flags into config. CLI wins.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	mergeRenderFlags(f.render, cfg)
	if f.workers > 0 {
		cfg.Render.Workers = f.workers
	}
	if f.timeout != "" {
		cfg.Render.Timeout = f.timeout
	}
	if f.pdf {
		cfg.Output.PDF = true
	}
}

// converterOptions maps a validated config onto converter options.
func converterOptions(cfg *config.Config, logger *slog.Logger) ([]cvkit.Option, error) {
	opts := []cvkit.Option{cvkit.WithLogger(logger)}

	if cfg.Page.Size != "" {
		opts = append(opts, cvkit.WithPageSize(cfg.Page.Size))
	}
	if cfg.Render.Measurer != "" {
		opts = append(opts, cvkit.WithMeasurer(strings.ToLower(cfg.Render.Measurer)))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, cvkit.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Images.MaxBytes > 0 {
		opts = append(opts, cvkit.WithMaxImageBytes(cfg.Images.MaxBytes))
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, cvkit.WithTimeout(timeout))
	}
	return opts, nil
}

// convertBatch processes documents concurrently, at most pool.Size() at a
// time. A failed document never stops the others.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, template string, j job, now func() time.Time) []ConversionResult {
	results := make([]ConversionResult, len(files))

	var g errgroup.Group
	g.SetLimit(pool.Size())
	for i, f := range files {
		g.Go(func() error {
			results[i] = convertFile(ctx, pool, f, template, j, now)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// convertFile loads one document and runs j on a pooled converter.
func convertFile(ctx context.Context, pool Pool, f FileToConvert, template string, j job, now func() time.Time) (result ConversionResult) {
	start := now()
	result.InputPath = f.InputPath
	defer func() { result.Duration = now().Sub(start) }()

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	doc, err := resume.Load(f.InputPath)
	if err != nil {
		result.Err = err
		return result
	}

	conv, err := pool.Acquire()
	if err != nil {
		result.Err = err
		return result
	}
	defer pool.Release(conv)

	out, err := j(ctx, conv, doc, template, f.OutputBase)
	result.Outputs, result.Pages, result.Err = out.Paths, out.Pages, err
	return result
}

// renderJob writes the paginated HTML preview.
func renderJob(ctx context.Context, conv Converter, doc resume.Document, template, base string) (jobOutput, error) {
	p, err := conv.Preview(ctx, doc, template)
	if err != nil {
		return jobOutput{}, err
	}
	path := base + ".html"
	if err := writeOutput(path, []byte(p.HTML)); err != nil {
		return jobOutput{}, err
	}
	return jobOutput{Paths: []string{path}, Pages: p.PageCount()}, nil
}

// exportJob writes the DOCX, and the PDF when pdf is set.
func exportJob(pdf bool) job {
	return func(ctx context.Context, conv Converter, doc resume.Document, template, base string) (jobOutput, error) {
		var out jobOutput

		f, err := conv.Export(ctx, doc, template)
		if err != nil {
			return out, err
		}
		path := base + ".docx"
		if err := writeOutput(path, f.Data); err != nil {
			return out, err
		}
		out.Paths = append(out.Paths, path)

		if !pdf {
			return out, nil
		}
		f, err = conv.ExportPDF(ctx, doc, template)
		if err != nil {
			return out, err
		}
		path = base + ".pdf"
		if err := writeOutput(path, f.Data); err != nil {
			return out, err
		}
		out.Paths = append(out.Paths, path)
		return out, nil
	}
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil { // #nosec G306 -- output is meant to be shared
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// printResults outputs per-document lines and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		outputs := strings.Join(r.Outputs, ", ")
		switch {
		case verbose && r.Pages > 0:
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %v)\n", r.InputPath, outputs, r.Pages, r.Duration.Round(time.Millisecond))
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, outputs, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", outputs)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}

// batchError summarizes failures and wraps the first one, so the exit
// code reflects its cause.
func batchError(results []ConversionResult, failed int) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%d of %d document(s) failed: %w", failed, len(results), r.Err)
		}
	}
	return nil
}
