package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	cvkit "github.com/alnah/go-cvkit"
	"github.com/alnah/go-cvkit/internal/config"
	"github.com/alnah/go-cvkit/internal/fileutil"
	"github.com/alnah/go-cvkit/resume"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoDocuments        = errors.New("no résumé documents found")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// outputExts are extensions that mark --output as a file rather than a
// directory.
var outputExts = map[string]bool{".html": true, ".htm": true, ".docx": true, ".pdf": true}

// FileToConvert represents a single document to process. OutputBase is
// the output path without extension; each command adds its own.
type FileToConvert struct {
	InputPath  string
	OutputBase string
}

// discoverFiles finds all résumé documents to process.
func discoverFiles(inputPath, output string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if _, err := resume.FormatFromPath(inputPath); err != nil {
			return nil, err
		}
		return []FileToConvert{{InputPath: inputPath, OutputBase: resolveOutputBase(inputPath, output, "")}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !resume.IsDocumentFile(path) {
			return nil
		}
		files = append(files, FileToConvert{InputPath: path, OutputBase: resolveOutputBase(path, output, inputPath)})
		return nil
	})
	return files, err
}

// resolveOutputBase determines the extensionless output path for a document.
// A directory input is mirrored under output.
func resolveOutputBase(inputPath, output, baseInputDir string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if baseInputDir == "" && outputExts[strings.ToLower(filepath.Ext(output))] {
		return fileutil.ReplaceExt(output, "")
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(output, filepath.Dir(rel), base)
		}
	}

	return filepath.Join(output, base)
}

// resolveInputPath picks the positional argument, then input.defaultDir.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutput picks --output, then output.defaultDir.
func resolveOutput(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > cvkit.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, cvkit.MaxPoolSize)
	}
	return nil
}
