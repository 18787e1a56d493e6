package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-cvkit/internal/fileutil"
	"github.com/alnah/go-cvkit/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTemplateLength = 64   // Template name, id or descriptor name
	MaxPathLength     = 4096 // Directory or asset path
	MaxPageSizeLength = 10   // "A4", "Letter"
	MaxMeasurerLength = 10   // "metrics", "browser"
	MaxDurationLength = 20   // "30s", "2m"
)

// Bounds for numeric fields.
const (
	MaxWorkers       = 8 // One Chrome per worker at most
	MaxImageBytesCap = 50 << 20
)

// Config holds all configuration for résumé rendering and export.
type Config struct {
	Template string       `yaml:"template"` // Name or id (empty = classic)
	Input    InputConfig  `yaml:"input"`
	Output   OutputConfig `yaml:"output"`
	Page     PageConfig   `yaml:"page"`
	Render   RenderConfig `yaml:"render"`
	Assets   AssetsConfig `yaml:"assets"`
	Images   ImageConfig  `yaml:"images"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same as source
	PDF        bool   `yaml:"pdf"`        // Print a PDF next to every DOCX
}

// PageConfig overrides the template's paper.
type PageConfig struct {
	Size string `yaml:"size"` // "A4", "Letter" (empty = template default)
}

// RenderConfig defines pagination and worker options.
type RenderConfig struct {
	Measurer string `yaml:"measurer"` // "metrics" or "browser" (default: metrics)
	Workers  int    `yaml:"workers"`  // 0 = auto
	Timeout  string `yaml:"timeout"`  // Go duration, e.g. "30s"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// ImageConfig bounds profile image reads.
type ImageConfig struct {
	MaxBytes int64 `yaml:"maxBytes"` // 0 = library default
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("template", c.Template, MaxTemplateLength); err != nil {
		return err
	}
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("page.size", c.Page.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if c.Page.Size != "" && !oneOf(c.Page.Size, "a4", "letter") {
		return fmt.Errorf("%w: page.size %q (must be A4 or Letter)", ErrInvalidValue, c.Page.Size)
	}

	if err := validateFieldLength("render.measurer", c.Render.Measurer, MaxMeasurerLength); err != nil {
		return err
	}
	if c.Render.Measurer != "" && !oneOf(c.Render.Measurer, "metrics", "browser") {
		return fmt.Errorf("%w: render.measurer %q (must be metrics or browser)", ErrInvalidValue, c.Render.Measurer)
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}
	if err := validateFieldLength("render.timeout", c.Render.Timeout, MaxDurationLength); err != nil {
		return err
	}
	if c.Render.Timeout != "" {
		if _, err := c.Timeout(); err != nil {
			return err
		}
	}

	if c.Images.MaxBytes < 0 || c.Images.MaxBytes > MaxImageBytesCap {
		return fmt.Errorf("%w: images.maxBytes must be between 0 and %d, got %d", ErrInvalidValue, MaxImageBytesCap, c.Images.MaxBytes)
	}

	return nil
}

// Timeout parses render.timeout. Zero means unset.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Render.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout %q: %v", ErrInvalidValue, c.Render.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

// DefaultConfig returns a configuration that defers every choice to the
// library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists where a config name is looked up, in order:
// the current directory, then <user config dir>/go-cvkit/, each with
// .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-cvkit", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
