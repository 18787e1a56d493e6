package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-cvkit/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // CVKIT_CONFIG: config file name or path
	Template   string        // CVKIT_TEMPLATE: template name or id
	Timeout    time.Duration // CVKIT_TIMEOUT: per-document timeout
	InputDir   string        // CVKIT_INPUT_DIR: default input directory
	OutputDir  string        // CVKIT_OUTPUT_DIR: default output directory
	PageSize   string        // CVKIT_PAGE_SIZE: A4, Letter
	Measurer   string        // CVKIT_MEASURER: metrics, browser
	AssetPath  string        // CVKIT_ASSET_PATH: custom asset directory
	Workers    int           // CVKIT_WORKERS: parallel workers
}

// knownEnvVars lists valid CVKIT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"CVKIT_CONFIG":     true,
	"CVKIT_TEMPLATE":   true,
	"CVKIT_TIMEOUT":    true,
	"CVKIT_INPUT_DIR":  true,
	"CVKIT_OUTPUT_DIR": true,
	"CVKIT_PAGE_SIZE":  true,
	"CVKIT_MEASURER":   true,
	"CVKIT_ASSET_PATH": true,
	"CVKIT_WORKERS":    true,
	"CVKIT_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("CVKIT_CONFIG"),
		Template:   os.Getenv("CVKIT_TEMPLATE"),
		InputDir:   os.Getenv("CVKIT_INPUT_DIR"),
		OutputDir:  os.Getenv("CVKIT_OUTPUT_DIR"),
		PageSize:   os.Getenv("CVKIT_PAGE_SIZE"),
		Measurer:   os.Getenv("CVKIT_MEASURER"),
		AssetPath:  os.Getenv("CVKIT_ASSET_PATH"),
	}

	if timeout := os.Getenv("CVKIT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("CVKIT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized CVKIT_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "CVKIT_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment values on the loaded config.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Template != "" {
		cfg.Template = env.Template
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Measurer != "" {
		cfg.Render.Measurer = env.Measurer
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Render.Timeout = env.Timeout.String()
	}
}
