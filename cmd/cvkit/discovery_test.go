package main

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/alnah/go-cvkit/internal/config"
	"github.com/alnah/go-cvkit/resume"
)

func TestResolveOutputBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		inputPath    string
		output       string
		baseInputDir string
		want         string
	}{
		{name: "no output keeps the input directory", inputPath: "docs/ada.yaml", want: "docs/ada"},
		{name: "single file to a named docx", inputPath: "ada.yaml", output: "out/cv.docx", want: "out/cv"},
		{name: "single file to a named html", inputPath: "ada.yaml", output: "out/CV.HTML", want: "out/CV"},
		{name: "single file to a directory", inputPath: "docs/ada.json", output: "out", want: "out/ada"},
		{name: "directory mirrors structure", inputPath: "docs/team/grace.yml", output: "out", baseInputDir: "docs", want: "out/team/grace"},
		{name: "directory ignores output extension", inputPath: "docs/ada.yaml", output: "site.pdf", baseInputDir: "docs", want: "site.pdf/ada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputBase(filepath.FromSlash(tt.inputPath), filepath.FromSlash(tt.output), filepath.FromSlash(tt.baseInputDir))
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("resolveOutputBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiscoverFiles_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ada.yaml"), adaYAML)
	writeFile(t, filepath.Join(dir, "team", "grace.JSON"), graceJSON)
	writeFile(t, filepath.Join(dir, "team", "old.yml"), adaYAML)
	writeFile(t, filepath.Join(dir, "README.md"), "# docs")
	writeFile(t, filepath.Join(dir, "photo.png"), "png")

	files, err := discoverFiles(dir, "out")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}

	var got []string
	for _, f := range files {
		rel, err := filepath.Rel(dir, f.InputPath)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, filepath.ToSlash(rel)+"="+filepath.ToSlash(f.OutputBase))
	}
	sort.Strings(got)

	want := []string{"ada.yaml=out/ada", "team/grace.JSON=out/team/grace", "team/old.yml=out/team/old"}
	if len(got) != len(want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDiscoverFiles_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "ada.yaml"), adaYAML)

	files, err := discoverFiles(path, "")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 1 || files[0].OutputBase != filepath.Join(dir, "ada") {
		t.Errorf("files = %+v", files)
	}

	txt := writeFile(t, filepath.Join(dir, "ada.txt"), "")
	if _, err := discoverFiles(txt, ""); !errors.Is(err, resume.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestResolveInputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		cfgDir  string
		want    string
		wantErr error
	}{
		{name: "positional wins", args: []string{"cv.yaml"}, cfgDir: "docs", want: "cv.yaml"},
		{name: "config default", cfgDir: "docs", want: "docs"},
		{name: "nothing", wantErr: ErrNoInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &config.Config{Input: config.InputConfig{DefaultDir: tt.cfgDir}}
			got, err := resolveInputPath(tt.args, cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveInputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveOutput(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Output: config.OutputConfig{DefaultDir: "site"}}
	if got := resolveOutput("cv.docx", cfg); got != "cv.docx" {
		t.Errorf("flag output = %q, want cv.docx", got)
	}
	if got := resolveOutput("", cfg); got != "site" {
		t.Errorf("config output = %q, want site", got)
	}
}

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 8} {
		if err := validateWorkers(n); err != nil {
			t.Errorf("validateWorkers(%d) error = %v", n, err)
		}
	}
	for _, n := range []int{-1, 9, 100} {
		if err := validateWorkers(n); !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", n, err)
		}
	}
}
