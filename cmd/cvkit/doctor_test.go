package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(nil)
	code := runDoctorCmd([]string{"--json"}, env)

	var got doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}

	switch got.Status {
	case "ready", "warnings":
		if code != ExitSuccess {
			t.Errorf("code = %d for status %s, want %d", code, got.Status, ExitSuccess)
		}
	case "errors":
		if code != ExitGeneral {
			t.Errorf("code = %d for status errors, want %d", code, ExitGeneral)
		}
	default:
		t.Errorf("Status = %q", got.Status)
	}
	if got.Env.OS == "" || got.Env.Arch == "" {
		t.Errorf("Env = %+v, want platform filled", got.Env)
	}
	if !got.Chrome.Found && len(got.Warnings) == 0 {
		t.Error("a missing browser should be reported as a warning")
	}
}

func TestCheckTemplates(t *testing.T) {
	t.Parallel()

	result := &doctorResult{}
	checkTemplates(result, "")
	if result.System.Templates != 8 {
		t.Errorf("Templates = %d, want 8", result.System.Templates)
	}

	result = &doctorResult{}
	checkTemplates(result, "/does/not/exist")
	if len(result.Errors) == 0 {
		t.Error("a missing asset directory should be an error")
	}
}

func TestCheckFontMetrics(t *testing.T) {
	t.Parallel()

	result := &doctorResult{}
	checkFontMetrics(result)
	if !result.System.FontMetrics || len(result.Errors) != 0 {
		t.Errorf("result = %+v, want embedded font metrics loaded", result.System)
	}
}

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		r    *doctorResult
		want []string
	}{
		{
			name: "ready",
			r: &doctorResult{
				Status: "ready",
				Chrome: chromeInfo{Found: true, Path: "/usr/bin/chromium", Version: "Chromium 140", Sandbox: true},
				Env:    envInfo{OS: "linux", Arch: "amd64"},
				System: systemInfo{TempWritable: true, Templates: 8, FontMetrics: true},
			},
			want: []string{"[OK] Found at /usr/bin/chromium", "Sandbox: enabled", "Templates: 8 loaded", "Font metrics: loaded", "Status: Ready"},
		},
		{
			name: "no browser in a container",
			r: &doctorResult{
				Status:   "warnings",
				Env:      envInfo{OS: "linux", Arch: "arm64", Container: true, ContainerHint: "/.dockerenv"},
				Warnings: []string{"Chrome/Chromium not found"},
			},
			want: []string{"[WARN] Not found", "Container: detected (/.dockerenv)", "Warnings:", "[ERROR] Temp directory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := testEnv(nil)
			printDoctorResult(env.Stdout, tt.r)
			for _, want := range tt.want {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("output missing %q:\n%s", want, stdout.String())
				}
			}
		})
	}
}
