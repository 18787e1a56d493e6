package main

// Scripts are checked for content markers only; running them needs the
// target shells.

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Shell completion script generation
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		shell        Shell
		wantContains []string
	}{
		{
			name:  "bash",
			shell: ShellBash,
			wantContains: []string{
				"_cvkit_completions",
				"complete -o filenames -o plusdirs -F _cvkit_completions cvkit",
				"--template|-t) COMPREPLY=( $(compgen -W \"classic modern",
				"--config|-c) COMPREPLY=( $(compgen -f -X '!*.@(yaml|yml)'",
				"--output|-o) COMPREPLY=( $(compgen -d",
				"compgen -f -X '!*.@(json|yaml|yml)'",
				"--pdf",
			},
		},
		{
			name:  "zsh",
			shell: ShellZsh,
			wantContains: []string{
				"#compdef cvkit",
				"_describe 'command' commands",
				"_arguments",
				"'(-p --page-size)'{-p,--page-size}",
				":measurer:(metrics browser)",
				"'1:completion:(bash zsh fish)'",
				"_cvkit \"$@\"",
			},
		},
		{
			name:  "fish",
			shell: ShellFish,
			wantContains: []string{
				"complete -c cvkit -f",
				"__fish_cvkit_needs_command",
				"complete -c cvkit -n '__fish_cvkit_using_command export' -l pdf",
				"-l page-size -s p -x -a 'A4 Letter'",
				"(__fish_complete_suffix .yaml)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%s) error = %v", tt.shell, err)
			}
			out := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(out, want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
			for _, cmd := range commandNames() {
				if !strings.Contains(out, cmd) {
					t.Errorf("%s script missing command %q", tt.shell, cmd)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
	if exitCodeFor(err) != ExitUsage {
		t.Errorf("exitCodeFor() = %d, want %d", exitCodeFor(err), ExitUsage)
	}
}

func TestGetCommands(t *testing.T) {
	t.Parallel()

	byName := make(map[string]commandDef)
	for _, c := range getCommands() {
		byName[c.Name] = c
	}
	for _, name := range commandNames() {
		if _, ok := byName[name]; !ok {
			t.Errorf("command %q missing from completion registry", name)
		}
	}

	hasFlag := func(c commandDef, long string) bool {
		for _, f := range c.Flags {
			if f.Long == long {
				return true
			}
		}
		return false
	}
	if !hasFlag(byName[cmdExport], "pdf") {
		t.Error("export should complete --pdf")
	}
	if hasFlag(byName[cmdRender], "pdf") {
		t.Error("render should not complete --pdf")
	}
	if !hasFlag(byName[cmdTemplates], "json") || !hasFlag(byName[cmdDoctor], "json") {
		t.Error("templates and doctor should complete --json")
	}
}

func TestExtractFlagsFromFlagSet(t *testing.T) {
	t.Parallel()

	flags := extractFlagsFromFlagSet(buildFlagSet(cmdExport))
	want := map[string]flagType{
		"output":    flagDir,
		"config":    flagFile,
		"template":  flagEnum,
		"page-size": flagEnum,
		"workers":   flagInt,
		"timeout":   flagString,
		"pdf":       flagBool,
	}
	got := make(map[string]flagDef)
	for _, f := range flags {
		got[f.Long] = f
	}
	for name, typ := range want {
		f, ok := got[name]
		if !ok {
			t.Errorf("flag %q missing", name)
			continue
		}
		if f.Type != typ {
			t.Errorf("flag %q type = %d, want %d", name, f.Type, typ)
		}
	}
	if got["template"].Short != "t" || len(got["template"].Values) != 8 {
		t.Errorf("template flag = %+v", got["template"])
	}
}

func TestRun_Completion(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(nil)
	if code := run(context.Background(), []string{"cvkit", "completion"}, env); code != ExitSuccess {
		t.Errorf("run(completion) = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stdout.String(), "Usage: cvkit completion") {
		t.Errorf("stdout = %q", stdout.String())
	}

	env, _, stderr := testEnv(nil)
	if code := run(context.Background(), []string{"cvkit", "completion", "tcsh"}, env); code != ExitUsage {
		t.Errorf("run(completion tcsh) = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "unsupported shell") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
