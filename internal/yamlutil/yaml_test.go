package yamlutil_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-cvkit/internal/yamlutil"
)

type descriptor struct {
	Name    string `yaml:"name"`
	Columns int    `yaml:"columns"`
	Icons   bool   `yaml:"icons"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{name: "valid", data: []byte("name: sidebar\ncolumns: 2\nicons: true"), dest: &descriptor{}},
		{name: "unknown fields ignored", data: []byte("name: a\nextra: 1"), dest: &descriptor{}},
		{name: "nil data", data: nil, dest: &descriptor{}, wantErr: yamlutil.ErrNilData},
		{name: "nil destination", data: []byte("name: a"), dest: nil, wantErr: yamlutil.ErrNilDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
		})
	}
}

func TestUnmarshal_Fields(t *testing.T) {
	t.Parallel()

	var d descriptor
	if err := yamlutil.Unmarshal([]byte("name: sidebar\ncolumns: 2\nicons: true"), &d); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if d.Name != "sidebar" || d.Columns != 2 || !d.Icons {
		t.Errorf("Unmarshal() = %+v", d)
	}
}

func TestUnmarshalStrict_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	var d descriptor
	err := yamlutil.UnmarshalStrict([]byte("name: a\nextra: 1"), &d)
	if err == nil {
		t.Fatal("UnmarshalStrict() expected error for unknown field")
	}
	if !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error should be prefixed, got %q", err.Error())
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(descriptor{Name: "classic", Columns: 3})
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "name: classic") {
		t.Errorf("Marshal() = %q, missing name", out)
	}
}

func TestToJSON(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.ToJSON([]byte("skills:\n  - Go\n  - name: Rust\n    level: Expert\nsummary: hi\n"))
	if err != nil {
		t.Fatalf("ToJSON() unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("ToJSON() produced invalid JSON %q: %v", out, err)
	}
	if got["summary"] != "hi" {
		t.Errorf("summary = %v, want hi", got["summary"])
	}
	skills, ok := got["skills"].([]any)
	if !ok || len(skills) != 2 {
		t.Fatalf("skills = %v, want 2 items", got["skills"])
	}
}

func TestInputSizeLimit(t *testing.T) {
	original := yamlutil.MaxInputSize
	yamlutil.MaxInputSize = 16
	t.Cleanup(func() { yamlutil.MaxInputSize = original })

	big := []byte("name: " + strings.Repeat("x", 32))

	if err := yamlutil.Unmarshal(big, &descriptor{}); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("Unmarshal() error = %v, want ErrInputTooLarge", err)
	}
	if _, err := yamlutil.ToJSON(big); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("ToJSON() error = %v, want ErrInputTooLarge", err)
	}
}
