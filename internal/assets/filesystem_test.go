package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, base string, kind Kind, name, content string) {
	t.Helper()
	dir := filepath.Join(base, kind.Dir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+kind.Ext), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "valid dir", path: t.TempDir()},
		{name: "empty path", path: "", wantErr: true},
		{name: "missing dir", path: "/nonexistent/path/abc123xyz", wantErr: true},
		{name: "regular file", path: file, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewFilesystemLoader(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBasePath) {
					t.Errorf("NewFilesystemLoader() error = %v, want ErrInvalidBasePath", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFilesystemLoader() unexpected error: %v", err)
			}
		})
	}
}

func TestFilesystemLoader_LoadAndList(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	writeAsset(t, base, KindTemplate, "mine", "id: 9")
	writeAsset(t, base, KindStyle, "base", "body{}")

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() unexpected error: %v", err)
	}

	got, err := loader.Load(KindTemplate, "mine")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if string(got) != "id: 9" {
		t.Errorf("Load() = %q, want %q", got, "id: 9")
	}

	if _, err := loader.Load(KindTemplate, "other"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrTemplateNotFound", err)
	}

	names, err := loader.List(KindTemplate)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(names) != 1 || names[0] != "mine" {
		t.Errorf("List() = %v, want [mine]", names)
	}

	names, err = loader.List(KindShell)
	if err != nil || names != nil {
		t.Errorf("List(missing dir) = %v, %v; want nil, nil", names, err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	writeAsset(t, outside, KindStyle, "secret", "x")

	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, KindStyle.Dir), 0o750); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, KindStyle.Dir, "leak"+KindStyle.Ext)
	if err := os.Symlink(filepath.Join(outside, KindStyle.Dir, "secret"+KindStyle.Ext), link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	loader, err := NewFilesystemLoader(base)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() unexpected error: %v", err)
	}
	if _, err := loader.Load(KindStyle, "leak"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("Load(symlink) error = %v, want ErrPathTraversal", err)
	}
}
