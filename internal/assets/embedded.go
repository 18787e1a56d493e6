package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed templates/*.yaml styles/*.css shells/*.html
var files embed.FS

// EmbeddedLoader reads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// Load reads {kind.Dir}/{name}{kind.Ext} from the embedded files.
func (e *EmbeddedLoader) Load(kind Kind, name string) ([]byte, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	content, err := files.ReadFile(path.Join(kind.Dir, name+kind.Ext))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", kind.NotFound, name)
	}
	return content, nil
}

// List returns embedded asset names of a kind, sorted.
func (e *EmbeddedLoader) List(kind Kind) ([]string, error) {
	entries, err := fs.ReadDir(files, kind.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return namesWithExt(entries, kind.Ext), nil
}

func namesWithExt(entries []fs.DirEntry, ext string) []string {
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
