package assets

import (
	"slices"
)

// AssetResolver reads from a custom loader first and falls back to the
// embedded assets when the custom loader reports "not found".
type AssetResolver struct {
	custom   AssetLoader // nil when no custom path is configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath
// uses embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// Load tries the custom loader, then the embedded one. Validation and
// I/O errors from the custom loader are returned without fallback.
func (r *AssetResolver) Load(kind Kind, name string) ([]byte, error) {
	if r.custom == nil {
		return r.embedded.Load(kind, name)
	}
	content, err := r.custom.Load(kind, name)
	if err == nil {
		return content, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	return r.embedded.Load(kind, name)
}

// List merges custom and embedded names.
func (r *AssetResolver) List(kind Kind) ([]string, error) {
	names, err := r.embedded.List(kind)
	if err != nil {
		return nil, err
	}
	if r.custom == nil {
		return names, nil
	}
	custom, err := r.custom.List(kind)
	if err != nil {
		return nil, err
	}
	names = append(names, custom...)
	slices.Sort(names)
	return slices.Compact(names), nil
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
