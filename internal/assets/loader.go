package assets

import "errors"

// Kind identifies a family of asset files.
type Kind struct {
	Dir      string
	Ext      string
	NotFound error
}

// Asset kinds.
var (
	KindTemplate = Kind{Dir: "templates", Ext: ".yaml", NotFound: ErrTemplateNotFound}
	KindStyle    = Kind{Dir: "styles", Ext: ".css", NotFound: ErrStyleNotFound}
	KindShell    = Kind{Dir: "shells", Ext: ".html", NotFound: ErrShellNotFound}
)

// Default asset names.
const (
	DefaultStyle = "base"
	DefaultShell = "page"
)

// AssetLoader reads named assets of a given kind. Implementations may
// read from embedded files, a directory, or any other store.
type AssetLoader interface {
	// Load returns the asset content. It returns kind.NotFound when the
	// asset does not exist and ErrInvalidAssetName for unsafe names.
	Load(kind Kind, name string) ([]byte, error)

	// List returns the names of all assets of a kind, without extension.
	List(kind Kind) ([]string, error)
}

// IsNotFound reports whether err means the asset does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrShellNotFound)
}
