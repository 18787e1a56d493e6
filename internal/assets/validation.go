package assets

import (
	"fmt"
	"strings"
)

// maxAssetNameLength bounds asset names used as file names.
const maxAssetNameLength = 64

// ValidateAssetName rejects names that are empty, too long, or contain
// path separators, dots, or NUL bytes.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxAssetNameLength:
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, maxAssetNameLength)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
