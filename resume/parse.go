package resume

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-cvkit/internal/schema"
	"github.com/alnah/go-cvkit/internal/yamlutil"
)

// Format is a serialization format for documents.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// MaxFileSize caps document files read by Load (1MB).
const MaxFileSize = 1 << 20

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// IsDocumentFile reports whether path has a supported extension.
func IsDocumentFile(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// Load reads, schema-checks, and decodes a document file.
func Load(path string) (Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Document{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if info.Size() > MaxFileSize {
		return Document{}, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrRead, path, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided document path
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return Parse(data, format)
}

// Parse decodes document bytes in the given format. The serialized form
// is checked against the document schema, then the section invariants
// are validated.
func Parse(data []byte, format Format) (Document, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		converted, err := yamlutil.ToJSON(data)
		if err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrParse, err)
		}
		data = converted
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := schema.Validate(data); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Encode serializes doc in the given format.
func Encode(doc Document, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
		return yamlutil.Marshal(generic)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
