// Package schema validates serialized résumé documents against an
// embedded JSON Schema before they are decoded.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchema []byte

// ErrInvalidDocument is wrapped by every ValidationError.
var ErrInvalidDocument = errors.New("document does not match schema")

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrInvalidDocument.Error())
	sb.WriteString(":")
	for _, fe := range e.Errors {
		fmt.Fprintf(&sb, "\n  %s: %s", fe.Field, fe.Message)
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDocument
}

var (
	compiled    *gojsonschema.Schema
	compileErr  error
	compileOnce sync.Once
)

func load() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(resumeSchema))
	})
	return compiled, compileErr
}

// Source returns the embedded schema text.
func Source() []byte {
	return append([]byte(nil), resumeSchema...)
}

// Validate checks JSON document bytes against the résumé schema.
// It returns a *ValidationError listing violations, or an error if the
// input is not JSON at all.
func Validate(doc []byte) error {
	s, err := load()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, re := range result.Errors() {
		field := re.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: re.Description()})
	}
	return verr
}
