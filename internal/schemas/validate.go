// Package schemas validates CV and cover-letter payloads against JSON Schema before they are decoded.
package schemas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError reports a document that is missing mandatory fields or has malformed values.
// It is shared by the JSON Schema gate and the struct validator in package types so callers
// only need to check for a single type.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Add appends a field error.
func (ve *ValidationError) Add(field, message string) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Message: message})
}

// OrNil returns ve when it holds at least one error and nil otherwise.
func (ve *ValidationError) OrNil() error {
	if ve == nil || len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

// ValidateFile checks the JSON document at jsonPath against the JSON Schema at
// schemaPath. Malformed documents and schema violations are *ValidationError;
// an unusable schema is *SchemaLoadError.
func ValidateFile(schemaPath, jsonPath string) error {
	schemaData, err := readFile("schema", schemaPath)
	if err != nil {
		return err
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return &SchemaLoadError{Path: schemaPath, Message: "invalid JSON Schema", Cause: err}
	}

	raw, err := readFile("JSON", jsonPath)
	if err != nil {
		return err
	}
	return validateBytes(schema, raw)
}

func readFile(what, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s file not found: %s", what, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", what, err)
	}
	return data, nil
}

// fromResult converts a gojsonschema result into a *ValidationError, or nil when valid.
func fromResult(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Add(field, desc.Description())
	}

	return validationErr
}
