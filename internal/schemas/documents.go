package schemas

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed cv_document.schema.json
var cvDocumentSchema string

//go:embed letter.schema.json
var letterSchema string

var (
	compileOnce    sync.Once
	compiledCV     *gojsonschema.Schema
	compiledLetter *gojsonschema.Schema
	compileFailure error
)

func compiled() (*gojsonschema.Schema, *gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		var err error
		compiledCV, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(cvDocumentSchema))
		if err != nil {
			compileFailure = &SchemaLoadError{Path: "cv_document.schema.json", Message: "invalid embedded schema", Cause: err}
			return
		}
		compiledLetter, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(letterSchema))
		if err != nil {
			compileFailure = &SchemaLoadError{Path: "letter.schema.json", Message: "invalid embedded schema", Cause: err}
		}
	})
	return compiledCV, compiledLetter, compileFailure
}

// ValidateDocumentJSON checks a raw CV document payload against the embedded CV schema.
func ValidateDocumentJSON(raw []byte) error {
	cv, _, err := compiled()
	if err != nil {
		return err
	}
	return validateBytes(cv, raw)
}

// ValidateLetterJSON checks a raw cover-letter payload against the embedded letter schema.
func ValidateLetterJSON(raw []byte) error {
	_, letter, err := compiled()
	if err != nil {
		return err
	}
	return validateBytes(letter, raw)
}

func validateBytes(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		// gojsonschema reports malformed JSON as a load error; callers treat it as invalid input.
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: fmt.Sprintf("malformed JSON: %v", err)}}}
	}
	return fromResult(result)
}
