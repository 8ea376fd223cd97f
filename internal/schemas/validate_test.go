package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"}
	}
}`

func TestValidateFile_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	schemaPath := filepath.Join(tmpDir, "schema.json")
	jsonPath := filepath.Join(tmpDir, "doc.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(personSchema), 0644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "Ada"}`), 0644))

	assert.NoError(t, ValidateFile(schemaPath, jsonPath))
}

func TestValidateFile_MissingField(t *testing.T) {
	tmpDir := t.TempDir()
	schemaPath := filepath.Join(tmpDir, "schema.json")
	jsonPath := filepath.Join(tmpDir, "doc.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(personSchema), 0644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"age": 3}`), 0644))

	err := ValidateFile(schemaPath, jsonPath)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidateFile_NonExistentSchema(t *testing.T) {
	err := ValidateFile("testdata/nonexistent_schema.json", "testdata/nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateFile_NonExistentJSON(t *testing.T) {
	tmpDir := t.TempDir()
	schemaPath := filepath.Join(tmpDir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(personSchema), 0644))

	err := ValidateFile(schemaPath, filepath.Join(tmpDir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateFile_MalformedDocument(t *testing.T) {
	tmpDir := t.TempDir()
	schemaPath := filepath.Join(tmpDir, "schema.json")
	jsonPath := filepath.Join(tmpDir, "doc.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(personSchema), 0644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name":`), 0644))

	err := ValidateFile(schemaPath, jsonPath)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Errors[0].Message, "malformed JSON")
}

func TestValidateFile_InvalidSchema(t *testing.T) {
	tmpDir := t.TempDir()
	schemaPath := filepath.Join(tmpDir, "schema.json")
	jsonPath := filepath.Join(tmpDir, "doc.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": 42}`), 0644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{}`), 0644))

	err := ValidateFile(schemaPath, jsonPath)
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, schemaPath, loadErr.Path)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{}
	err.Add("personal.first_name", "is required")
	err.Add("personal.email", "email or phone is required")

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "personal.first_name")
	assert.Contains(t, msg, "email or phone")
}

func TestValidationError_OrNil(t *testing.T) {
	var nilErr *ValidationError
	assert.NoError(t, nilErr.OrNil())
	assert.NoError(t, (&ValidationError{}).OrNil())

	ve := &ValidationError{}
	ve.Add("x", "bad")
	assert.Error(t, ve.OrNil())
}

func TestValidateDocumentJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "mandatory identity with email",
			payload: `{"personal": {"first_name": "Awa", "last_name": "Diop", "email": "awa@example.com"}}`,
		},
		{
			name:    "mandatory identity with phone only",
			payload: `{"personal": {"first_name": "Awa", "last_name": "Diop", "phone": "+221 77 000 00 00"}}`,
		},
		{
			name:    "no contact method",
			payload: `{"personal": {"first_name": "Awa", "last_name": "Diop"}}`,
			wantErr: true,
		},
		{
			name:    "missing last name",
			payload: `{"personal": {"first_name": "Awa", "email": "awa@example.com"}}`,
			wantErr: true,
		},
		{
			name:    "blank names",
			payload: `{"personal": {"first_name": "   ", "last_name": "\t", "email": "awa@example.com"}}`,
			wantErr: true,
		},
		{
			name:    "blank phone is no contact",
			payload: `{"personal": {"first_name": "Awa", "last_name": "Diop", "phone": "  "}}`,
			wantErr: true,
		},
		{
			name:    "missing personal block",
			payload: `{"summary": "hello"}`,
			wantErr: true,
		},
		{
			name:    "wrong list type",
			payload: `{"personal": {"first_name": "A", "last_name": "B", "email": "a@b.c"}, "skills": "go"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			payload: `{"personal": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentJSON([]byte(tt.payload))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestValidateLetterJSON(t *testing.T) {
	valid := `{"sender": {"name": "Awa Diop"}, "paragraphs": ["Hello", "World"], "signature": {"kind": "typed", "name": "Awa"}}`
	assert.NoError(t, ValidateLetterJSON([]byte(valid)))

	err := ValidateLetterJSON([]byte(`{"sender": {"name": ""}, "paragraphs": []}`))
	require.Error(t, err)

	err = ValidateLetterJSON([]byte(`{"sender": {"name": "  "}, "paragraphs": ["Hello"]}`))
	require.Error(t, err)

	err = ValidateLetterJSON([]byte(`{"sender": {"name": "A"}, "paragraphs": [], "signature": {"kind": "stamp"}}`))
	require.Error(t, err)
}
