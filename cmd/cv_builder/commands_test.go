package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesCommand(t *testing.T) {
	output, err := execute(t, "templates")
	require.NoError(t, err)
	assert.Contains(t, output, "TEMPLATES")
	assert.Contains(t, output, "executive")
	assert.Contains(t, output, "letter-modern")

	output, err = execute(t, "templates", "--kind", "letter", "--json")
	require.NoError(t, err)
	var defs []struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &defs))
	require.Len(t, defs, 2)
	for _, d := range defs {
		assert.Equal(t, "letter", d.Kind)
	}

	_, err = execute(t, "templates", "--kind", "memo")
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantOut string
		wantErr string
	}{
		{name: "valid cv", content: adaJSON, wantOut: "DOCUMENT IS VALID"},
		{name: "valid letter", content: letterJSON, wantOut: "DOCUMENT IS VALID"},
		{
			name:    "no contact",
			content: `{"personal":{"first_name":"Ada","last_name":"Lovelace"}}`,
			wantOut: "VALIDATION FAILED",
			wantErr: "validation failed",
		},
		{
			name:    "letter without sender name",
			content: `{"sender":{"name":""},"paragraphs":[]}`,
			wantOut: "VALIDATION FAILED",
			wantErr: "validation failed",
		},
		{name: "not JSON", content: `{`, wantOut: "VALIDATION FAILED", wantErr: "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := writeFile(t, dir, "doc.json", tt.content)

			output, err := execute(t, "validate", "--in", in)

			assert.Contains(t, output, tt.wantOut)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCommand_ExtraSchema(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "ada.json", adaJSON)
	schema := writeFile(t, dir, "profile.schema.json", `{
		"type": "object",
		"required": ["summary"]
	}`)

	output, err := execute(t, "validate", "--in", in, "--schema", schema)
	require.Error(t, err)
	assert.Contains(t, output, "summary")

	withSummary := writeFile(t, dir, "ada-summary.json", `{"summary":"Analyst of engines.",`+adaJSON[1:])
	_, err = execute(t, "validate", "--in", withSummary, "--schema", schema)
	assert.NoError(t, err)
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "ada.json", adaJSON)
	out := filepath.Join(dir, "layout.json")

	output, err := execute(t, "layout", "--in", in, "--template", "compact", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, output, "Page 1:")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var geometry struct {
		Pages []json.RawMessage `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(data, &geometry))
	assert.Len(t, geometry.Pages, 1)

	_, err = execute(t, "layout", "--in", in, "--template", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown_template")
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "ada.json", adaJSON)
	pdf := filepath.Join(dir, "ada.pdf")
	_, err := execute(t, "render", "--in", in, "--out", pdf)
	require.NoError(t, err)

	output, err := execute(t, "inspect", "--in", pdf, "--find", "Lovelace")
	require.NoError(t, err)
	assert.Contains(t, output, "Pages:  1")
	assert.Contains(t, output, `"Lovelace" first appears on page 1`)

	output, err = execute(t, "inspect", "--in", pdf, "--json")
	require.NoError(t, err)
	var info struct {
		Pages int `json:"pages"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &info))
	assert.Equal(t, 1, info.Pages)

	_, err = execute(t, "inspect", "--in", pdf, "--find", "Babbage")
	assert.Error(t, err)

	_, err = execute(t, "inspect", "--in", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a PDF")
}

func TestMigrateCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestServeCommand_InvalidEnvironment(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PORT")
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, kindLetter, detectKind([]byte(letterJSON)))
	assert.Equal(t, kindCV, detectKind([]byte(adaJSON)))
	assert.Equal(t, kindCV, detectKind([]byte(`[`)))
}

func TestPDFPath(t *testing.T) {
	assert.Equal(t, "out/ada.pdf", pdfPath("out/ada.json"))
	assert.Equal(t, "ada.pdf", pdfPath("ada"))
}
