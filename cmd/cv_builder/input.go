package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
)

// kindCV and kindLetter are the values accepted by --kind; an empty kind is
// detected from the file.
const (
	kindCV     = string(types.KindCV)
	kindLetter = string(types.KindLetter)
)

// readJob loads a CV or cover letter from path into a render job. The JSON is
// checked against the embedded schema before it is decoded.
func readJob(path, kind string) (pipeline.Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Job{}, fmt.Errorf("failed to read input file: %w", err)
	}

	if kind == "" {
		kind = detectKind(raw)
	}
	job := pipeline.Job{ID: filepath.Base(path)}

	switch kind {
	case kindCV:
		if err := schemas.ValidateDocumentJSON(raw); err != nil {
			return job, err
		}
		var doc types.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return job, fmt.Errorf("failed to unmarshal document JSON: %w", err)
		}
		job.Document = &doc
	case kindLetter:
		if err := schemas.ValidateLetterJSON(raw); err != nil {
			return job, err
		}
		var letter types.Letter
		if err := json.Unmarshal(raw, &letter); err != nil {
			return job, fmt.Errorf("failed to unmarshal letter JSON: %w", err)
		}
		job.Letter = &letter
	default:
		return job, fmt.Errorf("unknown document kind %q (want cv or letter)", kind)
	}
	return job, nil
}

// detectKind treats any object with a top-level "sender" as a cover letter.
func detectKind(raw []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		if _, ok := fields["sender"]; ok {
			return kindLetter
		}
	}
	return kindCV
}

// pdfPath returns the default output path for input: same directory and
// base name, .pdf extension.
func pdfPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf"
}
