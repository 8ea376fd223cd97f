// Package rendering turns laid-out pages into PDF bytes, either by drawing
// PDF primitives or by rasterizing the pages and embedding the images.
package rendering

import (
	"errors"
	"fmt"

	"github.com/jonathan/cv-builder/internal/fontmetrics"
	"github.com/jonathan/cv-builder/internal/layout"
)

// ErrUnsupportedGlyph reports a character no available font can draw.
var ErrUnsupportedGlyph = errors.New("unsupported glyph")

// checkGlyphs fails when the embedded font for style lacks a character of text.
func checkGlyphs(text string, style layout.Style) error {
	r, missing, err := fontmetrics.MissingGlyph(text, style)
	if err != nil {
		return err
	}
	if missing {
		return fmt.Errorf("%w %q (U+%04X)", ErrUnsupportedGlyph, r, r)
	}
	return nil
}

// PreviewError represents an error building the preview HTML of a layout.
type PreviewError struct {
	Message string
	Cause   error
}

func (e *PreviewError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("preview error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("preview error: %s", e.Message)
}

func (e *PreviewError) Unwrap() error {
	return e.Cause
}

// BackendError reports a failure while a backend assembled images or the PDF.
// No output accompanies a BackendError.
type BackendError struct {
	Backend string
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s backend: %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s backend: %s", e.Backend, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}
