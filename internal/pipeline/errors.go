package pipeline

import (
	"errors"
	"fmt"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/templates"
)

// PublicErrorMessage is the only failure text shown to end users.
const PublicErrorMessage = "could not generate your document, please try again"

// Error kinds reported by Kind.
const (
	KindValidation      = "validation"
	KindUnknownTemplate = "unknown_template"
	KindLayout          = "layout"
	KindBackend         = "backend"
	KindTimeout         = "timeout"
	KindInternal        = "internal"
)

// TimeoutError reports a render abandoned because its deadline passed or its
// caller went away.
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("render timed out: %v", e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// Kind classifies a pipeline error for logs and status codes.
func Kind(err error) string {
	var (
		ve *schemas.ValidationError
		ue *templates.UnknownTemplateError
		le *layout.LayoutError
		be *rendering.BackendError
		te *TimeoutError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &ue):
		return KindUnknownTemplate
	case errors.As(err, &le):
		return KindLayout
	case errors.As(err, &te):
		return KindTimeout
	case errors.As(err, &be):
		return KindBackend
	default:
		return KindInternal
	}
}

// PublicMessage collapses every failure to one user-facing message. The
// error kind and block index stay in the logs.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	return PublicErrorMessage
}
