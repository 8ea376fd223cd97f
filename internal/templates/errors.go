package templates

import (
	"fmt"

	"github.com/jonathan/cv-builder/internal/types"
)

// UnknownTemplateError reports a template identifier that is not registered,
// or that names a template for another document kind.
type UnknownTemplateError struct {
	ID   string
	Kind types.DocumentKind
}

func (e *UnknownTemplateError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("unknown %s template: %q", e.Kind, e.ID)
	}
	return fmt.Sprintf("unknown template: %q", e.ID)
}

// DefinitionError reports a template definition that cannot be registered.
type DefinitionError struct {
	ID      string
	Message string
	Cause   error
}

func (e *DefinitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template %q: %s: %v", e.ID, e.Message, e.Cause)
	}
	return fmt.Sprintf("template %q: %s", e.ID, e.Message)
}

func (e *DefinitionError) Unwrap() error {
	return e.Cause
}
