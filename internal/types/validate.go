package types

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/jonathan/cv-builder/internal/schemas"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate reports a *schemas.ValidationError when the document is missing mandatory
// identity fields, has duplicate entry IDs or references an unusable photo.
func (d *Document) Validate() error {
	ve := &schemas.ValidationError{}
	collectStructErrors(ve, validate.Struct(d))

	checkUniqueIDs(ve, "experience", len(d.Experience), func(i int) string { return d.Experience[i].ID })
	checkUniqueIDs(ve, "education", len(d.Education), func(i int) string { return d.Education[i].ID })
	checkUniqueIDs(ve, "skills", len(d.Skills), func(i int) string { return d.Skills[i].ID })
	checkUniqueIDs(ve, "languages", len(d.Languages), func(i int) string { return d.Languages[i].ID })
	checkUniqueIDs(ve, "references", len(d.References), func(i int) string { return d.References[i].ID })

	if d.Personal.Photo != "" {
		if _, err := DecodeImage(d.Personal.Photo); err != nil {
			ve.Add("personal.photo", err.Error())
		}
	}
	return ve.OrNil()
}

// Validate reports a *schemas.ValidationError when the letter has no sender or an
// unusable signature.
func (l *Letter) Validate() error {
	ve := &schemas.ValidationError{}
	collectStructErrors(ve, validate.Struct(l))

	if strings.TrimSpace(l.Sender.Name) == "" {
		ve.Add("sender.name", "is required")
	}
	if l.Signature.Kind == SignatureDrawn {
		if l.Signature.Image == "" {
			ve.Add("signature.image", "is required for a drawn signature")
		} else if _, err := DecodeImage(l.Signature.Image); err != nil {
			ve.Add("signature.image", err.Error())
		}
	}
	return ve.OrNil()
}

func collectStructErrors(ve *schemas.ValidationError, err error) {
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		ve.Add("(root)", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		ve.Add(fieldPath(fe.Namespace()), fieldMessage(fe))
	}
}

// fieldPath drops the root type name: "Document.personal.email" -> "personal.email".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "required_without":
		return "email or phone is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func checkUniqueIDs(ve *schemas.ValidationError, list string, n int, id func(int) string) {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		key := id(i)
		if key == "" {
			continue
		}
		if seen[key] {
			ve.Add(fmt.Sprintf("%s[%d].id", list, i), fmt.Sprintf("duplicate id %q", key))
		}
		seen[key] = true
	}
}
