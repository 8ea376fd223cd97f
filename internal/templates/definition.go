// Package templates holds the template definitions: data values describing
// how a CV or a cover letter turns into layout sections.
package templates

import (
	"slices"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/types"
)

// SectionKind names a section a template can include.
type SectionKind string

// CV sections.
const (
	SectionIdentity   SectionKind = "identity"
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
	SectionLanguages  SectionKind = "languages"
	SectionReferences SectionKind = "references"
	SectionInterests  SectionKind = "interests"
)

// Letter sections.
const (
	SectionSender     SectionKind = "sender"
	SectionRecipient  SectionKind = "recipient"
	SectionDate       SectionKind = "date"
	SectionSubject    SectionKind = "subject"
	SectionSalutation SectionKind = "salutation"
	SectionBody       SectionKind = "body"
	SectionClosing    SectionKind = "closing"
	SectionSignature  SectionKind = "signature"
)

var sectionKinds = map[types.DocumentKind][]SectionKind{
	types.KindCV: {
		SectionIdentity, SectionSummary, SectionExperience, SectionEducation,
		SectionSkills, SectionLanguages, SectionReferences, SectionInterests,
	},
	types.KindLetter: {
		SectionSender, SectionRecipient, SectionDate, SectionSubject,
		SectionSalutation, SectionBody, SectionClosing, SectionSignature,
	},
}

// Theme extends the layout theme with the styles only the section builder uses.
type Theme struct {
	layout.Theme

	NameStyle     layout.Style `json:"name_style"`
	HeadlineStyle layout.Style `json:"headline_style"`
	ContactStyle  layout.Style `json:"contact_style"`
	HeaderAlign   layout.Align `json:"header_align,omitempty"`
	PhotoWidth    float64      `json:"photo_width,omitempty"`
	Separator     string       `json:"separator"`

	// InlineLists renders skills and languages as one paragraph instead of bullets.
	InlineLists bool `json:"inline_lists,omitempty"`

	// Letter layout.
	SenderAlign    layout.Align `json:"sender_align,omitempty"`
	RecipientAlign layout.Align `json:"recipient_align,omitempty"`
	DateAlign      layout.Align `json:"date_align,omitempty"`
	SignatureWidth float64      `json:"signature_width,omitempty"`
}

// Definition is a declarative template. Adding a template means adding a
// Definition value; no template has its own rendering code.
type Definition struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Kind        types.DocumentKind `json:"kind"`
	Page        layout.PageSpec    `json:"page"`
	Theme       Theme              `json:"theme"`
	Sections    []SectionKind      `json:"sections"`
}

// Validate checks the definition can be laid out.
func (d Definition) Validate() error {
	if d.ID == "" {
		return &DefinitionError{Message: "id is required"}
	}
	allowed, ok := sectionKinds[d.Kind]
	if !ok {
		return &DefinitionError{ID: d.ID, Message: "kind must be cv or letter"}
	}
	if err := d.Page.Validate(); err != nil {
		return &DefinitionError{ID: d.ID, Message: "invalid page", Cause: err}
	}
	if len(d.Sections) == 0 {
		return &DefinitionError{ID: d.ID, Message: "at least one section is required"}
	}

	seen := make(map[SectionKind]bool, len(d.Sections))
	for _, s := range d.Sections {
		if !slices.Contains(allowed, s) {
			return &DefinitionError{ID: d.ID, Message: "section " + string(s) + " is not valid for a " + string(d.Kind)}
		}
		if seen[s] {
			return &DefinitionError{ID: d.ID, Message: "section " + string(s) + " listed twice"}
		}
		seen[s] = true
	}
	if d.Kind == types.KindCV && !seen[SectionIdentity] {
		return &DefinitionError{ID: d.ID, Message: "a cv template must include the identity section"}
	}
	return nil
}

// Engine returns a layout engine configured with the definition's page and theme.
func (d Definition) Engine(m layout.Measurer) *layout.Engine {
	return layout.NewEngine(m, layout.WithPage(d.Page), layout.WithTheme(d.Theme.Theme))
}
