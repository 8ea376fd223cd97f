// Package types provides the document model for CVs and cover letters.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// DocumentKind distinguishes CV documents from cover letters.
type DocumentKind string

const (
	KindCV     DocumentKind = "cv"
	KindLetter DocumentKind = "letter"
)

// Supported document languages. The empty string means LangEnglish.
const (
	LangEnglish = "en"
	LangFrench  = "fr"
)

// Document is the normalized CV model shared by every template.
type Document struct {
	ID         string       `json:"id,omitempty"`
	TemplateID string       `json:"template_id,omitempty"`
	Language   string       `json:"language,omitempty" validate:"omitempty,oneof=en fr"`
	Personal   PersonalInfo `json:"personal"`
	Summary    string       `json:"summary,omitempty"`
	Experience []Experience `json:"experience" validate:"dive"`
	Education  []Education  `json:"education" validate:"dive"`
	Skills     []Skill      `json:"skills" validate:"dive"`
	Languages  []Language   `json:"languages" validate:"dive"`
	References []Reference  `json:"references" validate:"dive"`
	Interests  []string     `json:"interests"`
}

// PersonalInfo holds identity and contact fields. Photo is a data URI.
type PersonalInfo struct {
	FirstName string `json:"first_name" validate:"notblank,max=100"`
	LastName  string `json:"last_name" validate:"notblank,max=100"`
	Headline  string `json:"headline,omitempty"`
	Email     string `json:"email,omitempty" validate:"required_without=Phone,omitempty,email"`
	Phone     string `json:"phone,omitempty" validate:"required_without=Email,omitempty,notblank"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	Website   string `json:"website,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

// Experience is one job in the work history.
type Experience struct {
	ID           string   `json:"id"`
	Position     string   `json:"position" validate:"required"`
	Company      string   `json:"company"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Current      bool     `json:"current,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements"`
}

// Education is one degree or training.
type Education struct {
	ID          string `json:"id"`
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Skill is a named competence with an optional level.
type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Level string `json:"level,omitempty"`
}

// Language is a spoken language with an optional proficiency level.
type Language struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Level string `json:"level,omitempty"`
}

// Reference is a professional contact.
type Reference struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Position string `json:"position,omitempty"`
	Company  string `json:"company,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
}

// Kind reports KindCV.
func (d *Document) Kind() DocumentKind { return KindCV }

// Lang returns the document language, defaulting to English.
func (d *Document) Lang() string {
	if d.Language == "" {
		return LangEnglish
	}
	return d.Language
}

// FullName joins first and last name.
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Normalize replaces every nil list with an empty one so renderers never
// have to tell "missing" from "empty".
func (d *Document) Normalize() {
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	for i := range d.Experience {
		if d.Experience[i].Achievements == nil {
			d.Experience[i].Achievements = []string{}
		}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	if d.Languages == nil {
		d.Languages = []Language{}
	}
	if d.References == nil {
		d.References = []Reference{}
	}
	if d.Interests == nil {
		d.Interests = []string{}
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := d
	out.Experience = make([]Experience, len(d.Experience))
	for i, e := range d.Experience {
		e.Achievements = append([]string{}, e.Achievements...)
		out.Experience[i] = e
	}
	out.Education = append([]Education{}, d.Education...)
	out.Skills = append([]Skill{}, d.Skills...)
	out.Languages = append([]Language{}, d.Languages...)
	out.References = append([]Reference{}, d.References...)
	out.Interests = append([]string{}, d.Interests...)
	return out
}
