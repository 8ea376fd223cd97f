package types

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ListChange edits an ordered list of identified entries. Upserts replace an entry
// with the same ID in place or append a new one; entries without an ID get a fresh UUID.
// Remove drops entries by ID. Order, when set, must list every remaining ID exactly once.
type ListChange[T any] struct {
	Upsert []T      `json:"upsert,omitempty"`
	Remove []string `json:"remove,omitempty"`
	Order  []string `json:"order,omitempty"`
}

// Change is one wizard step's partial update to a CV document.
type Change struct {
	TemplateID *string                 `json:"template_id,omitempty"`
	Language   *string                 `json:"language,omitempty"`
	Personal   *PersonalInfo           `json:"personal,omitempty"`
	Summary    *string                 `json:"summary,omitempty"`
	Experience *ListChange[Experience] `json:"experience,omitempty"`
	Education  *ListChange[Education]  `json:"education,omitempty"`
	Skills     *ListChange[Skill]      `json:"skills,omitempty"`
	Languages  *ListChange[Language]   `json:"languages,omitempty"`
	References *ListChange[Reference]  `json:"references,omitempty"`
	Interests  *[]string               `json:"interests,omitempty"`
}

// ErrInvalidChange matches every change Commit rejects.
var ErrInvalidChange = errors.New("invalid change")

// UnknownEntryError reports a remove or reorder that names an ID not in the list.
type UnknownEntryError struct {
	List string
	ID   string
}

func (e *UnknownEntryError) Error() string {
	return fmt.Sprintf("unknown %s entry: %s", e.List, e.ID)
}

func (e *UnknownEntryError) Is(target error) bool {
	return target == ErrInvalidChange
}

// Commit applies change to doc and returns the new document. doc is never modified,
// so every wizard step works on an immutable snapshot.
func Commit(doc Document, change Change) (Document, error) {
	out := doc.Clone()

	if change.TemplateID != nil {
		out.TemplateID = *change.TemplateID
	}
	if change.Language != nil {
		out.Language = *change.Language
	}
	if change.Personal != nil {
		out.Personal = *change.Personal
	}
	if change.Summary != nil {
		out.Summary = *change.Summary
	}
	if change.Interests != nil {
		out.Interests = append([]string{}, (*change.Interests)...)
	}

	var err error
	if out.Experience, err = applyList("experience", out.Experience, change.Experience, func(e *Experience) *string { return &e.ID }); err != nil {
		return doc, err
	}
	if out.Education, err = applyList("education", out.Education, change.Education, func(e *Education) *string { return &e.ID }); err != nil {
		return doc, err
	}
	if out.Skills, err = applyList("skills", out.Skills, change.Skills, func(e *Skill) *string { return &e.ID }); err != nil {
		return doc, err
	}
	if out.Languages, err = applyList("languages", out.Languages, change.Languages, func(e *Language) *string { return &e.ID }); err != nil {
		return doc, err
	}
	if out.References, err = applyList("references", out.References, change.References, func(e *Reference) *string { return &e.ID }); err != nil {
		return doc, err
	}

	// Upserted experiences may carry nil achievements.
	out.Normalize()
	return out, nil
}

func applyList[T any](name string, list []T, change *ListChange[T], id func(*T) *string) ([]T, error) {
	if change == nil {
		return list, nil
	}
	out := append([]T{}, list...)

	for _, item := range change.Upsert {
		key := id(&item)
		if *key == "" {
			*key = uuid.NewString()
		}
		replaced := false
		for i := range out {
			if *id(&out[i]) == *key {
				out[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, item)
		}
	}

	for _, rm := range change.Remove {
		idx := indexOf(out, rm, id)
		if idx < 0 {
			return nil, &UnknownEntryError{List: name, ID: rm}
		}
		out = append(out[:idx], out[idx+1:]...)
	}

	if len(change.Order) > 0 {
		if len(change.Order) != len(out) {
			return nil, fmt.Errorf("%w: %s order lists %d ids, have %d entries", ErrInvalidChange, name, len(change.Order), len(out))
		}
		ordered := make([]T, 0, len(out))
		used := make(map[string]bool, len(out))
		for _, key := range change.Order {
			idx := indexOf(out, key, id)
			if idx < 0 || used[key] {
				return nil, &UnknownEntryError{List: name, ID: key}
			}
			used[key] = true
			ordered = append(ordered, out[idx])
		}
		out = ordered
	}
	return out, nil
}

func indexOf[T any](list []T, key string, id func(*T) *string) int {
	for i := range list {
		if *id(&list[i]) == key {
			return i
		}
	}
	return -1
}

// LetterChange is a partial update to a cover letter.
type LetterChange struct {
	TemplateID *string    `json:"template_id,omitempty"`
	Language   *string    `json:"language,omitempty"`
	Sender     *Party     `json:"sender,omitempty"`
	Recipient  *Party     `json:"recipient,omitempty"`
	Date       *string    `json:"date,omitempty"`
	Subject    *string    `json:"subject,omitempty"`
	Salutation *string    `json:"salutation,omitempty"`
	Paragraphs *[]string  `json:"paragraphs,omitempty"`
	Closing    *string    `json:"closing,omitempty"`
	Signature  *Signature `json:"signature,omitempty"`
}

// CommitLetter applies change to letter and returns the new letter.
func CommitLetter(letter Letter, change LetterChange) Letter {
	out := letter.Clone()
	if change.TemplateID != nil {
		out.TemplateID = *change.TemplateID
	}
	if change.Language != nil {
		out.Language = *change.Language
	}
	if change.Sender != nil {
		out.Sender = *change.Sender
	}
	if change.Recipient != nil {
		out.Recipient = *change.Recipient
	}
	if change.Date != nil {
		out.Date = *change.Date
	}
	if change.Subject != nil {
		out.Subject = *change.Subject
	}
	if change.Salutation != nil {
		out.Salutation = *change.Salutation
	}
	if change.Paragraphs != nil {
		out.Paragraphs = append([]string{}, (*change.Paragraphs)...)
	}
	if change.Closing != nil {
		out.Closing = *change.Closing
	}
	if change.Signature != nil {
		out.Signature = *change.Signature
	}
	out.Normalize()
	return out
}
