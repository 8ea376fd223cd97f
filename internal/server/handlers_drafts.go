package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/cv-builder/internal/drafts"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
)

// CreateDraftRequest represents the request body for POST /drafts. Kind
// defaults to "cv"; the matching payload may be omitted to start empty.
type CreateDraftRequest struct {
	Kind     types.DocumentKind `json:"kind,omitempty"`
	Document *types.Document    `json:"document,omitempty"`
	Letter   *types.Letter      `json:"letter,omitempty"`
}

// UpdateDraftRequest represents the request body for PATCH /drafts/{id}.
// Exactly one of Change and LetterChange is set.
type UpdateDraftRequest struct {
	Change       *types.Change       `json:"change,omitempty"`
	LetterChange *types.LetterChange `json:"letter_change,omitempty"`
}

// handleCreateDraft starts a wizard session
func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		s.failure(w, "create draft", &ErrUnavailable{Feature: "drafts"})
		return
	}

	var req CreateDraftRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.failure(w, "create draft", err)
		return
	}

	var (
		d   *drafts.Draft
		err error
	)
	switch req.Kind {
	case types.KindCV, "":
		if req.Letter != nil {
			s.failure(w, "create draft", &ErrValidation{Field: "letter", Message: "not allowed for a cv draft"})
			return
		}
		var doc types.Document
		if req.Document != nil {
			doc = *req.Document
		}
		d, err = s.drafts.Create(r.Context(), doc)
	case types.KindLetter:
		if req.Document != nil {
			s.failure(w, "create draft", &ErrValidation{Field: "document", Message: "not allowed for a letter draft"})
			return
		}
		var letter types.Letter
		if req.Letter != nil {
			letter = *req.Letter
		}
		d, err = s.drafts.CreateLetter(r.Context(), letter)
	default:
		err = &ErrValidation{Field: "kind", Message: "must be cv or letter"}
	}
	if err != nil {
		s.failure(w, "create draft", err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, d)
}

// handleGetDraft returns a wizard session
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		s.failure(w, "get draft", &ErrUnavailable{Feature: "drafts"})
		return
	}
	d, err := s.drafts.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		s.failure(w, "get draft", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, d)
}

// handleUpdateDraft commits one wizard step
func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		s.failure(w, "update draft", &ErrUnavailable{Feature: "drafts"})
		return
	}

	var req UpdateDraftRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.failure(w, "update draft", err)
		return
	}

	id := r.PathValue("id")
	var (
		d   *drafts.Draft
		err error
	)
	switch {
	case req.Change != nil && req.LetterChange != nil:
		err = &ErrValidation{Field: "change", Message: "send either change or letter_change"}
	case req.Change != nil:
		d, err = s.drafts.Apply(r.Context(), id, *req.Change)
	case req.LetterChange != nil:
		d, err = s.drafts.ApplyLetter(r.Context(), id, *req.LetterChange)
	default:
		err = &ErrValidation{Field: "change", Message: "is required"}
	}
	if err != nil {
		s.failure(w, "update draft", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"draft":  d,
		"issues": draftIssues(d),
	})
}

// handleDeleteDraft abandons a wizard session
func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		s.failure(w, "delete draft", &ErrUnavailable{Feature: "drafts"})
		return
	}
	if err := s.drafts.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.failure(w, "delete draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// draftIssues lists what still blocks rendering, so the wizard can prompt for it.
func draftIssues(d *drafts.Draft) []schemas.FieldError {
	var err error
	switch {
	case d.Document != nil:
		err = d.Document.Validate()
	case d.Letter != nil:
		err = d.Letter.Validate()
	}

	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		return ve.Errors
	}
	return []schemas.FieldError{}
}
