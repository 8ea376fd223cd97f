package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/types"
)

// CreateDocumentRequest represents the request body for POST /documents
type CreateDocumentRequest struct {
	Kind       types.DocumentKind `json:"kind,omitempty"`
	TemplateID string             `json:"template_id,omitempty"`
	Backend    string             `json:"backend,omitempty"`
	Document   json.RawMessage    `json:"document"`
}

// CreateDocumentResponse represents the response for POST /documents
type CreateDocumentResponse struct {
	DocumentID uuid.UUID `json:"document_id"`
	RenderID   uuid.UUID `json:"render_id"`
	TemplateID string    `json:"template_id"`
	Pages      int       `json:"pages"`
	Status     string    `json:"status"`
}

// ConfirmRequest represents the request body for POST /renders/{id}/confirm
type ConfirmRequest struct {
	PaymentRef string `json:"payment_ref"`
}

// ConfirmResponse carries the download token for a released render.
type ConfirmResponse struct {
	RenderID  uuid.UUID `json:"render_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleCreateDocument renders a document and stores it with a locked render
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	if s.documents == nil {
		s.failure(w, "create document", &ErrUnavailable{Feature: "documents"})
		return
	}

	var req CreateDocumentRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.renderFailure(w, "create document", err)
		return
	}

	job := pipeline.Job{TemplateID: req.TemplateID, Backend: req.Backend}
	var payload any
	switch req.Kind {
	case types.KindCV, "":
		req.Kind = types.KindCV
		doc, err := decodeDocument(req.Document)
		if err != nil {
			s.renderFailure(w, "create document", err)
			return
		}
		job.Document, payload = &doc, doc
		if job.TemplateID == "" {
			job.TemplateID = doc.TemplateID
		}
	case types.KindLetter:
		letter, err := decodeLetter(req.Document)
		if err != nil {
			s.renderFailure(w, "create document", err)
			return
		}
		job.Letter, payload = &letter, letter
		if job.TemplateID == "" {
			job.TemplateID = letter.TemplateID
		}
	default:
		s.renderFailure(w, "create document", &ErrValidation{Field: "kind", Message: "must be cv or letter"})
		return
	}

	res, err := s.renderer.Run(r.Context(), job)
	if err != nil {
		s.renderFailure(w, "create document", err)
		return
	}

	docID, renderID, err := s.documents.SaveDocumentWithRender(r.Context(), string(req.Kind), payload, &db.Render{
		TemplateID: job.TemplateID,
		Backend:    res.Backend,
		Pages:      res.Pages,
		PDF:        res.PDF,
	})
	if err != nil {
		s.failure(w, "create document", err)
		return
	}

	log.Printf("[server] stored document %s with locked render %s (%d pages)", docID, renderID, res.Pages)
	s.jsonResponse(w, http.StatusCreated, CreateDocumentResponse{
		DocumentID: docID,
		RenderID:   renderID,
		TemplateID: job.TemplateID,
		Pages:      res.Pages,
		Status:     db.RenderLocked,
	})
}

// handleListRenders lists the renders of a stored document
func (s *Server) handleListRenders(w http.ResponseWriter, r *http.Request) {
	if s.documents == nil {
		s.failure(w, "list renders", &ErrUnavailable{Feature: "documents"})
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, "list renders", err)
		return
	}

	doc, err := s.documents.GetDocument(r.Context(), id)
	if err != nil {
		s.failure(w, "list renders", err)
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "document not found")
		return
	}

	renders, err := s.documents.ListRenders(r.Context(), id)
	if err != nil {
		s.failure(w, "list renders", err)
		return
	}
	if renders == nil {
		renders = []db.Render{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"document": doc,
		"renders":  renders,
		"count":    len(renders),
	})
}

// handleConfirmRender records a payment confirmation and returns a download token
func (s *Server) handleConfirmRender(w http.ResponseWriter, r *http.Request) {
	if s.gate == nil {
		s.failure(w, "confirm render", &ErrUnavailable{Feature: "downloads"})
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, "confirm render", err)
		return
	}

	var req ConfirmRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.failure(w, "confirm render", err)
		return
	}

	token, expires, err := s.gate.Confirm(r.Context(), id, req.PaymentRef)
	if err != nil {
		s.failure(w, "confirm render", err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ConfirmResponse{RenderID: id, Token: token, ExpiresAt: expires})
}

// handleDownloadRender serves a released PDF to a token holder
func (s *Server) handleDownloadRender(w http.ResponseWriter, r *http.Request) {
	if s.gate == nil {
		s.failure(w, "download render", &ErrUnavailable{Feature: "downloads"})
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		s.failure(w, "download render", err)
		return
	}

	render, err := s.gate.Download(r.Context(), id, r.URL.Query().Get("token"))
	if err != nil {
		s.failure(w, "download render", err)
		return
	}
	s.pdfResponse(w, render.PDF, render.Pages, render.Backend, fmt.Sprintf("%s.pdf", render.ID))
}

// pathUUID parses a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a UUID"}
	}
	return id, nil
}
