package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/templates"
	"github.com/jonathan/cv-builder/internal/types"
)

// maxBodyBytes bounds request bodies; photos and signatures arrive inline.
const maxBodyBytes = 10 << 20

// RenderRequest represents the request body for /render and /render/letter.
// Document carries a CV for /render and a cover letter for /render/letter.
type RenderRequest struct {
	TemplateID string          `json:"template_id,omitempty"`
	Backend    string          `json:"backend,omitempty"`
	Document   json.RawMessage `json:"document"`
}

// LayoutRequest represents the request body for /layout. Exactly one of
// Document and Letter is set.
type LayoutRequest struct {
	TemplateID string          `json:"template_id,omitempty"`
	Document   json.RawMessage `json:"document,omitempty"`
	Letter     json.RawMessage `json:"letter,omitempty"`
}

// LayoutResponse represents the response for /layout
type LayoutResponse struct {
	Pages   int              `json:"pages"`
	Summary string           `json:"summary"`
	Layout  *layout.Document `json:"layout"`
}

// TemplateInfo describes one registered template.
type TemplateInfo struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description,omitempty"`
	Kind        types.DocumentKind      `json:"kind"`
	Sections    []templates.SectionKind `json:"sections"`
}

// handleListTemplates lists the registered templates
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	kind := types.DocumentKind(r.URL.Query().Get("kind"))

	defs := s.renderer.Registry.List()
	out := make([]TemplateInfo, 0, len(defs))
	for _, d := range defs {
		if kind != "" && d.Kind != kind {
			continue
		}
		out = append(out, TemplateInfo{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Kind:        d.Kind,
			Sections:    d.Sections,
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": out,
		"count":     len(out),
	})
}

// handleRender renders a CV to PDF
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.renderFailure(w, "render", err)
		return
	}
	doc, err := decodeDocument(req.Document)
	if err != nil {
		s.renderFailure(w, "render", err)
		return
	}

	res, err := s.renderer.Run(r.Context(), pipeline.Job{
		Document:   &doc,
		TemplateID: req.TemplateID,
		Backend:    req.Backend,
	})
	if err != nil {
		s.renderFailure(w, "render", err)
		return
	}
	s.pdfResponse(w, res.PDF, res.Pages, res.Backend, "cv.pdf")
}

// handleRenderLetter renders a cover letter to PDF
func (s *Server) handleRenderLetter(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.renderFailure(w, "render letter", err)
		return
	}
	letter, err := decodeLetter(req.Document)
	if err != nil {
		s.renderFailure(w, "render letter", err)
		return
	}

	res, err := s.renderer.Run(r.Context(), pipeline.Job{
		Letter:     &letter,
		TemplateID: req.TemplateID,
		Backend:    req.Backend,
	})
	if err != nil {
		s.renderFailure(w, "render letter", err)
		return
	}
	s.pdfResponse(w, res.PDF, res.Pages, res.Backend, "cover-letter.pdf")
}

// handleLayout returns the page geometry without producing a PDF
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.renderFailure(w, "layout", err)
		return
	}

	var (
		doc *layout.Document
		err error
	)
	switch {
	case len(req.Document) > 0 && len(req.Letter) > 0:
		err = &ErrValidation{Field: "document", Message: "send either a document or a letter"}
	case len(req.Letter) > 0:
		var letter types.Letter
		if letter, err = decodeLetter(req.Letter); err == nil {
			doc, err = s.renderer.LayoutLetter(r.Context(), letter, req.TemplateID)
		}
	default:
		var cv types.Document
		if cv, err = decodeDocument(req.Document); err == nil {
			doc, err = s.renderer.Layout(r.Context(), cv, req.TemplateID)
		}
	}
	if err != nil {
		s.renderFailure(w, "layout", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, LayoutResponse{
		Pages:   doc.PageCount(),
		Summary: doc.Summary(),
		Layout:  doc,
	})
}

// handleRenderStream renders a CV and reports progress as server-sent events
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.renderFailure(w, "render stream", err)
		return
	}
	doc, err := decodeDocument(req.Document)
	if err != nil {
		s.renderFailure(w, "render stream", err)
		return
	}

	stream, err := newEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := stream.send(eventStarted, map[string]string{"template_id": req.TemplateID}); err != nil {
		log.Printf("[server] render stream: client gone: %v", err)
		return
	}

	res, err := s.renderer.Run(r.Context(), pipeline.Job{
		Document:   &doc,
		TemplateID: req.TemplateID,
		Backend:    req.Backend,
		OnLayout: func(geometry *layout.Document) {
			if err := stream.send(eventLayout, map[string]any{
				"pages":   geometry.PageCount(),
				"summary": geometry.Summary(),
			}); err != nil {
				log.Printf("[server] render stream: client gone: %v", err)
			}
		},
	})
	if err != nil {
		stream.fail(pipeline.PublicMessage(err))
		return
	}
	if err := stream.send(eventComplete, map[string]any{
		"pages":       res.Pages,
		"backend":     res.Backend,
		"duration_ms": res.Duration.Milliseconds(),
		"pdf":         res.PDF,
	}); err != nil {
		log.Printf("[server] render stream: client gone before completion: %v", err)
	}
}

// pdfResponse writes a rendered PDF with its page count and backend as headers.
func (s *Server) pdfResponse(w http.ResponseWriter, pdf []byte, pages int, backend, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("X-Page-Count", strconv.Itoa(pages))
	w.Header().Set("X-Render-Backend", backend)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("Error writing PDF response: %v", err)
	}
}

// decodeBody decodes a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// decodeDocument checks a raw CV against the JSON Schema and decodes it.
func decodeDocument(raw json.RawMessage) (types.Document, error) {
	var doc types.Document
	if len(raw) == 0 {
		return doc, &ErrValidation{Field: "document", Message: "is required"}
	}
	if err := schemas.ValidateDocumentJSON(raw); err != nil {
		return doc, err
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, &ErrValidation{Field: "document", Message: err.Error()}
	}
	return doc, nil
}

// decodeLetter checks a raw cover letter against the JSON Schema and decodes it.
func decodeLetter(raw json.RawMessage) (types.Letter, error) {
	var letter types.Letter
	if len(raw) == 0 {
		return letter, &ErrValidation{Field: "document", Message: "is required"}
	}
	if err := schemas.ValidateLetterJSON(raw); err != nil {
		return letter, err
	}
	if err := json.Unmarshal(raw, &letter); err != nil {
		return letter, &ErrValidation{Field: "document", Message: err.Error()}
	}
	return letter, nil
}
