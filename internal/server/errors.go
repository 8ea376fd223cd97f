package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jonathan/cv-builder/internal/drafts"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/release"
	"github.com/jonathan/cv-builder/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates an optional collaborator is not configured.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s are not available on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var ve *ErrValidation
	var ue *ErrUnavailable
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ue):
		return http.StatusServiceUnavailable
	case errors.Is(err, drafts.ErrDraftNotFound), errors.Is(err, release.ErrRenderNotFound):
		return http.StatusNotFound
	case errors.Is(err, drafts.ErrWrongKind), errors.Is(err, release.ErrPaymentMismatch):
		return http.StatusConflict
	case errors.Is(err, types.ErrInvalidChange), errors.Is(err, release.ErrMissingPayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, release.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, release.ErrLocked):
		return http.StatusPaymentRequired
	}

	switch pipeline.Kind(err) {
	case pipeline.KindValidation:
		return http.StatusUnprocessableEntity
	case pipeline.KindUnknownTemplate:
		return http.StatusNotFound
	case pipeline.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// renderFailure writes the public message for a failed render and logs the cause.
func (s *Server) renderFailure(w http.ResponseWriter, route string, err error) {
	log.Printf("[server] %s failed: kind=%s: %v", route, pipeline.Kind(err), err)
	s.errorResponse(w, HTTPStatus(err), pipeline.PublicMessage(err))
}

// failure writes err's own message. It is used for draft and release errors,
// whose messages are safe to show.
func (s *Server) failure(w http.ResponseWriter, route string, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] %s failed: %v", route, err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
