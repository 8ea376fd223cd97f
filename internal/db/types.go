package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Render statuses
const (
	RenderLocked   = "locked"
	RenderReleased = "released"
)

// Document is a stored CV or cover letter. Payload is the model as JSON.
type Document struct {
	ID         uuid.UUID       `json:"id"`
	Kind       string          `json:"kind"`
	TemplateID string          `json:"template_id"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Render is one produced PDF. It stays locked until a payment confirmation
// releases it.
type Render struct {
	ID         uuid.UUID  `json:"id"`
	DocumentID uuid.UUID  `json:"document_id"`
	TemplateID string     `json:"template_id"`
	Backend    string     `json:"backend"`
	Pages      int        `json:"pages"`
	PDF        []byte     `json:"-"`
	Status     string     `json:"status"`
	PaymentRef *string    `json:"payment_ref,omitempty"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Released reports whether the PDF may be downloaded.
func (r *Render) Released() bool {
	return r.Status == RenderReleased
}
