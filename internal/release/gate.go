package release

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/db"
)

// Gate errors
var (
	ErrRenderNotFound  = errors.New("render not found")
	ErrLocked          = errors.New("render is locked until payment is confirmed")
	ErrMissingPayment  = errors.New("payment reference is required")
	ErrPaymentMismatch = errors.New("render was released under another payment reference")
)

// Store is the render storage the gate needs.
type Store interface {
	GetRender(ctx context.Context, id uuid.UUID) (*db.Render, error)
	MarkReleased(ctx context.Context, id uuid.UUID, paymentRef string) error
}

// Gate releases locked renders and guards their download.
type Gate struct {
	store  Store
	tokens *TokenService
}

// NewGate creates a gate on store signing with tokens.
func NewGate(store Store, tokens *TokenService) *Gate {
	return &Gate{store: store, tokens: tokens}
}

// Confirm records a payment confirmation for renderID and returns a download
// token. Confirming again with the same reference issues a fresh token.
func (g *Gate) Confirm(ctx context.Context, renderID uuid.UUID, paymentRef string) (string, time.Time, error) {
	paymentRef = strings.TrimSpace(paymentRef)
	if paymentRef == "" {
		return "", time.Time{}, ErrMissingPayment
	}

	err := g.store.MarkReleased(ctx, renderID, paymentRef)
	if errors.Is(err, db.ErrNotReleasable) {
		r, getErr := g.store.GetRender(ctx, renderID)
		switch {
		case getErr != nil:
			return "", time.Time{}, getErr
		case r == nil:
			return "", time.Time{}, ErrRenderNotFound
		case r.PaymentRef == nil || *r.PaymentRef != paymentRef:
			return "", time.Time{}, ErrPaymentMismatch
		}
		err = nil
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to release render: %w", err)
	}

	log.Printf("[release] render %s released (payment %s)", renderID, paymentRef)
	return g.tokens.Issue(renderID)
}

// Download returns the released render, PDF included, when token unlocks it.
func (g *Gate) Download(ctx context.Context, renderID uuid.UUID, token string) (*db.Render, error) {
	if err := g.tokens.Verify(token, renderID); err != nil {
		return nil, err
	}
	r, err := g.store.GetRender(ctx, renderID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRenderNotFound
	}
	if !r.Released() {
		return nil, ErrLocked
	}
	return r, nil
}
