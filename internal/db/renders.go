package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotReleasable is returned when a render is missing or already released.
var ErrNotReleasable = errors.New("render is not awaiting release")

// CreateRender stores a locked render and returns its ID.
func (db *DB) CreateRender(ctx context.Context, r *Render) (uuid.UUID, error) {
	return insertRender(ctx, db.sql, r)
}

func insertRender(ctx context.Context, q rowQuerier, r *Render) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRowContext(ctx,
		`INSERT INTO renders (document_id, template_id, backend, pages, pdf, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		r.DocumentID, r.TemplateID, r.Backend, r.Pages, r.PDF, RenderLocked,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create render: %w", err)
	}
	return id, nil
}

// GetRender returns the render with id including its PDF, or nil if there is none.
func (db *DB) GetRender(ctx context.Context, id uuid.UUID) (*Render, error) {
	var r Render
	err := db.sql.QueryRowContext(ctx,
		`SELECT id, document_id, template_id, backend, pages, pdf, status, payment_ref, released_at, created_at
		 FROM renders WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.DocumentID, &r.TemplateID, &r.Backend, &r.Pages, &r.PDF,
		&r.Status, &r.PaymentRef, &r.ReleasedAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get render %s: %w", id, err)
	}
	return &r, nil
}

// MarkReleased records the payment reference and unlocks the render. Only a
// locked render can be released.
func (db *DB) MarkReleased(ctx context.Context, id uuid.UUID, paymentRef string) error {
	res, err := db.sql.ExecContext(ctx,
		`UPDATE renders SET status = $1, payment_ref = $2, released_at = NOW()
		 WHERE id = $3 AND status = $4`,
		RenderReleased, paymentRef, id, RenderLocked,
	)
	if err != nil {
		return fmt.Errorf("failed to release render %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to release render %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotReleasable
	}
	return nil
}

// ListRenders returns the renders of a document, newest first, without PDF bytes.
func (db *DB) ListRenders(ctx context.Context, documentID uuid.UUID) ([]Render, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, document_id, template_id, backend, pages, status, payment_ref, released_at, created_at
		 FROM renders WHERE document_id = $1 ORDER BY created_at DESC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list renders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Render
	for rows.Next() {
		var r Render
		if err := rows.Scan(&r.ID, &r.DocumentID, &r.TemplateID, &r.Backend, &r.Pages,
			&r.Status, &r.PaymentRef, &r.ReleasedAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan render: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list renders: %w", err)
	}
	return out, nil
}
