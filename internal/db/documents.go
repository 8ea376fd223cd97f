package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// rowQuerier is satisfied by *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SaveDocument stores payload as a new document and returns its ID.
func (db *DB) SaveDocument(ctx context.Context, kind, templateID string, payload any) (uuid.UUID, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return insertDocument(ctx, db.sql, kind, templateID, jsonBytes)
}

// SaveDocumentWithRender stores a document and its first locked render in one
// transaction. On error neither row is kept. r.DocumentID is set on success.
func (db *DB) SaveDocumentWithRender(ctx context.Context, kind string, payload any, r *Render) (docID, renderID uuid.UUID, err error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) {
			log.Printf("[db] rollback failed: %v", rErr)
		}
	}()

	docID, err = insertDocument(ctx, tx, kind, r.TemplateID, jsonBytes)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	withDoc := *r
	withDoc.DocumentID = docID
	renderID, err = insertRender(ctx, tx, &withDoc)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("failed to commit document %s: %w", docID, err)
	}
	r.DocumentID = docID
	return docID, renderID, nil
}

func insertDocument(ctx context.Context, q rowQuerier, kind, templateID string, payload []byte) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRowContext(ctx,
		`INSERT INTO documents (kind, template_id, payload)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		kind, templateID, payload,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save document: %w", err)
	}
	return id, nil
}

// GetDocument returns the document with id, or nil if there is none.
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	var d Document
	var payload []byte
	err := db.sql.QueryRowContext(ctx,
		`SELECT id, kind, template_id, payload, created_at FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Kind, &d.TemplateID, &payload, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	d.Payload = payload
	return &d, nil
}
