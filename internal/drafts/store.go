// Package drafts keeps in-progress wizard documents in Redis between steps.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonathan/cv-builder/internal/types"
)

// DefaultTTL is how long an untouched draft survives.
const DefaultTTL = 72 * time.Hour

const keyPrefix = "cv-builder:draft:"

// Draft errors
var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrWrongKind     = errors.New("draft holds another document kind")
)

// KV is the subset of the Redis client the store uses. *redis.Client satisfies it.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Draft is one wizard session. Exactly one of Document and Letter is set.
type Draft struct {
	ID        string             `json:"id"`
	Kind      types.DocumentKind `json:"kind"`
	Document  *types.Document    `json:"document,omitempty"`
	Letter    *types.Letter      `json:"letter,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store persists drafts as JSON values with a sliding TTL.
type Store struct {
	kv  KV
	ttl time.Duration
	now func() time.Time
}

// NewStore creates a store on kv. A non-positive ttl selects DefaultTTL.
func NewStore(kv KV, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{kv: kv, ttl: ttl, now: time.Now}
}

// Connect opens a Redis client from a redis:// URL and checks it answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	log.Printf("[drafts] connected to redis at %s", opts.Addr)
	return client, nil
}

func key(id string) string {
	return keyPrefix + id
}

// Create stores a new CV draft and returns it with a fresh ID.
func (s *Store) Create(ctx context.Context, doc types.Document) (*Draft, error) {
	doc = doc.Clone()
	doc.Normalize()
	d := &Draft{ID: uuid.NewString(), Kind: types.KindCV, Document: &doc}
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// CreateLetter stores a new cover-letter draft.
func (s *Store) CreateLetter(ctx context.Context, letter types.Letter) (*Draft, error) {
	letter = letter.Clone()
	letter.Normalize()
	d := &Draft{ID: uuid.NewString(), Kind: types.KindLetter, Letter: &letter}
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Save writes d and restarts its TTL.
func (s *Store) Save(ctx context.Context, d *Draft) error {
	if d.ID == "" {
		return fmt.Errorf("draft has no id")
	}
	if (d.Document == nil) == (d.Letter == nil) {
		return fmt.Errorf("draft %s must hold exactly one of document or letter", d.ID)
	}
	d.UpdatedAt = s.now().UTC()

	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.kv.Set(ctx, key(d.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", d.ID, err)
	}
	return nil
}

// Load returns the draft stored under id.
func (s *Store) Load(ctx context.Context, id string) (*Draft, error) {
	raw, err := s.kv.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}

	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft %s: %w", id, err)
	}
	return &d, nil
}

// Delete removes the draft. Deleting a missing draft returns ErrDraftNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	n, err := s.kv.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", id, err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// Apply commits one wizard step to a CV draft and saves the result. The
// stored draft is left untouched when the change is rejected.
func (s *Store) Apply(ctx context.Context, id string, change types.Change) (*Draft, error) {
	d, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Document == nil {
		return nil, fmt.Errorf("draft %s is a %s: %w", id, d.Kind, ErrWrongKind)
	}

	next, err := types.Commit(*d.Document, change)
	if err != nil {
		return nil, err
	}
	d.Document = &next
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ApplyLetter commits a change to a cover-letter draft.
func (s *Store) ApplyLetter(ctx context.Context, id string, change types.LetterChange) (*Draft, error) {
	d, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Letter == nil {
		return nil, fmt.Errorf("draft %s is a %s: %w", id, d.Kind, ErrWrongKind)
	}

	next := types.CommitLetter(*d.Letter, change)
	d.Letter = &next
	if err := s.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
