package mem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	dbt "jeongsan/db/db"
)

// inMemoryDraftDBWrapper keeps drafts in a map. Every read and write copies,
// so callers never share state with the store.
type inMemoryDraftDBWrapper struct {
	drafts map[uuid.UUID]*dbt.Draft
	mu     sync.RWMutex
	now    func() time.Time
}

// NewInMemoryDraftDBWrapper creates an empty in-memory draft store.
func NewInMemoryDraftDBWrapper() dbt.DraftDBWrapper {
	return &inMemoryDraftDBWrapper{
		drafts: make(map[uuid.UUID]*dbt.Draft),
		now:    time.Now,
	}
}

func (db *inMemoryDraftDBWrapper) CreateDraft(_ context.Context, draft *dbt.Draft) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.drafts[draft.ID]; exists {
		return fmt.Errorf("draft with ID %s %w", draft.ID, dbt.ErrAlreadyExists)
	}

	now := db.now()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	db.drafts[draft.ID] = draft.Clone()
	return nil
}

func (db *inMemoryDraftDBWrapper) GetDraft(_ context.Context, id uuid.UUID) (*dbt.Draft, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	draft, exists := db.drafts[id]
	if !exists {
		return nil, fmt.Errorf("draft with ID %s %w", id, dbt.ErrNotFound)
	}
	return draft.Clone(), nil
}

// ListDrafts returns the most recently updated drafts first.
func (db *inMemoryDraftDBWrapper) ListDrafts(_ context.Context) ([]dbt.DraftInfo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	infos := make([]dbt.DraftInfo, 0, len(db.drafts))
	for _, d := range db.drafts {
		infos = append(infos, d.DraftInfo)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
	})
	return infos, nil
}

func (db *inMemoryDraftDBWrapper) UpdateDraft(_ context.Context, draft *dbt.Draft) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	existing, exists := db.drafts[draft.ID]
	if !exists {
		return fmt.Errorf("draft with ID %s %w", draft.ID, dbt.ErrNotFound)
	}

	draft.CreatedAt = existing.CreatedAt
	draft.UpdatedAt = db.now()
	db.drafts[draft.ID] = draft.Clone()
	return nil
}

func (db *inMemoryDraftDBWrapper) DeleteDraft(_ context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.drafts[id]; !exists {
		return fmt.Errorf("draft with ID %s %w", id, dbt.ErrNotFound)
	}
	delete(db.drafts, id)
	return nil
}
