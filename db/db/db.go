package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// DraftDBWrapper stores trip-creation wizards between requests.
type DraftDBWrapper interface {
	// Create
	CreateDraft(ctx context.Context, draft *Draft) error
	// Read
	GetDraft(ctx context.Context, id uuid.UUID) (*Draft, error)
	ListDrafts(ctx context.Context) ([]DraftInfo, error)
	// Update replaces the draft fields and its whole member list.
	UpdateDraft(ctx context.Context, draft *Draft) error
	// Delete
	DeleteDraft(ctx context.Context, id uuid.UUID) error
}
