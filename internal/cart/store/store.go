package store

import (
	"context"
	"errors"

	"github.com/jackofish/market/internal/cart/domain"
)

// Store persists the line-item list for a shopping session. Implementations
// may fail, but callers are expected to degrade silently: a failed or
// malformed Load is an empty cart, a failed Save keeps in-memory state
// authoritative for the rest of the session.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]domain.LineItem, error)
	Save(ctx context.Context, sessionID string, items []domain.LineItem) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrNotFound = errors.New("cart not found")
