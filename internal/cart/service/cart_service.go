package service

import (
	"context"
	"errors"
	"log"

	"github.com/jackofish/market/internal/cart/domain"
	"github.com/jackofish/market/internal/cart/engine"
	"github.com/jackofish/market/internal/cart/store"
	"golang.org/x/sync/singleflight"
)

// CartService scopes the cart engine to a session and keeps the store in
// sync after every mutation. Storage failures never reach the caller: reads
// degrade to an empty cart and failed writes are logged and dropped, so the
// returned snapshot stays authoritative for the session.
type CartService struct {
	store store.Store
	sfg   singleflight.Group // Collapses concurrent loads for the same session
}

func NewCartService(st store.Store) *CartService {
	return &CartService{store: st}
}

func (s *CartService) Get(ctx context.Context, sessionID string) domain.Snapshot {
	return s.load(ctx, sessionID).Snapshot()
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, item engine.NewItem, quantity int) domain.Snapshot {
	e := s.load(ctx, sessionID)
	e.AddItem(item, quantity)
	s.persist(ctx, sessionID, e)
	return e.Snapshot()
}

func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) domain.Snapshot {
	e := s.load(ctx, sessionID)
	e.UpdateQuantity(lineID, quantity)
	s.persist(ctx, sessionID, e)
	return e.Snapshot()
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, lineID string) domain.Snapshot {
	e := s.load(ctx, sessionID)
	e.RemoveItem(lineID)
	s.persist(ctx, sessionID, e)
	return e.Snapshot()
}

// Clear empties the cart. Called after a successful order submission and
// exposed as an explicit user action.
func (s *CartService) Clear(ctx context.Context, sessionID string) domain.Snapshot {
	e := s.load(ctx, sessionID)
	e.Clear()
	if err := s.store.Delete(ctx, sessionID); err != nil {
		log.Printf("cart store delete error for session %s: %v", sessionID, err)
	}
	return e.Snapshot()
}

func (s *CartService) load(ctx context.Context, sessionID string) *engine.Engine {
	v, _, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		items, err := s.store.Load(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				log.Printf("cart store load error for session %s: %v", sessionID, err)
			}
			return []domain.LineItem(nil), nil
		}
		return items, nil
	})
	return engine.New(v.([]domain.LineItem))
}

func (s *CartService) persist(ctx context.Context, sessionID string, e *engine.Engine) {
	if err := s.store.Save(ctx, sessionID, e.Items()); err != nil {
		log.Printf("cart store save error for session %s: %v", sessionID, err)
	}
}
