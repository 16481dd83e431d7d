// Package engine holds the in-memory cart state for one shopping session.
// All operations are synchronous, total over their inputs and never fail;
// derived totals are recomputed on every read.
package engine

import "github.com/jackofish/market/internal/cart/domain"

// NewItem carries everything needed to add a line except the derived id and
// quantity. Price must already be the effective price (sale vs list is the
// caller's decision).
type NewItem struct {
	ProductID     string
	Name          string
	Image         string
	Price         float64
	OriginalPrice float64
	Unit          domain.Unit
	CuttingStyle  *string
}

type Engine struct {
	items []domain.LineItem
	open  bool
}

// New copies items so the engine owns its backing array: a restored cart
// loaded once may be handed to several engines at the same time.
func New(items []domain.LineItem) *Engine {
	owned := make([]domain.LineItem, len(items))
	copy(owned, items)
	return &Engine{items: owned}
}

// AddItem merges into the line with the same derived id, or appends a new
// line. When merging, only the quantity changes: the first add's price and
// display fields win.
func (e *Engine) AddItem(item NewItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	id := domain.DeriveLineID(item.ProductID, item.CuttingStyle)

	for i := range e.items {
		if e.items[i].ID == id {
			e.items[i].Quantity += quantity
			e.open = true
			return
		}
	}

	e.items = append(e.items, domain.LineItem{
		ID:            id,
		ProductID:     item.ProductID,
		Name:          item.Name,
		Image:         item.Image,
		Price:         item.Price,
		OriginalPrice: item.OriginalPrice,
		Quantity:      quantity,
		Unit:          item.Unit,
		CuttingStyle:  item.CuttingStyle,
	})
	e.open = true
}

// RemoveItem deletes the line with the given derived id. No-op when absent.
func (e *Engine) RemoveItem(id string) {
	for i := range e.items {
		if e.items[i].ID == id {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of an existing line. Anything below 1
// removes the line instead; quantities are never stored as zero or negative.
func (e *Engine) UpdateQuantity(id string, quantity int) {
	if quantity < 1 {
		e.RemoveItem(id)
		return
	}
	for i := range e.items {
		if e.items[i].ID == id {
			e.items[i].Quantity = quantity
			return
		}
	}
}

func (e *Engine) Clear() {
	e.items = nil
}

// Items returns a copy so callers cannot mutate cart state around the
// operation set.
func (e *Engine) Items() []domain.LineItem {
	items := make([]domain.LineItem, len(e.items))
	copy(items, e.items)
	return items
}

func (e *Engine) Snapshot() domain.Snapshot {
	return domain.BuildSnapshot(e.Items())
}

// Visibility flag for the cart drawer. Orthogonal to the data model.

func (e *Engine) Open()        { e.open = true }
func (e *Engine) Close()       { e.open = false }
func (e *Engine) Toggle()      { e.open = !e.open }
func (e *Engine) IsOpen() bool { return e.open }
