package domain

import "fmt"

type Unit string

const (
	UnitKG   Unit = "KG"
	UnitUnit Unit = "UNIT"
)

const (
	// Orders at or above the threshold ship free.
	FreeDeliveryThreshold = 200.0
	DeliveryFee           = 30.0
)

// LineItem is one distinguishable row in the cart. Price and display fields
// are snapshotted when the item is first added and never refreshed.
type LineItem struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	Image         string  `json:"image,omitempty"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Quantity      int     `json:"quantity"`
	Unit          Unit    `json:"unit"`
	CuttingStyle  *string `json:"cuttingStyle"`
}

// DeriveLineID builds the identity key that decides whether an add merges
// into an existing line. Same product with two cutting styles is two lines.
func DeriveLineID(productID string, cuttingStyle *string) string {
	style := "none"
	if cuttingStyle != nil && *cuttingStyle != "" {
		style = *cuttingStyle
	}
	return fmt.Sprintf("%s:%s", productID, style)
}

// Snapshot is the cart plus its derived totals, recomputed from the items
// on every call and never stored.
type Snapshot struct {
	Items       []LineItem `json:"items"`
	ItemCount   int        `json:"itemCount"`
	Subtotal    float64    `json:"subtotal"`
	DeliveryFee float64    `json:"deliveryFee"`
	Total       float64    `json:"total"`
}

func BuildSnapshot(items []LineItem) Snapshot {
	s := Snapshot{Items: items}
	if s.Items == nil {
		s.Items = []LineItem{}
	}
	for _, item := range items {
		s.ItemCount += item.Quantity
		s.Subtotal += item.Price * float64(item.Quantity)
	}
	if s.Subtotal < FreeDeliveryThreshold {
		s.DeliveryFee = DeliveryFee
	}
	s.Total = s.Subtotal + s.DeliveryFee
	return s
}
