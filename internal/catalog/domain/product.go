package domain

import (
	"regexp"
	"strings"
	"time"
)

type Unit string

const (
	UnitKG   Unit = "KG"
	UnitUnit Unit = "UNIT"
)

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Image        string    `json:"image,omitempty"`
	SortOrder    int       `json:"order"`
	IsActive     bool      `json:"isActive"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Product struct {
	ID                string    `json:"id"`
	CategoryID        string    `json:"categoryId"`
	CategoryName      string    `json:"categoryName,omitempty"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description,omitempty"`
	Price             float64   `json:"price"`
	SalePrice         *float64  `json:"salePrice"`
	Image             string    `json:"image,omitempty"`
	InStock           bool      `json:"inStock"`
	Unit              Unit      `json:"unit"`
	HasCuttingOptions bool      `json:"hasCuttingOptions"`
	CuttingStyles     []string  `json:"cuttingStyles"`
	Featured          bool      `json:"featured"`
	SortOrder         int       `json:"order"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// EffectivePrice is the price a line item is frozen at when added to the
// cart: the sale price only when it actually undercuts the list price.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

var (
	slugSpaces   = regexp.MustCompile(`[\s_]+`)
	slugInvalid  = regexp.MustCompile(`[^\w\x{0590}-\x{05FF}-]+`)
	slugCollapse = regexp.MustCompile(`--+`)
)

// Slugify keeps Hebrew letters alongside word characters so product names
// like "סלמון טרי" stay readable in URLs.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
