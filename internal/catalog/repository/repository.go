package repository

import (
	"context"
	"errors"

	"github.com/jackofish/market/internal/catalog/domain"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrCategoryInUse    = errors.New("category still has products")
)

// ProductFilter narrows ListProducts. Zero value lists every active product.
type ProductFilter struct {
	CategorySlug  string
	CategoryID    string
	FeaturedOnly  bool
	IncludeHidden bool // admin views also see inactive products
	Limit         int
}

type CatalogRepository interface {
	ListCategories(ctx context.Context, includeHidden bool) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}
