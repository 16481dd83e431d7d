package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	cart "github.com/jackofish/market/internal/cart/domain"
	cartengine "github.com/jackofish/market/internal/cart/engine"
	"github.com/jackofish/market/internal/catalog/domain"
	"github.com/jackofish/market/internal/catalog/repository"
	"golang.org/x/sync/singleflight"
)

var (
	ErrProductUnavailable  = errors.New("product unavailable")
	ErrInvalidCuttingStyle = errors.New("cutting style not offered for product")
)

type CatalogService struct {
	repo repository.CatalogRepository
	sfg  singleflight.Group // Collapses concurrent slug lookups from hot product pages
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListCategories(ctx context.Context, includeHidden bool) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx, includeHidden)
}

func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, limit int) ([]*domain.Product, error) {
	return s.repo.SearchProducts(ctx, query, limit)
}

// GetProductBySlug serves the public product page: inactive products look
// exactly like missing ones.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do("slug:"+slug, func() (interface{}, error) {
		return s.repo.GetProductBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	product := v.(*domain.Product)
	if !product.IsActive {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

// ResolveLineItem turns a catalog product into the frozen item data the cart
// engine stores. Effective-price resolution happens here, upstream of the
// engine, which accepts whatever price it is handed.
func (s *CatalogService) ResolveLineItem(ctx context.Context, productID string, cuttingStyle *string) (cartengine.NewItem, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return cartengine.NewItem{}, err
	}
	if !product.IsActive || !product.InStock {
		return cartengine.NewItem{}, ErrProductUnavailable
	}
	if cuttingStyle != nil {
		if !product.HasCuttingOptions || !contains(product.CuttingStyles, *cuttingStyle) {
			return cartengine.NewItem{}, ErrInvalidCuttingStyle
		}
	}

	return cartengine.NewItem{
		ProductID:     product.ID,
		Name:          product.Name,
		Image:         product.Image,
		Price:         product.EffectivePrice(),
		OriginalPrice: product.Price,
		Unit:          cart.Unit(product.Unit),
		CuttingStyle:  cuttingStyle,
	}, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *domain.Category) error {
	c.ID = uuid.NewString()
	c.Slug = domain.Slugify(c.Name)
	return s.repo.CreateCategory(ctx, c)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *domain.Category) error {
	c.Slug = domain.Slugify(c.Name)
	return s.repo.UpdateCategory(ctx, c)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if _, err := s.repo.GetCategory(ctx, p.CategoryID); err != nil {
		return err
	}
	p.ID = uuid.NewString()
	p.Slug = domain.Slugify(p.Name)
	if p.Unit == "" {
		p.Unit = domain.UnitKG
	}
	if p.CuttingStyles == nil {
		p.CuttingStyles = []string{}
	}
	return s.repo.CreateProduct(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if _, err := s.repo.GetCategory(ctx, p.CategoryID); err != nil {
		return err
	}
	p.Slug = domain.Slugify(p.Name)
	if p.CuttingStyles == nil {
		p.CuttingStyles = []string{}
	}
	return s.repo.UpdateProduct(ctx, p)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.DeleteProduct(ctx, id)
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
