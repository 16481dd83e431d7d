package service

import (
	"context"
	"testing"

	"github.com/jackofish/market/internal/catalog/domain"
	"github.com/jackofish/market/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	repository.CatalogRepository

	products   map[string]*domain.Product
	bySlug     map[string]*domain.Product
	categories map[string]*domain.Category
	created    *domain.Product
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		products:   make(map[string]*domain.Product),
		bySlug:     make(map[string]*domain.Product),
		categories: make(map[string]*domain.Category),
	}
}

func (m *mockRepository) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockRepository) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	p, ok := m.bySlug[slug]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockRepository) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockRepository) CreateProduct(_ context.Context, p *domain.Product) error {
	m.created = p
	m.products[p.ID] = p
	return nil
}

func salePrice(v float64) *float64 { return &v }

func testProduct() *domain.Product {
	return &domain.Product{
		ID:                "prod-1",
		CategoryID:        "cat-1",
		Name:              "סלמון נורווגי",
		Slug:              "salmon",
		Price:             60,
		InStock:           true,
		Unit:              domain.UnitKG,
		HasCuttingOptions: true,
		CuttingStyles:     []string{"WHOLE", "SLICED"},
		IsActive:          true,
	}
}

func TestEffectivePrice(t *testing.T) {
	p := testProduct()
	assert.Equal(t, 60.0, p.EffectivePrice())

	p.SalePrice = salePrice(50)
	assert.Equal(t, 50.0, p.EffectivePrice())

	// A sale price that does not undercut the list price is ignored.
	p.SalePrice = salePrice(60)
	assert.Equal(t, 60.0, p.EffectivePrice())
	p.SalePrice = salePrice(75)
	assert.Equal(t, 60.0, p.EffectivePrice())
}

func TestResolveLineItem_SnapshotsEffectivePrice(t *testing.T) {
	repo := newMockRepository()
	p := testProduct()
	p.SalePrice = salePrice(50)
	repo.products[p.ID] = p

	sut := NewCatalogService(repo)
	style := "SLICED"
	item, err := sut.ResolveLineItem(context.Background(), "prod-1", &style)
	require.NoError(t, err)
	assert.Equal(t, 50.0, item.Price)
	assert.Equal(t, 60.0, item.OriginalPrice)
	assert.Equal(t, "prod-1", item.ProductID)
	require.NotNil(t, item.CuttingStyle)
	assert.Equal(t, "SLICED", *item.CuttingStyle)
}

func TestResolveLineItem_UnknownProduct(t *testing.T) {
	sut := NewCatalogService(newMockRepository())

	_, err := sut.ResolveLineItem(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestResolveLineItem_OutOfStock(t *testing.T) {
	repo := newMockRepository()
	p := testProduct()
	p.InStock = false
	repo.products[p.ID] = p

	sut := NewCatalogService(repo)
	_, err := sut.ResolveLineItem(context.Background(), "prod-1", nil)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestResolveLineItem_StyleNotOffered(t *testing.T) {
	repo := newMockRepository()
	repo.products["prod-1"] = testProduct()

	sut := NewCatalogService(repo)
	style := "GROUND"
	_, err := sut.ResolveLineItem(context.Background(), "prod-1", &style)
	assert.ErrorIs(t, err, ErrInvalidCuttingStyle)
}

func TestGetProductBySlug_InactiveLooksMissing(t *testing.T) {
	repo := newMockRepository()
	p := testProduct()
	p.IsActive = false
	repo.bySlug[p.Slug] = p

	sut := NewCatalogService(repo)
	_, err := sut.GetProductBySlug(context.Background(), "salmon")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestCreateProduct_RequiresExistingCategory(t *testing.T) {
	repo := newMockRepository()
	sut := NewCatalogService(repo)

	err := sut.CreateProduct(context.Background(), &domain.Product{CategoryID: "missing", Name: "דג", Price: 10})
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
}

func TestCreateProduct_FillsDefaults(t *testing.T) {
	repo := newMockRepository()
	repo.categories["cat-1"] = &domain.Category{ID: "cat-1", Name: "דגים"}
	sut := NewCatalogService(repo)

	p := &domain.Product{CategoryID: "cat-1", Name: "Fresh Tuna", Price: 90}
	require.NoError(t, sut.CreateProduct(context.Background(), p))

	require.NotNil(t, repo.created)
	assert.NotEmpty(t, repo.created.ID)
	assert.Equal(t, "fresh-tuna", repo.created.Slug)
	assert.Equal(t, domain.UnitKG, repo.created.Unit)
	assert.NotNil(t, repo.created.CuttingStyles)
}

func TestSlugify_Hebrew(t *testing.T) {
	assert.Equal(t, "סלמון-נורווגי", domain.Slugify("סלמון נורווגי"))
	assert.Equal(t, "fresh-tuna", domain.Slugify("  Fresh   Tuna!  "))
	assert.Equal(t, "a-b", domain.Slugify("a_-_b"))
}
