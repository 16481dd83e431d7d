package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackofish/market/internal/catalog/domain"
	"github.com/lib/pq"
)

const productColumns = `p.id, p.category_id, c.name, p.name, p.slug, p.description, p.price,
	p.sale_price, p.image, p.in_stock, p.unit, p.has_cutting_options, p.cutting_styles,
	p.featured, p.sort_order, p.is_active, p.created_at, p.updated_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context, includeHidden bool) ([]*domain.Category, error) {
	query := `SELECT c.id, c.name, c.slug, c.image, c.sort_order, c.is_active, c.created_at, c.updated_at,
	                 COUNT(p.id) FILTER (WHERE p.is_active)
	          FROM categories c
	          LEFT JOIN products p ON p.category_id = c.id`
	if !includeHidden {
		query += ` WHERE c.is_active`
	}
	query += ` GROUP BY c.id ORDER BY c.sort_order`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c := &domain.Category{}
		var image sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &image, &c.SortOrder, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt, &c.ProductCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Image = image.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

func (r *Repository) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT id, name, slug, image, sort_order, is_active, created_at, updated_at
	          FROM categories WHERE id = $1`

	c := &domain.Category{}
	var image sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Slug, &image, &c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	c.Image = image.String
	return c, nil
}

func (r *Repository) CreateCategory(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (id, name, slug, image, sort_order, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.Image, c.SortOrder, c.IsActive)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *Repository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	query := `UPDATE categories
	          SET name = $2, slug = $3, image = NULLIF($4, ''), sort_order = $5, is_active = $6, updated_at = NOW()
	          WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.Image, c.SortOrder, c.IsActive)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res, ErrCategoryNotFound)
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&count); err != nil {
		return fmt.Errorf("count category products: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res, ErrCategoryNotFound)
}

func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
	          FROM products p JOIN categories c ON c.id = p.category_id`

	var conds []string
	var args []interface{}
	if !filter.IncludeHidden {
		conds = append(conds, "p.is_active")
	}
	if filter.FeaturedOnly {
		conds = append(conds, "p.featured", "p.in_stock")
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conds = append(conds, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY p.sort_order"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.queryProducts(ctx, query, args...)
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
	          FROM products p JOIN categories c ON c.id = p.category_id WHERE p.id = $1`
	return r.queryOneProduct(ctx, query, id)
}

func (r *Repository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + `
	          FROM products p JOIN categories c ON c.id = p.category_id WHERE p.slug = $1`
	return r.queryOneProduct(ctx, query, slug)
}

func (r *Repository) GetProductsByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + `
	          FROM products p JOIN categories c ON c.id = p.category_id WHERE p.id = ANY($1)`
	return r.queryProducts(ctx, query, pq.Array(ids))
}

func (r *Repository) SearchProducts(ctx context.Context, q string, limit int) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
	          FROM products p JOIN categories c ON c.id = p.category_id
	          WHERE p.is_active AND p.name ILIKE '%' || $1 || '%'
	          ORDER BY p.sort_order LIMIT $2`
	return r.queryProducts(ctx, query, q, limit)
}

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, category_id, name, slug, description, price, sale_price, image,
	              in_stock, unit, has_cutting_options, cutting_styles, featured, sort_order, is_active,
	              created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.SalePrice, p.Image,
		p.InStock, p.Unit, p.HasCuttingOptions, pq.Array(p.CuttingStyles), p.Featured, p.SortOrder, p.IsActive)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *Repository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products
	          SET category_id = $2, name = $3, slug = $4, description = NULLIF($5, ''), price = $6,
	              sale_price = $7, image = NULLIF($8, ''), in_stock = $9, unit = $10,
	              has_cutting_options = $11, cutting_styles = $12, featured = $13, sort_order = $14,
	              is_active = $15, updated_at = NOW()
	          WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.SalePrice, p.Image,
		p.InStock, p.Unit, p.HasCuttingOptions, pq.Array(p.CuttingStyles), p.Featured, p.SortOrder, p.IsActive)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRow(res, ErrProductNotFound)
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res, ErrProductNotFound)
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (r *Repository) queryOneProduct(ctx context.Context, query string, arg interface{}) (*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("row iteration error: %w", err)
		}
		return nil, ErrProductNotFound
	}
	return scanProduct(rows)
}

func scanProduct(rows *sql.Rows) (*domain.Product, error) {
	p := &domain.Product{}
	var description, image sql.NullString
	var salePrice sql.NullFloat64
	var styles pq.StringArray
	if err := rows.Scan(
		&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Slug, &description, &p.Price,
		&salePrice, &image, &p.InStock, &p.Unit, &p.HasCuttingOptions, &styles,
		&p.Featured, &p.SortOrder, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	p.Description = description.String
	p.Image = image.String
	if salePrice.Valid {
		p.SalePrice = &salePrice.Float64
	}
	p.CuttingStyles = styles
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func requireRow(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
