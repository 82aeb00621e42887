package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paksmart/storefront/internal/models"
)

const productColumns = "id, name, description, price, category, image_url, stock, featured, created_at"

// ProductStore reads and writes the products table
type ProductStore struct {
	db *DB
}

// NewProductStore creates a new product store
func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

// buildProductListQuery builds the catalog query for filter.
// Category and search combine with AND; search matches name, description or category.
func buildProductListQuery(filter models.ProductFilter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if filter.Category != "" && filter.Category != models.CategoryAll {
		where = append(where, "category = ?")
		args = append(args, string(filter.Category))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	if filter.Featured {
		where = append(where, "featured = TRUE")
	}

	var b strings.Builder
	b.WriteString("SELECT " + productColumns + " FROM products")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	return b.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	var category string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &category, &p.ImageURL, &p.Stock, &p.Featured, &p.CreatedAt)
	p.Category = models.Category(category)
	return p, err
}

// List returns products matching filter, newest first
func (s *ProductStore) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	start := time.Now()
	query, args := buildProductListQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	s.db.metrics.RecordDBQuery(ctx, "SELECT", "products", query, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// Get returns a product by ID
func (s *ProductStore) Get(ctx context.Context, id string) (*models.Product, error) {
	start := time.Now()
	query := "SELECT " + productColumns + " FROM products WHERE id = ?"
	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	s.db.metrics.RecordDBQuery(ctx, "SELECT", "products", query, start, err == nil || errors.Is(err, sql.ErrNoRows))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// Insert stores a new product. ID and CreatedAt must be set.
func (s *ProductStore) Insert(ctx context.Context, p *models.Product) error {
	start := time.Now()
	query := "INSERT INTO products (" + productColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, string(p.Category), p.ImageURL, p.Stock, p.Featured, p.CreatedAt)
	s.db.metrics.RecordDBQuery(ctx, "INSERT", "products", query, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of a product
func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	start := time.Now()
	query := "UPDATE products SET name = ?, description = ?, price = ?, category = ?, image_url = ?, stock = ?, featured = ? WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, string(p.Category), p.ImageURL, p.Stock, p.Featured, p.ID)
	s.db.metrics.RecordDBQuery(ctx, "UPDATE", "products", query, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireRow(result)
}

// Delete removes a product
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	query := "DELETE FROM products WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, id)
	s.db.metrics.RecordDBQuery(ctx, "DELETE", "products", query, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireRow(result)
}

// requireRow maps zero matched rows to ErrNotFound.
// The DSN sets clientFoundRows so unchanged rows still count as matched.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
