package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/paksmart/storefront/internal/models"
)

const orderColumns = "id, user_id, total, items, status, created_at"

// OrderStore reads and writes the orders table
type OrderStore struct {
	db *DB
}

// NewOrderStore creates a new order store
func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

func scanOrder(row rowScanner) (models.Order, error) {
	var (
		o      models.Order
		items  []byte
		status string
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.Total, &items, &status, &o.CreatedAt); err != nil {
		return o, err
	}
	o.Status = models.OrderStatus(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return o, fmt.Errorf("failed to decode order items: %w", err)
	}
	return o, nil
}

// Create stores a new order and takes its quantities out of stock in one transaction.
// A line whose product lacks stock aborts the whole order with ErrInsufficientStock.
func (s *OrderStore) Create(ctx context.Context, o *models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stockQuery := "UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?"
	for _, line := range o.Items {
		start := time.Now()
		result, err := tx.ExecContext(ctx, stockQuery, line.Quantity, line.ProductID, line.Quantity)
		s.db.metrics.RecordDBQuery(ctx, "UPDATE", "products", stockQuery, start, err == nil)
		if err != nil {
			return fmt.Errorf("failed to reserve stock: %w", err)
		}
		if err := requireRow(result); errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, line.Name)
		} else if err != nil {
			return err
		}
	}

	start := time.Now()
	orderQuery := "INSERT INTO orders (" + orderColumns + ") VALUES (?, ?, ?, ?, ?, ?)"
	_, err = tx.ExecContext(ctx, orderQuery, o.ID, o.UserID, o.Total, items, string(o.Status), o.CreatedAt)
	s.db.metrics.RecordDBQuery(ctx, "INSERT", "orders", orderQuery, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get returns an order by ID
func (s *OrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	start := time.Now()
	query := "SELECT " + orderColumns + " FROM orders WHERE id = ?"
	o, err := scanOrder(s.db.QueryRowContext(ctx, query, id))
	s.db.metrics.RecordDBQuery(ctx, "SELECT", "orders", query, start, err == nil || errors.Is(err, sql.ErrNoRows))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// List returns all orders, newest first
func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	return s.list(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC")
}

// ListByUser returns a user's orders, newest first
func (s *OrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.list(ctx, "SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at DESC", userID)
}

func (s *OrderStore) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	s.db.metrics.RecordDBQuery(ctx, "SELECT", "orders", query, start, err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

// UpdateStatus sets an order's status. Concurrent updates are last-write-wins.
func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	start := time.Now()
	query := "UPDATE orders SET status = ? WHERE id = ?"
	result, err := s.db.ExecContext(ctx, query, string(status), id)
	s.db.metrics.RecordDBQuery(ctx, "UPDATE", "orders", query, start, err == nil)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return requireRow(result)
}

// CountByStatus counts orders in status
func (s *OrderStore) CountByStatus(ctx context.Context, status models.OrderStatus) (int, error) {
	start := time.Now()
	query := "SELECT COUNT(*) FROM orders WHERE status = ?"
	var n int
	err := s.db.QueryRowContext(ctx, query, string(status)).Scan(&n)
	s.db.metrics.RecordDBQuery(ctx, "SELECT", "orders", query, start, err == nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}
