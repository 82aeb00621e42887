package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/paksmart/storefront/internal/models"
)

const userColumns = "id, email, full_name, password_hash, is_admin, created_at"

// UserStore reads and writes the users table
type UserStore struct {
	db *DB
}

// NewUserStore creates a new user store
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create stores a new user; a taken email yields ErrDuplicate
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	start := time.Now()
	query := "INSERT INTO users (" + userColumns + ") VALUES (?, ?, ?, ?, ?, ?)"
	_, err := s.db.ExecContext(ctx, query, u.ID, u.Email, u.FullName, u.PasswordHash, u.IsAdmin, u.CreatedAt)
	s.db.metrics.RecordDBQuery(ctx, "INSERT", "users", query, start, err == nil)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID returns a user by ID
func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.get(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetByEmail returns a user by email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.get(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (s *UserStore) get(ctx context.Context, query string, arg string) (*models.User, error) {
	start := time.Now()
	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
	)
	s.db.metrics.RecordDBQuery(ctx, "SELECT", "users", query, start, err == nil || errors.Is(err, sql.ErrNoRows))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
