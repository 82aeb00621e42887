package services

import (
	"context"
	"io"
	"time"

	"github.com/paksmart/storefront/internal/models"
)

// ProductRepository is the products table
type ProductRepository interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository is the orders table
type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	CountByStatus(ctx context.Context, status models.OrderStatus) (int, error)
}

// UserRepository is the users table
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// RevocationList remembers signed-out token ids until they expire
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Notifier delivers shop notifications
type Notifier interface {
	NotifyNewOrder(ctx context.Context, o *models.Order) error
	ForwardContact(ctx context.Context, msg models.ContactMessage) error
}

// ImageStore keeps product images and returns their public URL
type ImageStore interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
}
