package services

import (
	"context"
	"errors"

	"github.com/paksmart/storefront/internal/cart"
	"github.com/paksmart/storefront/internal/db"
	"github.com/paksmart/storefront/internal/metrics"
	"github.com/paksmart/storefront/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CartService handles cart operations for signed-in users
type CartService struct {
	carts    cart.Store
	products ProductRepository
	metrics  *metrics.AppMetrics
}

// NewCartService creates a new cart service
func NewCartService(carts cart.Store, products ProductRepository, metrics *metrics.AppMetrics) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		metrics:  metrics,
	}
}

// GetCart returns the user's cart
func (s *CartService) GetCart(ctx context.Context, userID string) (*cart.Cart, error) {
	return s.carts.Load(ctx, userID)
}

// AddToCart puts one unit of a product in the cart, snapshotting its display fields
func (s *CartService) AddToCart(ctx context.Context, userID, productID string) (*cart.Cart, error) {
	p, err := s.products.Get(ctx, productID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.SoldOut() {
		return nil, ErrSoldOut
	}

	return s.mutate(ctx, userID, func(c *cart.Cart) error {
		if line, ok := c.Get(p.ID); ok && line.Quantity >= cart.MaxQuantity {
			return ErrQuantityTooLarge
		}
		c.Add(models.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
		})
		return nil
	})
}

// UpdateQuantity sets a line's quantity; zero or below removes it
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*cart.Cart, error) {
	if quantity > cart.MaxQuantity {
		return nil, ErrQuantityTooLarge
	}
	return s.mutate(ctx, userID, func(c *cart.Cart) error {
		c.Update(productID, quantity)
		return nil
	})
}

// RemoveFromCart removes a line
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID string) (*cart.Cart, error) {
	return s.mutate(ctx, userID, func(c *cart.Cart) error {
		c.Remove(productID)
		return nil
	})
}

// ClearCart empties the cart
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.carts.Delete(ctx, userID); err != nil {
		return err
	}
	s.recordItemsCount(ctx, userID, 0)
	return nil
}

func (s *CartService) mutate(ctx context.Context, userID string, fn func(*cart.Cart) error) (*cart.Cart, error) {
	c, err := s.carts.Update(ctx, userID, fn)
	if err != nil {
		return nil, err
	}
	s.recordItemsCount(ctx, userID, c.ItemCount())
	return c, nil
}

func (s *CartService) recordItemsCount(ctx context.Context, userID string, count int) {
	cartAttrs := s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("user_id", userID),
	})
	s.metrics.CartItemsCount.Record(ctx, int64(count), metric.WithAttributes(cartAttrs...))
}
