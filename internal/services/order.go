package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/paksmart/storefront/internal/cart"
	"github.com/paksmart/storefront/internal/db"
	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/internal/metrics"
	"github.com/paksmart/storefront/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var orderLog = logging.NewPackageLogger("services.order")

// OrderService handles checkout and order management
type OrderService struct {
	orders   OrderRepository
	carts    cart.Store
	products *ProductCache
	notifier Notifier
	metrics  *metrics.AppMetrics
}

// NewOrderService creates a new order service. Products bought at checkout
// are evicted from products, the cache shared with ProductService.
func NewOrderService(orders OrderRepository, carts cart.Store, products *ProductCache, notifier Notifier, metrics *metrics.AppMetrics) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		notifier: notifier,
		metrics:  metrics,
	}
}

// BuildOrder snapshots the cart lines with the delivery details copied onto each line.
// The total is the cart total, which equals the sum of the lines.
func BuildOrder(userID string, c *cart.Cart, delivery models.DeliveryDetails) *models.Order {
	lines := make([]models.OrderLine, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, models.OrderLine{
			ProductID:     it.ProductID,
			Name:          it.Name,
			Price:         it.Price,
			Quantity:      it.Quantity,
			CustomerName:  delivery.Name,
			Phone:         delivery.Phone,
			Address:       delivery.Address,
			City:          delivery.City,
			Notes:         delivery.Notes,
			PaymentMethod: models.PaymentCOD,
		})
	}

	return &models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Total:     c.Total(),
		Items:     lines,
		Status:    models.OrderPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Checkout places a cash-on-delivery order for the session's cart and clears the cart.
// Admins cannot order. On any failure the cart is left as it was.
func (s *OrderService) Checkout(ctx context.Context, session *models.Session, delivery models.DeliveryDetails) (*models.Order, error) {
	if session == nil {
		return nil, ErrUnauthenticated
	}
	if session.IsAdmin {
		return nil, ErrAdminCannotOrder
	}

	c, err := s.carts.Load(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	delivery, err = ValidateDelivery(delivery)
	if err != nil {
		return nil, err
	}

	order := BuildOrder(session.UserID, c, delivery)
	err = s.orders.Create(ctx, order)
	// A stock shortfall also means the cached stock is stale
	if err == nil || errors.Is(err, ErrInsufficientStock) {
		s.products.Evict(order.ProductIDs()...)
	}
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, session.UserID); err != nil {
		// The order exists; a stale cart is the lesser problem
		orderLog.Error().Err(err).Str(logging.ORDER_ID, order.ID).Msg("failed to clear cart after checkout")
	}

	s.recordPlaced(ctx, order)
	s.refreshPendingGauge(ctx)

	if err := s.notifier.NotifyNewOrder(ctx, order); err != nil {
		orderLog.Warn().Err(err).Str(logging.ORDER_ID, order.ID).Msg("new order notification failed")
	}

	orderLog.Info().
		Str(logging.ORDER_ID, order.ID).
		Str(logging.USER_ID, order.UserID).
		Str("total", order.Total.String()).
		Int("lines", len(order.Items)).
		Msg("order placed")

	return order, nil
}

// ListUserOrders returns a customer's orders, newest first
func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListOrders returns every order, newest first, with the dashboard summary
func (s *OrderService) ListOrders(ctx context.Context) (*models.AdminOrdersResponse, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	summary := models.Summarize(orders)
	s.metrics.PendingOrders.Record(ctx, int64(summary.Pending), metric.WithAttributes(s.metrics.WithServiceName(nil)...))
	return &models.AdminOrdersResponse{Orders: orders, Summary: summary}, nil
}

// SetOrderStatus moves an order between pending and completed
func (s *OrderService) SetOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	err := s.orders.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	s.metrics.OrderStatusChanges.Add(ctx, 1, metric.WithAttributes(s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("order_status", string(status)),
	})...))
	s.refreshPendingGauge(ctx)

	orderLog.Info().Str(logging.ORDER_ID, orderID).Str("status", string(status)).Msg("order status changed")
	return order, nil
}

func (s *OrderService) recordPlaced(ctx context.Context, o *models.Order) {
	categoryAttrs := s.metrics.WithServiceName([]attribute.KeyValue{
		attribute.String("order_status", string(o.Status)),
		attribute.String("payment_method", models.PaymentCOD),
	})
	s.metrics.OrdersCreated.Add(ctx, 1, metric.WithAttributes(categoryAttrs...))

	amount, _ := o.Total.Float64()
	s.metrics.RevenueTotal.Add(ctx, amount, metric.WithAttributes(categoryAttrs...))
}

func (s *OrderService) refreshPendingGauge(ctx context.Context) {
	n, err := s.orders.CountByStatus(ctx, models.OrderPending)
	if err != nil {
		orderLog.Warn().Err(err).Msg("could not count pending orders")
		return
	}
	s.metrics.PendingOrders.Record(ctx, int64(n), metric.WithAttributes(s.metrics.WithServiceName(nil)...))
}
