package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the two-state order lifecycle
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	return s == OrderPending || s == OrderCompleted
}

// Toggled returns the other status
func (s OrderStatus) Toggled() OrderStatus {
	if s == OrderPending {
		return OrderCompleted
	}
	return OrderPending
}

// PaymentCOD is the only supported payment method
const PaymentCOD = "COD"

// DeliveryDetails is the checkout delivery form
type DeliveryDetails struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	Notes   string `json:"notes"`
}

// OrderLine is a snapshot of one cart line with the delivery details copied onto it
type OrderLine struct {
	ProductID     string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	CustomerName  string          `json:"customer_name"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Notes         string          `json:"notes"`
	PaymentMethod string          `json:"payment_method"`
}

// Subtotal is price times quantity
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order represents a placed order
type Order struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Items     []OrderLine     `json:"items" db:"items"`
	Status    OrderStatus     `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Delivery returns the delivery details carried by the first line
func (o *Order) Delivery() DeliveryDetails {
	if len(o.Items) == 0 {
		return DeliveryDetails{}
	}
	first := o.Items[0]
	return DeliveryDetails{
		Name:    first.CustomerName,
		Phone:   first.Phone,
		Address: first.Address,
		City:    first.City,
		Notes:   first.Notes,
	}
}

// ProductIDs lists the product of each line
func (o *Order) ProductIDs() []string {
	ids := make([]string, len(o.Items))
	for i, l := range o.Items {
		ids[i] = l.ProductID
	}
	return ids
}

// LinesTotal sums the lines
func (o *Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Items {
		total = total.Add(l.Subtotal())
	}
	return total
}

// OrderSummary backs the admin dashboard cards and pending badge
type OrderSummary struct {
	TotalOrders int             `json:"total_orders"`
	Pending     int             `json:"pending"`
	Completed   int             `json:"completed"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// Summarize computes the dashboard numbers over orders
func Summarize(orders []Order) OrderSummary {
	s := OrderSummary{TotalOrders: len(orders), Revenue: decimal.Zero}
	for _, o := range orders {
		switch o.Status {
		case OrderPending:
			s.Pending++
		case OrderCompleted:
			s.Completed++
		}
		s.Revenue = s.Revenue.Add(o.Total)
	}
	return s
}

// AdminOrdersResponse is the admin orders listing
type AdminOrdersResponse struct {
	Orders  []Order      `json:"orders"`
	Summary OrderSummary `json:"summary"`
}

// UpdateOrderStatusRequest represents a status change
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
}
