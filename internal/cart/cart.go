// Package cart holds a shopper's cart and keeps it for the life of their session.
package cart

import (
	"github.com/paksmart/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the most units of one product a line may hold
const MaxQuantity = 99

// Cart is an ordered set of lines keyed by product id
type Cart struct {
	Items []models.CartItem `json:"items"`
}

// New returns an empty cart
func New() *Cart {
	return &Cart{Items: []models.CartItem{}}
}

// Add inserts item with quantity 1, or bumps the existing line by one
func (c *Cart) Add(item models.CartItem) {
	if i := c.index(item.ProductID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// Update sets the quantity of a line. Values below one remove the line.
func (c *Cart) Update(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.index(productID); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

// Remove drops a line; unknown ids are ignored
func (c *Cart) Remove(productID string) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []models.CartItem{}
}

// Get returns the line for productID
func (c *Cart) Get(productID string) (models.CartItem, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Items[i], true
	}
	return models.CartItem{}, false
}

// Total is the sum of price times quantity over all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ItemCount is the sum of quantities
func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Response renders the cart with its derived totals
func (c *Cart) Response() *models.CartResponse {
	items := c.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return &models.CartResponse{
		Items:     items,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
}

func (c *Cart) index(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
