package notify

import (
	"context"
	"testing"
	"time"

	"github.com/paksmart/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *models.Order {
	line := func(id, name string, price int64, qty int) models.OrderLine {
		return models.OrderLine{
			ProductID:     id,
			Name:          name,
			Price:         decimal.NewFromInt(price),
			Quantity:      qty,
			CustomerName:  "Ali",
			Phone:         "03001234567",
			Address:       "House 1, Street 2",
			City:          "Lahore",
			Notes:         "call first",
			PaymentMethod: models.PaymentCOD,
		}
	}
	return &models.Order{
		ID:        "0c9b6f1e-4c1a-4a57-9d0f-0a2b7b7e2f10",
		UserID:    "u1",
		Total:     decimal.NewFromInt(2500),
		Items:     []models.OrderLine{line("a", "Phone A", 1000, 2), line("b", "Charger B", 500, 1)},
		Status:    models.OrderPending,
		CreatedAt: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestOrderMail(t *testing.T) {
	o := testOrder()

	assert.Equal(t, "New COD order 0c9b6f1e - Rs. 2500", OrderSubject(o))

	body := OrderBody(o)
	assert.Contains(t, body, "Customer: Ali")
	assert.Contains(t, body, "Address: House 1, Street 2, Lahore")
	assert.Contains(t, body, "Notes: call first")
	assert.Contains(t, body, "2 x Phone A @ Rs. 1000 = Rs. 2000")
	assert.Contains(t, body, "1 x Charger B @ Rs. 500 = Rs. 500")
	assert.Contains(t, body, "Total: Rs. 2500")
	assert.Contains(t, body, "Payment: COD")
}

func TestContactMail(t *testing.T) {
	c := models.ContactMessage{Name: "Sara", Email: "sara@example.com", Message: "Is the charger in stock?"}

	assert.Equal(t, "Contact form: Sara", ContactSubject(c))
	body := ContactBody(c)
	assert.Contains(t, body, "From: Sara <sara@example.com>")
	assert.NotContains(t, body, "Phone:")
	assert.Contains(t, body, "Is the charger in stock?")
}

func TestMailerRejectsBadShopAddress(t *testing.T) {
	m := NewMailer(SMTPConfig{Host: "localhost", Port: 25, ShopEmail: "not an address"})
	err := m.NotifyNewOrder(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sender address")
}

func TestLogNotifier(t *testing.T) {
	var n LogNotifier
	assert.NoError(t, n.NotifyNewOrder(context.Background(), testOrder()))
	assert.NoError(t, n.ForwardContact(context.Background(), models.ContactMessage{Name: "x", Email: "x@y.z", Message: "hi"}))
}
