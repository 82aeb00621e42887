package services

import (
	"testing"

	"github.com/paksmart/storefront/internal/cart"
	"github.com/paksmart/storefront/internal/models"
	"github.com/paksmart/storefront/internal/storetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillCart(t *testing.T, f *fixture, userID string, productIDs ...string) {
	t.Helper()
	for _, id := range productIDs {
		_, err := f.cartSvc.AddToCart(ctx(), userID, id)
		require.NoError(t, err)
	}
}

func TestBuildOrder(t *testing.T) {
	c := cart.New()
	c.Add(models.CartItem{ProductID: "a", Name: "A", Price: decimal.NewFromInt(1000)})
	c.Add(models.CartItem{ProductID: "a", Name: "A", Price: decimal.NewFromInt(1000)})
	c.Add(models.CartItem{ProductID: "b", Name: "B", Price: decimal.NewFromInt(500)})

	d := delivery()
	d.Notes = "ring twice"
	o := BuildOrder("u1", c, d)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, models.OrderPending, o.Status)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(2500)))
	assert.True(t, o.Total.Equal(o.LinesTotal()))
	require.Len(t, o.Items, 2)
	for _, line := range o.Items {
		assert.Equal(t, models.PaymentCOD, line.PaymentMethod)
		assert.Equal(t, "Ali", line.CustomerName)
		assert.Equal(t, "ring twice", line.Notes)
	}
	assert.Equal(t, d, o.Delivery())
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	s := customer()
	fillCart(t, f, s.UserID, "p-phone", "p-earbuds", "p-earbuds")

	o, err := f.orderSvc.Checkout(ctx(), s, models.DeliveryDetails{
		Name: "  Ali ", Phone: "0300", Address: "House 1", City: "Lahore",
	})
	require.NoError(t, err)

	assert.True(t, o.Total.Equal(decimal.NewFromInt(45000+2*3500)))
	assert.Equal(t, "Ali", o.Items[0].CustomerName)
	assert.Equal(t, 1, f.orders.Len())
	assert.Equal(t, 2, f.products.Stock("p-phone"))
	assert.Equal(t, 3, f.products.Stock("p-earbuds"))

	c, err := f.cartSvc.GetCart(ctx(), s.UserID)
	require.NoError(t, err)
	assert.True(t, c.Empty(), "cart is cleared after checkout")

	require.Len(t, f.notifier.Orders, 1)
	assert.Equal(t, o.ID, f.notifier.Orders[0].ID)

	mine, err := f.orderSvc.ListUserOrders(ctx(), s.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, o.ID, mine[0].ID)
}

func TestCheckoutRejectsAdmin(t *testing.T) {
	f := newFixture(t)
	fillCart(t, f, admin().UserID, "p-phone")

	_, err := f.orderSvc.Checkout(ctx(), admin(), delivery())
	assert.ErrorIs(t, err, ErrAdminCannotOrder)
	assert.Equal(t, 0, f.orders.Len())
}

func TestCheckoutRequiresFields(t *testing.T) {
	blank := []func(d *models.DeliveryDetails){
		func(d *models.DeliveryDetails) { d.Name = "" },
		func(d *models.DeliveryDetails) { d.Phone = "   " },
		func(d *models.DeliveryDetails) { d.Address = "" },
		func(d *models.DeliveryDetails) { d.City = "\t" },
	}

	for _, blankOut := range blank {
		f := newFixture(t)
		s := customer()
		fillCart(t, f, s.UserID, "p-phone")

		d := delivery()
		blankOut(&d)
		_, err := f.orderSvc.Checkout(ctx(), s, d)
		assert.ErrorIs(t, err, ErrMissingFields)
		assert.Equal(t, 0, f.orders.Calls, "no store call on invalid input")

		c, err := f.cartSvc.GetCart(ctx(), s.UserID)
		require.NoError(t, err)
		assert.Equal(t, 1, c.ItemCount(), "cart untouched")
	}
}

func TestCheckoutEmptyCartAndAnonymous(t *testing.T) {
	f := newFixture(t)

	_, err := f.orderSvc.Checkout(ctx(), customer(), delivery())
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = f.orderSvc.Checkout(ctx(), nil, delivery())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	f := newFixture(t)
	s := customer()
	fillCart(t, f, s.UserID, "p-phone", "p-earbuds")
	_, err := f.cartSvc.UpdateQuantity(ctx(), s.UserID, "p-earbuds", 6)
	require.NoError(t, err)

	_, err = f.orderSvc.Checkout(ctx(), s, delivery())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Wireless Earbuds")
	assert.Equal(t, 3, f.products.Stock("p-phone"), "no partial reservation")
	assert.Equal(t, 0, f.orders.Len())

	c, err := f.cartSvc.GetCart(ctx(), s.UserID)
	require.NoError(t, err)
	assert.Equal(t, 7, c.ItemCount())
}

func TestCheckoutStoreFailureKeepsCart(t *testing.T) {
	f := newFixture(t)
	s := customer()
	fillCart(t, f, s.UserID, "p-phone")
	f.orders.Err = storetest.ErrStore

	_, err := f.orderSvc.Checkout(ctx(), s, delivery())
	require.Error(t, err)
	assert.Equal(t, "connection refused", err.Error())

	c, err := f.cartSvc.GetCart(ctx(), s.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.ItemCount())
}

func TestCheckoutNotificationFailureStillPlacesOrder(t *testing.T) {
	f := newFixture(t)
	s := customer()
	fillCart(t, f, s.UserID, "p-phone")
	f.notifier.Err = storetest.ErrStore

	_, err := f.orderSvc.Checkout(ctx(), s, delivery())
	require.NoError(t, err)
	assert.Equal(t, 1, f.orders.Len())
}

func TestOrderStatusRoundTrip(t *testing.T) {
	f := newFixture(t)
	s := customer()
	fillCart(t, f, s.UserID, "p-phone")
	placed, err := f.orderSvc.Checkout(ctx(), s, delivery())
	require.NoError(t, err)

	o, err := f.orderSvc.SetOrderStatus(ctx(), placed.ID, placed.Status.Toggled())
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, o.Status)

	o, err = f.orderSvc.SetOrderStatus(ctx(), placed.ID, o.Status.Toggled())
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, o.Status)

	o.Status = placed.Status
	assert.Equal(t, *placed, *o)

	_, err = f.orderSvc.SetOrderStatus(ctx(), placed.ID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.orderSvc.SetOrderStatus(ctx(), "missing", models.OrderCompleted)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersSummary(t *testing.T) {
	f := newFixture(t)
	for _, id := range []string{"p-phone", "p-case"} {
		s := customer()
		fillCart(t, f, s.UserID, id)
		_, err := f.orderSvc.Checkout(ctx(), s, delivery())
		require.NoError(t, err)
	}
	all, err := f.orderSvc.ListOrders(ctx())
	require.NoError(t, err)
	require.Len(t, all.Orders, 2)

	_, err = f.orderSvc.SetOrderStatus(ctx(), all.Orders[0].ID, models.OrderCompleted)
	require.NoError(t, err)

	all, err = f.orderSvc.ListOrders(ctx())
	require.NoError(t, err)
	assert.Equal(t, 2, all.Summary.TotalOrders)
	assert.Equal(t, 1, all.Summary.Pending)
	assert.Equal(t, 1, all.Summary.Completed)
	assert.True(t, all.Summary.Revenue.Equal(decimal.NewFromInt(45000+800)))
}

func TestCheckoutRefreshesCachedStock(t *testing.T) {
	f := newFixture(t)
	s := customer()

	before, err := f.productSvc.GetProduct(ctx(), "p-phone")
	require.NoError(t, err)
	require.Equal(t, 3, before.Stock)

	fillCart(t, f, s.UserID, "p-phone", "p-phone", "p-phone")
	_, err = f.orderSvc.Checkout(ctx(), s, delivery())
	require.NoError(t, err)

	after, err := f.productSvc.GetProduct(ctx(), "p-phone")
	require.NoError(t, err)
	assert.Equal(t, 0, after.Stock)
	assert.True(t, after.SoldOut())
}
