package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/paksmart/storefront/internal/cart"
	"github.com/paksmart/storefront/internal/metrics"
	"github.com/paksmart/storefront/internal/models"
	"github.com/paksmart/storefront/internal/storetest"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func product(id, name string, category models.Category, price int64, stock int, age time.Duration) models.Product {
	return models.Product{
		ID:        id,
		Name:      name,
		Price:     decimal.NewFromInt(price),
		Category:  category,
		Stock:     stock,
		CreatedAt: baseTime.Add(-age),
	}
}

func catalog() *storetest.Products {
	earbuds := product("p-earbuds", "Wireless Earbuds", models.CategoryHandsfree, 3500, 5, 1*time.Hour)
	earbuds.Featured = true
	cover := product("p-case", "Silicone Case", models.CategoryAccessories, 800, 10, 2*time.Hour)
	cover.Description = "Fits earbuds and phones"
	return storetest.NewProducts(
		product("p-phone", "Galaxy A15", models.CategoryMobiles, 45000, 3, 0),
		earbuds,
		cover,
		product("p-charger", "20W Charger", models.CategoryChargers, 1500, 0, 3*time.Hour),
	)
}

func newCartStore(t *testing.T) cart.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cart.NewRedisStore(client, time.Hour)
}

type fixture struct {
	products *storetest.Products
	orders   *storetest.Orders
	notifier *storetest.Notifier
	carts    cart.Store

	productSvc *ProductService
	cartSvc    *CartService
	orderSvc   *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := metrics.NewNoopMetrics()
	f := &fixture{
		products: catalog(),
		notifier: &storetest.Notifier{},
		carts:    newCartStore(t),
	}
	f.orders = storetest.NewOrders(f.products)
	cache := NewProductCache()
	f.productSvc = NewProductService(f.products, nil, cache, m)
	f.cartSvc = NewCartService(f.carts, f.products, m)
	f.orderSvc = NewOrderService(f.orders, f.carts, cache, f.notifier, m)
	return f
}

func customer() *models.Session {
	return &models.Session{UserID: "u-customer", Email: "c@example.com", ExpiresAt: baseTime.Add(time.Hour)}
}

func admin() *models.Session {
	return &models.Session{UserID: "u-admin", Email: "a@example.com", IsAdmin: true, ExpiresAt: baseTime.Add(time.Hour)}
}

func delivery() models.DeliveryDetails {
	return models.DeliveryDetails{Name: "Ali", Phone: "03001234567", Address: "House 1", City: "Lahore"}
}

func ctx() context.Context { return context.Background() }
