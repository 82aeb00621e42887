package cart

import (
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/paksmart/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, price int64) models.CartItem {
	return models.CartItem{ProductID: id, Name: "product " + id, Price: decimal.NewFromInt(price)}
}

func TestCart_TotalAndItemCount(t *testing.T) {
	c := New()
	c.Add(item("a", 1000))
	c.Add(item("a", 1000))
	c.Add(item("b", 500))

	assert.True(t, decimal.NewFromInt(2500).Equal(c.Total()), "total = %s", c.Total())
	assert.Equal(t, 3, c.ItemCount())
}

func TestCart_AddIgnoresIncomingQuantity(t *testing.T) {
	c := New()
	it := item("a", 10)
	it.Quantity = 7
	c.Add(it)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got.Quantity)
}

func TestCart_UpdateZeroRemoves(t *testing.T) {
	c := New()
	c.Add(item("a", 10))
	c.Add(item("b", 20))

	c.Update("a", 0)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Len(t, c.Items, 1)
}

func TestCart_UpdateNegativeClampsToRemoval(t *testing.T) {
	c := New()
	c.Add(item("a", 10))

	c.Update("a", -3)

	assert.True(t, c.Empty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_UpdateUnknownIsNoop(t *testing.T) {
	c := New()
	c.Add(item("a", 10))

	c.Update("zzz", 4)
	c.Remove("zzz")

	assert.Equal(t, 1, c.ItemCount())
}

func TestCart_UpdateSetsQuantity(t *testing.T) {
	c := New()
	c.Add(item("a", 250))

	c.Update("a", 4)

	assert.Equal(t, 4, c.ItemCount())
	assert.True(t, decimal.NewFromInt(1000).Equal(c.Total()))
}

func TestCart_Clear(t *testing.T) {
	c := New()
	c.Add(item("a", 10))
	c.Clear()

	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.ItemCount())
	assert.NotNil(t, c.Response().Items)
}

// Any sequence of add/update/remove keeps the derived totals consistent with the lines.
func TestCart_TotalsHoldForAnySequence(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	prices := map[string]int64{"a": 1000, "b": 500, "c": 1, "d": 12345}

	property := func(seed int64, steps uint8) bool {
		r := rand.New(rand.NewSource(seed))
		c := New()
		for i := 0; i < int(steps); i++ {
			id := ids[r.Intn(len(ids))]
			switch r.Intn(3) {
			case 0:
				c.Add(item(id, prices[id]))
			case 1:
				c.Update(id, r.Intn(8)-3)
			case 2:
				c.Remove(id)
			}
		}

		wantTotal := decimal.Zero
		wantCount := 0
		for _, it := range c.Items {
			if it.Quantity < 1 {
				return false
			}
			wantTotal = wantTotal.Add(decimal.NewFromInt(prices[it.ProductID] * int64(it.Quantity)))
			wantCount += it.Quantity
		}
		return wantTotal.Equal(c.Total()) && wantCount == c.ItemCount()
	}

	require.NoError(t, quick.Check(property, nil))
}
