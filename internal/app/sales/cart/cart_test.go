package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

var (
	jamon = domain.Product{
		ID: "p1", Code: "JAM001", Name: "Jamón Crudo",
		Price: decimal.NewFromInt(4500), Unit: domain.UnitKilogram, Stock: 10,
	}
	gaseosa = domain.Product{
		ID: "p2", Code: "GAS001", Name: "Gaseosa",
		Price: decimal.NewFromInt(1500), Unit: domain.UnitPiece, Stock: 24,
	}
)

func unconsumedReading(id string, weight float64) domain.Reading {
	return domain.Reading{
		ID:        id,
		Timestamp: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
		Weight:    weight,
		ProductID: "p1",
	}
}

func TestAddManual(t *testing.T) {
	t.Run("kilogram product", func(t *testing.T) {
		c := New()
		item, err := c.AddManual(jamon, 0.5, domain.UnitKilogram)
		require.NoError(t, err)
		assert.Equal(t, "p1", item.ProductID)
		assert.True(t, item.Subtotal.Equal(decimal.NewFromInt(2250)), "got %s", item.Subtotal)
		assert.True(t, c.Total().Equal(decimal.NewFromInt(2250)))
	})

	t.Run("gram entry against kilogram stock", func(t *testing.T) {
		c := New()
		item, err := c.AddManual(jamon, 250, domain.UnitGram)
		require.NoError(t, err)
		// 4500/kg is 4.5 per gram; 250 g is 1125.
		assert.True(t, item.Subtotal.Equal(decimal.NewFromInt(1125)), "got %s", item.Subtotal)
	})

	t.Run("zero and negative quantity", func(t *testing.T) {
		c := New()
		_, err := c.AddManual(jamon, 0, domain.UnitKilogram)
		require.ErrorIs(t, err, domain.ErrInvalidQuantity)
		_, err = c.AddManual(jamon, -1, domain.UnitKilogram)
		require.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.Zero(t, c.Len())
	})

	t.Run("piece quantity cannot be weighed", func(t *testing.T) {
		c := New()
		_, err := c.AddManual(gaseosa, 0.5, domain.UnitKilogram)
		require.ErrorIs(t, err, domain.ErrUnitMismatch)
	})

	t.Run("stock counts what the cart already holds", func(t *testing.T) {
		c := New()
		_, err := c.AddManual(jamon, 6, domain.UnitKilogram)
		require.NoError(t, err)
		_, err = c.AddManual(jamon, 5, domain.UnitKilogram)
		require.ErrorIs(t, err, domain.ErrInsufficientStock)
		// 6 kg in cart + 3999 g requested = 9.999 kg, still inside 10.
		_, err = c.AddManual(jamon, 3999, domain.UnitGram)
		require.NoError(t, err)
	})
}

func TestAddFromReading(t *testing.T) {
	t.Run("weight becomes quantity in kilograms", func(t *testing.T) {
		c := New()
		item, err := c.AddFromReading(unconsumedReading("r1", 0.5), jamon)
		require.NoError(t, err)
		assert.Equal(t, domain.UnitKilogram, item.Unit)
		assert.Equal(t, 0.5, item.Quantity)
		assert.Equal(t, "r1", item.ReadingID)
		assert.True(t, item.Subtotal.Equal(decimal.NewFromInt(2250)))
	})

	t.Run("consumed reading rejected", func(t *testing.T) {
		c := New()
		r := unconsumedReading("r1", 0.5)
		r.Consumed = true
		_, err := c.AddFromReading(r, jamon)
		require.ErrorIs(t, err, domain.ErrAlreadyConsumed)

		r = unconsumedReading("r2", 0.5)
		r.SaleID = "s1"
		_, err = c.AddFromReading(r, jamon)
		require.ErrorIs(t, err, domain.ErrAlreadyConsumed)
	})

	t.Run("same reading twice", func(t *testing.T) {
		c := New()
		_, err := c.AddFromReading(unconsumedReading("r1", 0.5), jamon)
		require.NoError(t, err)
		_, err = c.AddFromReading(unconsumedReading("r1", 0.5), jamon)
		require.ErrorIs(t, err, domain.ErrDuplicateInCart)
	})

	t.Run("second weighed item rejected", func(t *testing.T) {
		c := New()
		_, err := c.AddFromReading(unconsumedReading("r1", 0.5), jamon)
		require.NoError(t, err)
		_, err = c.AddFromReading(unconsumedReading("r2", 0.3), jamon)
		require.ErrorIs(t, err, domain.ErrTooManyWeighedItems)
		assert.Equal(t, 1, c.Len(), "cart unchanged")
	})

	t.Run("piece product is not weighable", func(t *testing.T) {
		c := New()
		r := unconsumedReading("r1", 0.5)
		r.ProductID = "p2"
		_, err := c.AddFromReading(r, gaseosa)
		require.ErrorIs(t, err, domain.ErrNotWeighable)
	})
}

func TestRemoveFreesWeighedSlot(t *testing.T) {
	c := New()
	item, err := c.AddFromReading(unconsumedReading("r1", 0.5), jamon)
	require.NoError(t, err)

	require.NoError(t, c.Remove(item.ID))
	assert.Zero(t, c.Len())
	assert.True(t, c.Total().Equal(decimal.Zero))

	_, err = c.AddFromReading(unconsumedReading("r2", 0.3), jamon)
	require.NoError(t, err, "removing the weighed item frees the slot")

	require.ErrorIs(t, c.Remove("missing"), domain.ErrCartItemNotFound)
}

func TestTotalRecomputed(t *testing.T) {
	c := New()
	a, err := c.AddManual(jamon, 1, domain.UnitKilogram)
	require.NoError(t, err)
	_, err = c.AddManual(gaseosa, 2, domain.UnitPiece)
	require.NoError(t, err)
	assert.True(t, c.Total().Equal(decimal.NewFromInt(7500)))

	require.NoError(t, c.Remove(a.ID))
	assert.True(t, c.Total().Equal(decimal.NewFromInt(3000)))
}
