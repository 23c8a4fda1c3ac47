package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

func fixtureProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Code: "JAM001", Name: "Jamón Crudo", Price: decimal.NewFromInt(4500), Unit: domain.UnitKilogram, Stock: 10},
		{ID: "p2", Code: "JAM002", Name: "Jamón Cocido", Price: decimal.NewFromInt(3200), Unit: domain.UnitKilogram, Stock: 8},
		{ID: "p3", Code: "SAL002", Name: "Salame Milano", Price: decimal.NewFromInt(3800), Unit: domain.UnitKilogram, Stock: 5},
		{ID: "p4", Code: "QUE003", Name: "Queso Provoleta", Price: decimal.NewFromInt(5200), Unit: domain.UnitKilogram, Stock: 6},
		{ID: "p5", Code: "MOR004", Name: "Mortadela con Jamón", Price: decimal.NewFromInt(2400), Unit: domain.UnitKilogram, Stock: 12},
	}
}

func TestBestMatch(t *testing.T) {
	products := fixtureProducts()

	t.Run("exact code beats prefix", func(t *testing.T) {
		got, err := bestMatch(products, "JAM001")
		require.NoError(t, err)
		assert.Equal(t, "p1", got.ID)
	})

	t.Run("code prefix catalog order tie break", func(t *testing.T) {
		got, err := bestMatch(products, "JAM")
		require.NoError(t, err)
		assert.Equal(t, "p1", got.ID)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got, err := bestMatch(products, "jam001")
		require.NoError(t, err)
		assert.Equal(t, "p1", got.ID)
	})

	t.Run("code contains beats name contains", func(t *testing.T) {
		// "AL" occurs inside SAL002's code and nowhere as a code prefix.
		got, err := bestMatch(products, "AL")
		require.NoError(t, err)
		assert.Equal(t, "p3", got.ID)
	})

	t.Run("name substring as last tier", func(t *testing.T) {
		got, err := bestMatch(products, "provo")
		require.NoError(t, err)
		assert.Equal(t, "p4", got.ID)
	})

	t.Run("earlier name position wins", func(t *testing.T) {
		// "Jamón" is at position 0 in p1/p2's names and later in p5's.
		got, err := bestMatch(products, "jamó")
		require.NoError(t, err)
		assert.Equal(t, "p1", got.ID)
	})

	t.Run("no match above floor", func(t *testing.T) {
		_, err := bestMatch(products, "ZZZ")
		require.ErrorIs(t, err, domain.ErrNoMatchFound)
	})

	t.Run("blank query rejected", func(t *testing.T) {
		_, err := bestMatch(products, "   ")
		require.ErrorIs(t, err, domain.ErrNoMatchFound)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		first, err := bestMatch(products, "QUE")
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			got, err := bestMatch(products, "QUE")
			require.NoError(t, err)
			assert.Equal(t, first.ID, got.ID)
		}
	})
}

func TestShorterCodePreferredOnPrefix(t *testing.T) {
	products := []domain.Product{
		{ID: "long", Code: "AB1234", Name: "Long"},
		{ID: "short", Code: "AB12", Name: "Short"},
	}
	got, err := bestMatch(products, "AB1")
	require.NoError(t, err)
	assert.Equal(t, "short", got.ID)
}
