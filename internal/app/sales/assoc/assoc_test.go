package assoc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/cart"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/catalog"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/pkg/logging"
	"github.com/light-bringer/deli-pos-service/internal/testkit"
)

func newEngine(t *testing.T, readings contracts.ReadingRepository, products ...domain.Product) (*Engine, *cart.Cart) {
	t.Helper()
	cache := catalog.NewCache(testkit.NewFakeProducts(products...), testkit.NewFakeClients(), logging.NewNop())
	require.NoError(t, cache.Refresh(context.Background()))
	c := cart.New()
	return NewEngine(cache, readings, c, logging.NewNop()), c
}

func jamonCrudo(stock float64) domain.Product {
	return domain.Product{
		ID: "p1", Code: "JAM001", Name: "Jamón Crudo",
		Price: decimal.NewFromInt(4500), Unit: domain.UnitKilogram, Stock: stock,
	}
}

func pending(weight float64) domain.Reading {
	return domain.Reading{
		ID:        "r1",
		Timestamp: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
		Weight:    weight,
	}
}

func TestAssociateSuccess(t *testing.T) {
	readings := testkit.NewFakeReadings(pending(0.5))
	engine, c := newEngine(t, readings, jamonCrudo(10))

	item, err := engine.Associate(context.Background(), pending(0.5), "JAM")
	require.NoError(t, err)

	assert.Equal(t, "Jamón Crudo", item.Name)
	assert.Equal(t, 0.5, item.Quantity)
	assert.Equal(t, domain.UnitKilogram, item.Unit)
	assert.True(t, item.Subtotal.Equal(decimal.NewFromInt(2250)), "got %s", item.Subtotal)
	assert.Equal(t, "p1", readings.Binds["r1"], "product id written onto the reading row")
	assert.Equal(t, 1, c.Len())
}

func TestAssociateInsufficientStock(t *testing.T) {
	readings := testkit.NewFakeReadings(pending(0.5))
	engine, c := newEngine(t, readings, jamonCrudo(0.3))

	_, err := engine.Associate(context.Background(), pending(0.5), "JAM")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Zero(t, c.Len(), "no line item added")

	// The bind write is deliberately left in place; the commit path's own
	// checks are the guard.
	assert.Equal(t, "p1", readings.Binds["r1"])
}

func TestAssociateGramBaseStock(t *testing.T) {
	// Stock tracked in grams: a 0.5 kg reading needs 500 g.
	queso := domain.Product{
		ID: "p2", Code: "QUE003", Name: "Queso Provoleta",
		Price: decimal.NewFromFloat(5.2), Unit: domain.UnitGram, Stock: 400,
	}
	readings := testkit.NewFakeReadings(pending(0.5))
	engine, _ := newEngine(t, readings, queso)

	_, err := engine.Associate(context.Background(), pending(0.5), "QUE")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	queso.Stock = 600
	engine2, c := newEngine(t, testkit.NewFakeReadings(pending(0.5)), queso)
	item, err := engine2.Associate(context.Background(), pending(0.5), "QUE")
	require.NoError(t, err)
	// 5.2 per gram is 5200 per kilogram.
	assert.True(t, item.Subtotal.Equal(decimal.NewFromInt(2600)), "got %s", item.Subtotal)
	assert.Equal(t, 1, c.Len())
}

func TestAssociateNoMatch(t *testing.T) {
	readings := testkit.NewFakeReadings(pending(0.5))
	engine, c := newEngine(t, readings, jamonCrudo(10))

	_, err := engine.Associate(context.Background(), pending(0.5), "ZZZ")
	require.ErrorIs(t, err, domain.ErrNoMatchFound)
	assert.Zero(t, c.Len())
	assert.Empty(t, readings.Binds, "no store call for an input error")
}

func TestAssociateConsumedReading(t *testing.T) {
	engine, _ := newEngine(t, testkit.NewFakeReadings(), jamonCrudo(10))
	r := pending(0.5)
	r.Consumed = true
	_, err := engine.Associate(context.Background(), r, "JAM")
	require.ErrorIs(t, err, domain.ErrAlreadyConsumed)
}

// blockingReadings parks BindProduct until released, so a second Associate
// for the same reading overlaps the first.
type blockingReadings struct {
	*testkit.FakeReadings
	entered chan struct{}
	release chan struct{}
}

func (b *blockingReadings) BindProduct(ctx context.Context, readingID, productID string) error {
	close(b.entered)
	<-b.release
	return b.FakeReadings.BindProduct(ctx, readingID, productID)
}

func TestAssociateSingleFlight(t *testing.T) {
	readings := &blockingReadings{
		FakeReadings: testkit.NewFakeReadings(pending(0.5)),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	engine, c := newEngine(t, readings, jamonCrudo(10))

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = engine.Associate(context.Background(), pending(0.5), "JAM")
	}()

	<-readings.entered
	_, err := engine.Associate(context.Background(), pending(0.5), "JAM")
	require.ErrorIs(t, err, domain.ErrAssociationInFlight)

	close(readings.release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, 1, c.Len(), "exactly one line item")
}
