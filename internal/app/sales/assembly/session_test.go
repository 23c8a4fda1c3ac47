package assembly

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/assoc"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/cart"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/catalog"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/commit"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/reconcile"
	"github.com/light-bringer/deli-pos-service/internal/pkg/clock"
	"github.com/light-bringer/deli-pos-service/internal/pkg/logging"
	"github.com/light-bringer/deli-pos-service/internal/testkit"
)

var now = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

type world struct {
	products *testkit.FakeProducts
	clients  *testkit.FakeClients
	readings *testkit.FakeReadings
	sales    *testkit.FakeSales
	tickets  *testkit.FakeTickets
	rec      *reconcile.Reconciler
	clk      *clock.MockClock
	session  *Session
}

func newWorld(t *testing.T) *world {
	t.Helper()
	log := logging.NewNop()
	w := &world{
		products: testkit.NewFakeProducts(domain.Product{
			ID: "p1", Code: "JAM001", Name: "Jamón Crudo",
			Price: decimal.NewFromInt(4500), Unit: domain.UnitKilogram, Stock: 10,
		}),
		clients:  testkit.NewFakeClients(),
		readings: testkit.NewFakeReadings(),
		sales:    testkit.NewFakeSales(),
		tickets:  testkit.NewFakeTickets(),
		clk:      clock.NewMockClock(now),
	}
	cache := catalog.NewCache(w.products, w.clients, log)
	require.NoError(t, cache.Refresh(context.Background()))

	c := cart.New()
	w.rec = reconcile.New(w.readings, testkit.NewFakeFeed(), log)
	engine := assoc.NewEngine(cache, w.readings, c, log)
	committer := commit.NewCommitter(w.clients, w.sales, w.products, w.tickets, w.readings, cache, w.clk, log)
	w.session = NewSession(c, engine, w.rec, committer, cache, w.clk, log)
	return w
}

func TestFullSaleFlow(t *testing.T) {
	w := newWorld(t)

	// A reading lands and the reconciler surfaces it.
	reading := domain.Reading{ID: "r1", Timestamp: now, Weight: 0.5}
	require.NoError(t, w.readings.Insert(context.Background(), reading))
	w.rec.Poll(context.Background())
	_, ok := w.session.Pending()
	require.True(t, ok)

	// The operator associates and commits.
	item, err := w.session.AssociatePending(context.Background(), "JAM")
	require.NoError(t, err)
	assert.Equal(t, "r1", item.ReadingID)
	_, ok = w.session.Pending()
	assert.False(t, ok, "associated reading leaves the signal")

	w.session.SelectPayment(domain.PaymentCash)
	res, err := w.session.Commit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.True(t, res.Sale.Total.Equal(decimal.NewFromInt(2250)))

	// Post-commit the session is ready for the next sale.
	assert.Empty(t, w.session.Items())
	assert.True(t, w.session.Total().Equal(decimal.Zero))
	_, ok = w.session.Pending()
	assert.False(t, ok)

	// The consumed reading's row no longer resurfaces on the next poll.
	w.rec.Poll(context.Background())
	_, ok = w.session.Pending()
	assert.False(t, ok)
	assert.Equal(t, []string{"r1"}, w.readings.ConsumedIDs)
}

func TestAddReadyFromList(t *testing.T) {
	w := newWorld(t)
	bound := domain.Reading{ID: "r2", Timestamp: now, Weight: 0.3, ProductID: "p1"}
	require.NoError(t, w.readings.Insert(context.Background(), bound))
	w.rec.Poll(context.Background())
	require.Len(t, w.session.Ready(), 1)

	item, err := w.session.AddReady("r2")
	require.NoError(t, err)
	assert.Equal(t, 0.3, item.Quantity)
	assert.Empty(t, w.session.Ready(), "folded reading leaves the list")

	_, err = w.session.AddReady("r2")
	require.ErrorIs(t, err, domain.ErrReadingNotFound)
}

func TestAssociateWithoutPending(t *testing.T) {
	w := newWorld(t)
	_, err := w.session.AssociatePending(context.Background(), "JAM")
	require.ErrorIs(t, err, domain.ErrReadingNotFound)
}

func TestAddManualUnknownProduct(t *testing.T) {
	w := newWorld(t)
	_, err := w.session.AddManual("missing", 1, domain.UnitKilogram)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestExpiredSessionRefusesCommit(t *testing.T) {
	w := newWorld(t)
	_, err := w.session.AddManual("p1", 1, domain.UnitKilogram)
	require.NoError(t, err)
	w.session.SelectPayment(domain.PaymentCash)

	w.clk.Advance(DefaultTTL + time.Minute)
	_, err = w.session.Commit(context.Background())
	require.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Empty(t, w.sales.Rows, "no commit attempted")

	w.session.Touch()
	_, err = w.session.Commit(context.Background())
	require.NoError(t, err)
}

func TestCatalogRefreshedBetweenSales(t *testing.T) {
	w := newWorld(t)
	_, err := w.session.AddManual("p1", 2, domain.UnitKilogram)
	require.NoError(t, err)
	w.session.SelectPayment(domain.PaymentDebitCard)

	_, err = w.session.Commit(context.Background())
	require.NoError(t, err)

	// The decrement landed in the store and the refreshed snapshot sees it.
	_, err = w.session.AddManual("p1", 9, domain.UnitKilogram)
	require.ErrorIs(t, err, domain.ErrInsufficientStock, "snapshot stock is now 8")
	_, err = w.session.AddManual("p1", 8, domain.UnitKilogram)
	require.NoError(t, err)
}
