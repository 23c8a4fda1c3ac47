package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/assembly"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/assoc"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/cart"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/catalog"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/commit"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/queries"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/reconcile"
	"github.com/light-bringer/deli-pos-service/internal/pkg/clock"
	"github.com/light-bringer/deli-pos-service/internal/pkg/logging"
	"github.com/light-bringer/deli-pos-service/internal/testkit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	router   *gin.Engine
	readings *testkit.FakeReadings
	sales    *testkit.FakeSales
	rec      *reconcile.Reconciler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logging.NewNop()
	now := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	products := testkit.NewFakeProducts(domain.Product{
		ID: "p1", Code: "JAM001", Name: "Jamón Crudo",
		Price: decimal.NewFromInt(4500), Unit: domain.UnitKilogram, Stock: 10,
	})
	clients := testkit.NewFakeClients()
	readings := testkit.NewFakeReadings()
	sales := testkit.NewFakeSales()
	tickets := testkit.NewFakeTickets()
	categories := testkit.NewFakeCategories()

	cache := catalog.NewCache(products, clients, log)
	require.NoError(t, cache.Refresh(context.Background()))

	c := cart.New()
	rec := reconcile.New(readings, testkit.NewFakeFeed(), log)
	engine := assoc.NewEngine(cache, readings, c, log)
	clk := clock.NewMockClock(now)
	committer := commit.NewCommitter(clients, sales, products, tickets, readings, cache, clk, log)
	session := assembly.NewSession(c, engine, rec, committer, cache, clk, log)
	dashboard := queries.NewDashboard(products, sales, tickets, clk)

	srv := NewServer(products, categories, clients, readings, tickets, dashboard, session, log)
	return &harness{router: srv.Router(), readings: readings, sales: sales, rec: rec}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestProductCRUD(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/api/v1/products", gin.H{
		"code": "SAL002", "name": "Salame Milano", "unit": "kg",
		"price": "3800", "stock": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)

	w = h.do(t, http.MethodPost, "/api/v1/products", gin.H{
		"code": "X", "name": "X", "unit": "cajas",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown unit rejected")
}

func TestAssemblyFlowOverHTTP(t *testing.T) {
	h := newHarness(t)

	reading := domain.Reading{ID: "r1", Timestamp: time.Now(), Weight: 0.5}
	require.NoError(t, h.readings.Insert(context.Background(), reading))
	h.rec.Poll(context.Background())

	w := h.do(t, http.MethodGet, "/api/v1/assembly/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "r1")

	w = h.do(t, http.MethodPost, "/api/v1/assembly/associate", gin.H{"query": "JAM"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, http.MethodPost, "/api/v1/assembly/associate", gin.H{"query": "JAM"})
	assert.Equal(t, http.StatusNotFound, w.Code, "no pending reading left")

	w = h.do(t, http.MethodPut, "/api/v1/assembly/payment", gin.H{"method": domain.PaymentCash})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = h.do(t, http.MethodPost, "/api/v1/assembly/commit", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Len(t, h.sales.Rows, 1)

	w = h.do(t, http.MethodPost, "/api/v1/assembly/commit", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart after commit")
}

func TestErrorMapping(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/api/v1/assembly/items", gin.H{
		"product_id": "missing", "quantity": 1, "unit": "kg",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodPost, "/api/v1/assembly/items", gin.H{
		"product_id": "p1", "quantity": -1, "unit": "kg",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPost, "/api/v1/assembly/items", gin.H{
		"product_id": "p1", "quantity": 99, "unit": "kg",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
