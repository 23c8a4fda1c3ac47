// Package commit persists a cart as a sale. The store offers no cross-row
// transaction, so the committer defines the ordering and compensation
// policy itself: sale before line items, delete the sale if its items fail,
// and everything after that is best-effort with warnings.
package commit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/catalog"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/pkg/clock"
)

// State is the per-attempt lifecycle. Aborted is only reachable from sale
// or line item insert failure; later failures still end in Committed.
type State string

const (
	StateIdle       State = "idle"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
	StateAborted    State = "aborted"
)

// Request is one commit attempt. An empty ClientID resolves the walk-in
// sentinel client.
type Request struct {
	ClientID      string
	PaymentMethod string
	Items         []domain.CartItem
}

// Result reports a committed sale. Warnings carry the non-fatal failures of
// the stock, ticket and reading-consumption steps.
type Result struct {
	Sale     domain.Sale
	Ticket   domain.Ticket
	Warnings []string
}

// Committer runs the commit sequence. A single-flight latch makes the
// double-click a no-op while an attempt is in flight.
type Committer struct {
	clients  contracts.ClientRepository
	sales    contracts.SaleRepository
	products contracts.ProductRepository
	tickets  contracts.TicketRepository
	readings contracts.ReadingRepository
	catalog  *catalog.Cache
	clock    clock.Clock
	log      *logrus.Logger

	mu         sync.Mutex
	processing bool
	state      State
}

func NewCommitter(
	clients contracts.ClientRepository,
	sales contracts.SaleRepository,
	products contracts.ProductRepository,
	tickets contracts.TicketRepository,
	readings contracts.ReadingRepository,
	cache *catalog.Cache,
	clk clock.Clock,
	log *logrus.Logger,
) *Committer {
	return &Committer{
		clients:  clients,
		sales:    sales,
		products: products,
		tickets:  tickets,
		readings: readings,
		catalog:  cache,
		clock:    clk,
		log:      log,
		state:    StateIdle,
	}
}

// State returns the lifecycle state of the last attempt.
func (c *Committer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Commit runs the full sequence. Once the line items are in, the sale is
// committed: stock, ticket and reading consumption run concurrently and
// their failures come back as warnings, not errors.
func (c *Committer) Commit(ctx context.Context, req Request) (Result, error) {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return Result{}, domain.ErrCommitInFlight
	}
	c.processing = true
	c.state = StateCommitting
	c.mu.Unlock()

	res, err := c.run(ctx, req)

	c.mu.Lock()
	c.processing = false
	if err != nil {
		c.state = StateAborted
	} else {
		c.state = StateCommitted
	}
	c.mu.Unlock()
	return res, err
}

func (c *Committer) run(ctx context.Context, req Request) (Result, error) {
	if len(req.Items) == 0 {
		return Result{}, domain.ErrEmptyCart
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return Result{}, domain.ErrInvalidQuantity
		}
	}
	if !validPayment(req.PaymentMethod) {
		return Result{}, domain.ErrNoPaymentMethod
	}

	clientID, err := c.resolveClient(ctx, req.ClientID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve billing client: %w", err)
	}

	total := decimal.Zero
	for _, it := range req.Items {
		total = total.Add(it.Subtotal)
	}

	now := c.clock.Now()
	sale := domain.Sale{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.SaleCompleted,
		CreatedAt:     now,
	}
	if err := c.sales.Insert(ctx, sale); err != nil {
		c.log.WithError(err).Error("sale insert failed")
		return Result{}, fmt.Errorf("%w: %v", domain.ErrSaleCreateFailed, err)
	}

	lines := make([]domain.SaleLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = domain.SaleLine{
			SaleID:    sale.ID,
			LineNo:    int64(i + 1),
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		}
	}
	if err := c.sales.InsertLines(ctx, lines); err != nil {
		// The sale must not exist without its items.
		if delErr := c.sales.Delete(ctx, sale.ID); delErr != nil {
			c.log.WithError(delErr).WithField("sale", sale.ID).Error("compensating sale delete failed")
		}
		c.log.WithError(err).WithField("sale", sale.ID).Error("line item insert failed, sale deleted")
		return Result{}, fmt.Errorf("%w: %v", domain.ErrLineItemsFailed, err)
	}

	// The sale is committed from here on. The remaining steps touch
	// independent resources and run concurrently; failures are warnings.
	var (
		wg       sync.WaitGroup
		warnMu   sync.Mutex
		warnings []string
		ticket   domain.Ticket
	)
	warn := func(step string, err error) {
		c.log.WithError(err).WithField("sale", sale.ID).Warnf("%s failed after commit", step)
		warnMu.Lock()
		warnings = append(warnings, fmt.Sprintf("%s: %v", step, err))
		warnMu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		c.decrementStock(ctx, req.Items, warn)
	}()
	go func() {
		defer wg.Done()
		t := domain.Ticket{
			ID:       uuid.NewString(),
			SaleID:   sale.ID,
			Number:   ticketNumber(now),
			IssuedAt: now,
			Status:   domain.TicketIssued,
		}
		if err := c.tickets.Insert(ctx, t); err != nil {
			warn("ticket insert", err)
			return
		}
		warnMu.Lock()
		ticket = t
		warnMu.Unlock()
	}()
	go func() {
		defer wg.Done()
		var ids []string
		for _, it := range req.Items {
			if it.Weighed() {
				ids = append(ids, it.ReadingID)
			}
		}
		if len(ids) == 0 {
			return
		}
		if err := c.readings.MarkConsumed(ctx, ids, sale.ID); err != nil {
			warn("reading consumption", err)
		}
	}()
	wg.Wait()

	c.log.WithFields(logrus.Fields{
		"sale":     sale.ID,
		"total":    total.String(),
		"warnings": len(warnings),
	}).Info("sale committed")
	return Result{Sale: sale, Ticket: ticket, Warnings: warnings}, nil
}

// resolveClient returns the explicit client or resolves-or-creates the
// walk-in sentinel. The lookup before insert keeps concurrent sales from
// stacking duplicate sentinel rows.
func (c *Committer) resolveClient(ctx context.Context, clientID string) (string, error) {
	if clientID != "" {
		return clientID, nil
	}
	existing, err := c.clients.FindByFirstName(ctx, domain.WalkInClientName)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrClientNotFound) {
		return "", err
	}
	sentinel := domain.Client{
		ID:        uuid.NewString(),
		FirstName: domain.WalkInClientName,
		Kind:      "consumidor_final",
	}
	if err := c.clients.Insert(ctx, sentinel); err != nil {
		return "", err
	}
	return sentinel.ID, nil
}

// decrementStock applies one net decrement per distinct product, clamped at
// zero. Quantities convert to the product's base unit first, so two lines
// of the same product never double-count.
func (c *Committer) decrementStock(ctx context.Context, items []domain.CartItem, warn func(string, error)) {
	net := map[string]float64{}
	order := make([]string, 0, len(items))
	for _, it := range items {
		product, ok := c.catalog.Product(it.ProductID)
		if !ok {
			warn("stock update", fmt.Errorf("product %s: %w", it.ProductID, domain.ErrProductNotFound))
			continue
		}
		q, err := domain.ConvertQuantity(it.Quantity, it.Unit, product.Unit)
		if err != nil {
			warn("stock update", fmt.Errorf("product %s: %w", it.ProductID, err))
			continue
		}
		if _, seen := net[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		net[it.ProductID] += q
	}

	for _, id := range order {
		product, _ := c.catalog.Product(id)
		stock := product.Stock - net[id]
		if stock < 0 {
			stock = 0
		}
		if err := c.products.UpdateStock(ctx, id, stock); err != nil {
			warn("stock update", fmt.Errorf("product %s: %w", id, err))
		}
	}
}

func validPayment(method string) bool {
	switch method {
	case domain.PaymentCash, domain.PaymentDebitCard, domain.PaymentCreditCard, domain.PaymentTransfer:
		return true
	}
	return false
}

// ticketNumber is collision-tolerant rather than sequential.
func ticketNumber(now time.Time) string {
	return fmt.Sprintf("T%d%04d", now.UnixMilli(), rand.IntN(10000))
}
