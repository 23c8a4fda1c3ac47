// Package assembly binds the sale assembly components for one operator
// terminal: catalog snapshot, reconciler signal, cart, association engine
// and committer.
package assembly

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/assoc"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/cart"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/catalog"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/commit"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/reconcile"
	"github.com/light-bringer/deli-pos-service/internal/pkg/clock"
)

// DefaultTTL is how long a session may sit idle before commits are refused.
const DefaultTTL = 8 * time.Hour

// Session is the single active sale of one terminal. The cart is owned
// exclusively by the session; the store rows are the only shared resource.
type Session struct {
	ID string

	cart       *cart.Cart
	engine     *assoc.Engine
	reconciler *reconcile.Reconciler
	committer  *commit.Committer
	catalog    *catalog.Cache
	clock      clock.Clock
	log        *logrus.Logger

	mu        sync.Mutex
	clientID  string
	payment   string
	expiresAt time.Time
}

func NewSession(
	c *cart.Cart,
	engine *assoc.Engine,
	reconciler *reconcile.Reconciler,
	committer *commit.Committer,
	cache *catalog.Cache,
	clk clock.Clock,
	log *logrus.Logger,
) *Session {
	return &Session{
		ID:         uuid.NewString(),
		cart:       c,
		engine:     engine,
		reconciler: reconciler,
		committer:  committer,
		catalog:    cache,
		clock:      clk,
		log:        log,
		expiresAt:  clk.Now().Add(DefaultTTL),
	}
}

// Touch extends the session lifetime; called on operator activity.
func (s *Session) Touch() {
	s.mu.Lock()
	s.expiresAt = s.clock.Now().Add(DefaultTTL)
	s.mu.Unlock()
}

func (s *Session) expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Now().After(s.expiresAt)
}

// SelectClient chooses the billing client; empty means walk-in.
func (s *Session) SelectClient(clientID string) {
	s.mu.Lock()
	s.clientID = clientID
	s.mu.Unlock()
}

// SelectPayment chooses the payment method for the commit.
func (s *Session) SelectPayment(method string) {
	s.mu.Lock()
	s.payment = method
	s.mu.Unlock()
}

// Pending returns the reconciler's association target.
func (s *Session) Pending() (domain.Reading, bool) {
	return s.reconciler.Pending()
}

// Ready returns the bound, unconsumed readings awaiting add.
func (s *Session) Ready() []domain.Reading {
	return s.reconciler.Ready()
}

// AddManual looks the product up in the snapshot and appends a typed line.
func (s *Session) AddManual(productID string, qty float64, unit domain.Unit) (domain.CartItem, error) {
	product, ok := s.catalog.Product(productID)
	if !ok {
		return domain.CartItem{}, domain.ErrProductNotFound
	}
	return s.cart.AddManual(product, qty, unit)
}

// AssociatePending resolves the operator's entry against the pending
// reading. On success the reading leaves the local signal; its store row is
// only touched by the bind write.
func (s *Session) AssociatePending(ctx context.Context, query string) (domain.CartItem, error) {
	reading, ok := s.reconciler.Pending()
	if !ok {
		return domain.CartItem{}, domain.ErrReadingNotFound
	}
	item, err := s.engine.Associate(ctx, reading, query)
	if err != nil {
		return domain.CartItem{}, err
	}
	s.reconciler.Drop(reading.ID)
	return item, nil
}

// AddReady folds an already-bound reading from the ready list into the cart.
func (s *Session) AddReady(readingID string) (domain.CartItem, error) {
	var reading domain.Reading
	found := false
	for _, r := range s.reconciler.Ready() {
		if r.ID == readingID {
			reading, found = r, true
			break
		}
	}
	if !found {
		return domain.CartItem{}, domain.ErrReadingNotFound
	}
	product, ok := s.catalog.Product(reading.ProductID)
	if !ok {
		return domain.CartItem{}, domain.ErrProductNotFound
	}
	item, err := s.cart.AddFromReading(reading, product)
	if err != nil {
		return domain.CartItem{}, err
	}
	s.reconciler.Drop(reading.ID)
	return item, nil
}

// RemoveItem drops a line item.
func (s *Session) RemoveItem(itemID string) error {
	return s.cart.Remove(itemID)
}

// Items returns the cart lines.
func (s *Session) Items() []domain.CartItem {
	return s.cart.Items()
}

// Total returns the recomputed cart total.
func (s *Session) Total() decimal.Decimal {
	return s.cart.Total()
}

// Commit persists the cart. After any committed sale, successful or with
// warnings, the cart is cleared, the reconciler re-armed and the catalog
// refreshed for the next sale.
func (s *Session) Commit(ctx context.Context) (commit.Result, error) {
	if s.expired() {
		return commit.Result{}, domain.ErrSessionExpired
	}

	s.mu.Lock()
	clientID, payment := s.clientID, s.payment
	s.mu.Unlock()

	res, err := s.committer.Commit(ctx, commit.Request{
		ClientID:      clientID,
		PaymentMethod: payment,
		Items:         s.cart.Items(),
	})
	if err != nil {
		return commit.Result{}, err
	}

	s.cart.Clear()
	s.reconciler.Rearm()
	if err := s.catalog.Refresh(ctx); err != nil {
		s.log.WithError(err).Warn("catalog refresh after sale failed, snapshot is stale")
	}
	return res, nil
}
