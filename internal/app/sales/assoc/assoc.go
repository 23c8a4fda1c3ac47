// Package assoc resolves an operator's free-text entry to one product and
// binds it to a pending reading.
package assoc

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/cart"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/catalog"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

// Engine performs reading→product association. One association may be in
// flight per reading id; a second Enter keypress while the first store call
// is pending is rejected, not queued.
type Engine struct {
	catalog  *catalog.Cache
	readings contracts.ReadingRepository
	cart     *cart.Cart
	log      *logrus.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewEngine(cache *catalog.Cache, readings contracts.ReadingRepository, c *cart.Cart, log *logrus.Logger) *Engine {
	return &Engine{
		catalog:  cache,
		readings: readings,
		cart:     c,
		log:      log,
		inFlight: map[string]struct{}{},
	}
}

// Associate resolves query against the catalog snapshot, binds the matched
// product onto the reading row, and appends the weight-derived line item.
//
// The bind write happens before the stock check and is not rolled back when
// the check fails; the committer's own consumption checks are the true
// guard, and a bound-but-unfunded reading simply stays out of the cart.
func (e *Engine) Associate(ctx context.Context, reading domain.Reading, query string) (domain.CartItem, error) {
	if !reading.Unconsumed() {
		return domain.CartItem{}, domain.ErrAlreadyConsumed
	}

	e.mu.Lock()
	if _, busy := e.inFlight[reading.ID]; busy {
		e.mu.Unlock()
		return domain.CartItem{}, domain.ErrAssociationInFlight
	}
	e.inFlight[reading.ID] = struct{}{}
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.inFlight, reading.ID)
		e.mu.Unlock()
	}()

	product, err := e.catalog.Match(query)
	if err != nil {
		return domain.CartItem{}, err
	}
	if !product.Unit.Weighable() {
		return domain.CartItem{}, domain.ErrNotWeighable
	}

	if err := e.readings.BindProduct(ctx, reading.ID, product.ID); err != nil {
		return domain.CartItem{}, err
	}

	// The reading's weight is kilograms; required stock is expressed in the
	// product's base unit.
	required, err := domain.ConvertQuantity(reading.Weight, domain.UnitKilogram, product.Unit)
	if err != nil {
		return domain.CartItem{}, err
	}
	if required+e.cart.BaseQuantityOf(product) > product.Stock {
		e.log.WithFields(logrus.Fields{
			"reading": reading.ID,
			"product": product.ID,
			"needed":  required,
			"stock":   product.Stock,
		}).Info("association rejected for stock")
		return domain.CartItem{}, domain.ErrInsufficientStock
	}

	reading.ProductID = product.ID
	item, err := e.cart.AddFromReading(reading, product)
	if err != nil {
		return domain.CartItem{}, err
	}

	e.log.WithFields(logrus.Fields{
		"reading": reading.ID,
		"product": product.ID,
		"weight":  reading.Weight,
	}).Info("reading associated")
	return item, nil
}
