// Package cart maintains the ephemeral line items of the in-progress sale.
// A cart is owned by a single session; the mutex only guards against
// overlapping handler invocations of that one session.
package cart

import (
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

// Cart assembles line items. Stock checks compare against cached stock only;
// commit-time state is re-validated by the committer.
type Cart struct {
	mu    sync.Mutex
	items []domain.CartItem
}

func New() *Cart {
	return &Cart{}
}

// AddManual appends a typed-in line item. The quantity is converted to the
// product's base unit for the stock comparison, counting what the cart
// already holds of the same product.
func (c *Cart) AddManual(p domain.Product, qty float64, unit domain.Unit) (domain.CartItem, error) {
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		return domain.CartItem{}, domain.ErrInvalidQuantity
	}
	if !unit.CompatibleWith(p.Unit) {
		return domain.CartItem{}, domain.ErrUnitMismatch
	}

	baseQty, err := domain.ConvertQuantity(qty, unit, p.Unit)
	if err != nil {
		return domain.CartItem{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if baseQty+c.baseQuantityOfLocked(p) > p.Stock {
		return domain.CartItem{}, domain.ErrInsufficientStock
	}

	unitPrice, err := domain.ConvertPrice(p.Price, p.Unit, unit)
	if err != nil {
		return domain.CartItem{}, err
	}

	item := domain.CartItem{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  qty,
		Unit:      unit,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromFloat(qty)),
	}
	c.items = append(c.items, item)
	return item, nil
}

// AddFromReading appends the weight-derived line item for an associated
// reading. At most one weighed item may exist per cart.
func (c *Cart) AddFromReading(r domain.Reading, p domain.Product) (domain.CartItem, error) {
	if !r.Unconsumed() {
		return domain.CartItem{}, domain.ErrAlreadyConsumed
	}
	if !p.Unit.Weighable() {
		return domain.CartItem{}, domain.ErrNotWeighable
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range c.items {
		if it.ReadingID == r.ID {
			return domain.CartItem{}, domain.ErrDuplicateInCart
		}
		if it.Weighed() {
			return domain.CartItem{}, domain.ErrTooManyWeighedItems
		}
	}

	// Readings are always kilograms.
	unitPrice, err := domain.ConvertPrice(p.Price, p.Unit, domain.UnitKilogram)
	if err != nil {
		return domain.CartItem{}, err
	}

	item := domain.CartItem{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  r.Weight,
		Unit:      domain.UnitKilogram,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromFloat(r.Weight)),
		ReadingID: r.ID,
	}
	c.items = append(c.items, item)
	return item, nil
}

// Remove deletes a line item by id, freeing the weighed slot if the item
// held it.
func (c *Cart) Remove(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrCartItemNotFound
}

// Items returns a copy of the current line items in insertion order.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total recomputes the sum of subtotals on every call; there is no cached
// total to go stale.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// BaseQuantityOf sums the cart's quantity of a product in its base unit.
func (c *Cart) BaseQuantityOf(p domain.Product) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.baseQuantityOfLocked(p)
}

func (c *Cart) baseQuantityOfLocked(p domain.Product) float64 {
	var sum float64
	for _, it := range c.items {
		if it.ProductID != p.ID {
			continue
		}
		q, err := domain.ConvertQuantity(it.Quantity, it.Unit, p.Unit)
		if err != nil {
			continue
		}
		sum += q
	}
	return sum
}
