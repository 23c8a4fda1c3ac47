package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a typed row of the products relation. Price is per base Unit
// and Stock is tracked in the base Unit.
type Product struct {
	ID          string
	Code        string
	Name        string
	CategoryID  string
	Description string
	Price       decimal.Decimal
	Unit        Unit
	Stock       float64
	MinStock    float64
}

// LowStock reports whether the product is at or below its minimum threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// Category is a typed row of the categories relation.
type Category struct {
	ID   string
	Name string
}

// Client is a typed row of the clients relation.
type Client struct {
	ID             string
	FirstName      string
	LastName       string
	DocumentType   string
	DocumentNumber string
	Phone          string
	Email          string
	Address        string
	Kind           string
}

// WalkInClientName is the sentinel record used when the operator does not
// select a client.
const WalkInClientName = "Consumidor Final"

// Reading is a typed row of the readings relation: one scale measurement,
// always in kilograms, optionally bound to a product.
type Reading struct {
	ID        string
	Timestamp time.Time
	Weight    float64
	ProductID string // empty until associated
	Consumed  bool
	SaleID    string // set when folded into a sale
}

// Unconsumed reports whether the reading may still be folded into a sale.
func (r Reading) Unconsumed() bool {
	return !r.Consumed && r.SaleID == ""
}

// Bound reports whether a product has been associated with the reading.
func (r Reading) Bound() bool {
	return r.ProductID != ""
}

// Payment methods accepted at the counter.
const (
	PaymentCash       = "efectivo"
	PaymentDebitCard  = "tarjeta_debito"
	PaymentCreditCard = "tarjeta_credito"
	PaymentTransfer   = "transferencia"
)

// Sale statuses.
const (
	SaleCompleted = "completada"
	SaleCancelled = "cancelada"
)

// Sale is a typed row of the sales relation.
type Sale struct {
	ID            string
	ClientID      string
	Total         decimal.Decimal
	PaymentMethod string
	Status        string
	CreatedAt     time.Time
}

// SaleLine is a typed row of the sale_line_items relation, the persisted
// projection of a cart item.
type SaleLine struct {
	SaleID    string
	LineNo    int64
	ProductID string
	Quantity  float64
	Unit      Unit
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// TicketStatus is the receipt lifecycle state.
type TicketStatus string

const (
	TicketIssued  TicketStatus = "emitido"
	TicketPrinted TicketStatus = "impreso"
	TicketSent    TicketStatus = "enviado"
)

// Ticket is a typed row of the tickets relation.
type Ticket struct {
	ID       string
	SaleID   string
	Number   string
	IssuedAt time.Time
	Status   TicketStatus
}

// CartItem is ephemeral, session-local state: one line of the in-progress
// sale. ReadingID is empty for manual entries and set for weight-derived
// items.
type CartItem struct {
	ID        string
	ProductID string
	Name      string
	Quantity  float64
	Unit      Unit
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	ReadingID string
}

// Weighed reports whether the item's quantity came off the scale.
func (it CartItem) Weighed() bool {
	return it.ReadingID != ""
}
