package contracts

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

// The repositories below are deliberately single-row (or single-batch)
// operations. The store offers no cross-row transaction to the commit
// sequence; the committer's ordering and compensation policy is the only
// multi-row consistency mechanism.

// ProductRepository persists the products relation.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (domain.Product, error)
	Insert(ctx context.Context, p domain.Product) error
	Update(ctx context.Context, p domain.Product) error

	// UpdateStock overwrites the stock column only. Callers are expected to
	// have clamped the value at zero.
	UpdateStock(ctx context.Context, id string, stock float64) error
	Delete(ctx context.Context, id string) error
	ListLowStock(ctx context.Context) ([]domain.Product, error)
}

// CategoryRepository persists the categories relation.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Insert(ctx context.Context, c domain.Category) error
	Update(ctx context.Context, c domain.Category) error
	Delete(ctx context.Context, id string) error
}

// ClientRepository persists the clients relation.
type ClientRepository interface {
	List(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id string) (domain.Client, error)

	// FindByFirstName is the idempotent lookup used to resolve the walk-in
	// sentinel before inserting a duplicate.
	FindByFirstName(ctx context.Context, name string) (domain.Client, error)
	Insert(ctx context.Context, c domain.Client) error
	Update(ctx context.Context, c domain.Client) error
	Delete(ctx context.Context, id string) error
}

// ReadingRepository persists the readings relation.
type ReadingRepository interface {
	// ListRecent returns the most recent readings, newest first.
	ListRecent(ctx context.Context, limit int64) ([]domain.Reading, error)

	// BindProduct writes the product id onto the reading row. It is not the
	// consumption guard; the committer's own checks are.
	BindProduct(ctx context.Context, readingID, productID string) error

	// MarkConsumed flags every given reading as consumed by saleID in a
	// single batched update.
	MarkConsumed(ctx context.Context, readingIDs []string, saleID string) error
	Insert(ctx context.Context, r domain.Reading) error
	CountAll(ctx context.Context) (int64, error)
}

// SaleRepository persists the sales and sale_line_items relations.
type SaleRepository interface {
	Insert(ctx context.Context, s domain.Sale) error

	// Delete removes a sale row; the committer's compensation for a failed
	// line item insert.
	Delete(ctx context.Context, id string) error
	InsertLines(ctx context.Context, lines []domain.SaleLine) error
	ListRecent(ctx context.Context, limit int64) ([]domain.Sale, error)
	TotalsSince(ctx context.Context, since time.Time) (int64, decimal.Decimal, error)
}

// TicketRepository persists the tickets relation.
type TicketRepository interface {
	Insert(ctx context.Context, t domain.Ticket) error
	ListRecent(ctx context.Context, limit int64) ([]domain.Ticket, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error
}
