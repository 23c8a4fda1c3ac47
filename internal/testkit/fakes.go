// Package testkit provides in-memory repository and feed fakes for package
// tests. Fakes record writes and expose per-method error injection so tests
// can drive failure paths without a Spanner emulator.
package testkit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

// FakeProducts implements contracts.ProductRepository over a slice.
type FakeProducts struct {
	mu   sync.Mutex
	Rows []domain.Product

	ListErr        error
	UpdateStockErr error

	// StockWrites records UpdateStock calls by product id.
	StockWrites map[string]float64
}

var _ contracts.ProductRepository = (*FakeProducts)(nil)

func NewFakeProducts(rows ...domain.Product) *FakeProducts {
	return &FakeProducts{Rows: rows, StockWrites: map[string]float64{}}
}

func (f *FakeProducts) List(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]domain.Product, len(f.Rows))
	copy(out, f.Rows)
	return out, nil
}

func (f *FakeProducts) GetByID(_ context.Context, id string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Rows {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (f *FakeProducts) Insert(_ context.Context, p domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rows = append(f.Rows, p)
	return nil
}

func (f *FakeProducts) Update(_ context.Context, p domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rows {
		if f.Rows[i].ID == p.ID {
			f.Rows[i] = p
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (f *FakeProducts) UpdateStock(_ context.Context, id string, stock float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateStockErr != nil {
		return f.UpdateStockErr
	}
	f.StockWrites[id] = stock
	for i := range f.Rows {
		if f.Rows[i].ID == id {
			f.Rows[i].Stock = stock
		}
	}
	return nil
}

func (f *FakeProducts) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rows {
		if f.Rows[i].ID == id {
			f.Rows = append(f.Rows[:i], f.Rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *FakeProducts) ListLowStock(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.Rows {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

// FakeClients implements contracts.ClientRepository.
type FakeClients struct {
	mu   sync.Mutex
	Rows []domain.Client

	InsertErr error
}

var _ contracts.ClientRepository = (*FakeClients)(nil)

func NewFakeClients(rows ...domain.Client) *FakeClients {
	return &FakeClients{Rows: rows}
}

func (f *FakeClients) List(context.Context) ([]domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Client, len(f.Rows))
	copy(out, f.Rows)
	return out, nil
}

func (f *FakeClients) GetByID(_ context.Context, id string) (domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Rows {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Client{}, domain.ErrClientNotFound
}

func (f *FakeClients) FindByFirstName(_ context.Context, name string) (domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Rows {
		if c.FirstName == name {
			return c, nil
		}
	}
	return domain.Client{}, domain.ErrClientNotFound
}

func (f *FakeClients) Insert(_ context.Context, c domain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.Rows = append(f.Rows, c)
	return nil
}

func (f *FakeClients) Update(_ context.Context, c domain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rows {
		if f.Rows[i].ID == c.ID {
			f.Rows[i] = c
			return nil
		}
	}
	return domain.ErrClientNotFound
}

func (f *FakeClients) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rows {
		if f.Rows[i].ID == id {
			f.Rows = append(f.Rows[:i], f.Rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// FakeReadings implements contracts.ReadingRepository.
type FakeReadings struct {
	mu   sync.Mutex
	Rows []domain.Reading

	ListErr         error
	BindErr         error
	MarkConsumedErr error

	// Binds records BindProduct calls reading id -> product id.
	Binds map[string]string

	// Consumed records the last MarkConsumed batch.
	ConsumedIDs    []string
	ConsumedSaleID string
}

var _ contracts.ReadingRepository = (*FakeReadings)(nil)

func NewFakeReadings(rows ...domain.Reading) *FakeReadings {
	return &FakeReadings{Rows: rows, Binds: map[string]string{}}
}

func (f *FakeReadings) ListRecent(_ context.Context, limit int64) ([]domain.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]domain.Reading, len(f.Rows))
	copy(out, f.Rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeReadings) BindProduct(_ context.Context, readingID, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.BindErr != nil {
		return f.BindErr
	}
	f.Binds[readingID] = productID
	for i := range f.Rows {
		if f.Rows[i].ID == readingID {
			f.Rows[i].ProductID = productID
		}
	}
	return nil
}

func (f *FakeReadings) MarkConsumed(_ context.Context, readingIDs []string, saleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MarkConsumedErr != nil {
		return f.MarkConsumedErr
	}
	f.ConsumedIDs = append([]string(nil), readingIDs...)
	f.ConsumedSaleID = saleID
	for i := range f.Rows {
		for _, id := range readingIDs {
			if f.Rows[i].ID == id {
				f.Rows[i].Consumed = true
				f.Rows[i].SaleID = saleID
			}
		}
	}
	return nil
}

func (f *FakeReadings) Insert(_ context.Context, r domain.Reading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rows = append(f.Rows, r)
	return nil
}

func (f *FakeReadings) CountAll(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.Rows)), nil
}

// FakeSales implements contracts.SaleRepository.
type FakeSales struct {
	mu    sync.Mutex
	Rows  []domain.Sale
	Lines []domain.SaleLine

	InsertErr      error
	InsertLinesErr error

	// Deleted records compensating deletes.
	Deleted []string
}

var _ contracts.SaleRepository = (*FakeSales)(nil)

func NewFakeSales() *FakeSales {
	return &FakeSales{}
}

func (f *FakeSales) Insert(_ context.Context, s domain.Sale) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.Rows = append(f.Rows, s)
	return nil
}

func (f *FakeSales) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, id)
	for i := range f.Rows {
		if f.Rows[i].ID == id {
			f.Rows = append(f.Rows[:i], f.Rows[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeSales) InsertLines(_ context.Context, lines []domain.SaleLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertLinesErr != nil {
		return f.InsertLinesErr
	}
	f.Lines = append(f.Lines, lines...)
	return nil
}

func (f *FakeSales) ListRecent(_ context.Context, limit int64) ([]domain.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Sale, len(f.Rows))
	copy(out, f.Rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeSales) TotalsSince(_ context.Context, since time.Time) (int64, decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	total := decimal.Zero
	for _, s := range f.Rows {
		if !s.CreatedAt.Before(since) {
			count++
			total = total.Add(s.Total)
		}
	}
	return count, total, nil
}

// FakeTickets implements contracts.TicketRepository.
type FakeTickets struct {
	mu   sync.Mutex
	Rows []domain.Ticket

	InsertErr error
}

var _ contracts.TicketRepository = (*FakeTickets)(nil)

func NewFakeTickets() *FakeTickets {
	return &FakeTickets{}
}

func (f *FakeTickets) Insert(_ context.Context, t domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.Rows = append(f.Rows, t)
	return nil
}

func (f *FakeTickets) ListRecent(_ context.Context, limit int64) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Ticket, len(f.Rows))
	copy(out, f.Rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeTickets) CountSince(_ context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, t := range f.Rows {
		if !t.IssuedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *FakeTickets) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rows {
		if f.Rows[i].ID == id {
			f.Rows[i].Status = status
			return nil
		}
	}
	return domain.ErrTicketNotFound
}

// FakeFeed implements contracts.ReadingFeed over a buffered channel.
type FakeFeed struct {
	Ch chan contracts.ReadingEvent
}

var _ contracts.ReadingFeed = (*FakeFeed)(nil)

func NewFakeFeed() *FakeFeed {
	return &FakeFeed{Ch: make(chan contracts.ReadingEvent, 32)}
}

func (f *FakeFeed) Subscribe(context.Context) (<-chan contracts.ReadingEvent, error) {
	return f.Ch, nil
}

// Emit pushes one event into the feed.
func (f *FakeFeed) Emit(t contracts.ChangeType, r domain.Reading) {
	f.Ch <- contracts.ReadingEvent{Type: t, Reading: r}
}
