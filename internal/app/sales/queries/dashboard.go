// Package queries holds the read-only projections behind the dashboard.
package queries

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/pkg/clock"
)

// Stats is the counter dashboard snapshot.
type Stats struct {
	TodaySales   int64           `json:"today_sales"`
	TodayRevenue decimal.Decimal `json:"today_revenue"`
	TodayTickets int64           `json:"today_tickets"`
	LowStock     []domain.Product `json:"low_stock"`
}

// Dashboard aggregates today's totals and the low stock list.
type Dashboard struct {
	products contracts.ProductRepository
	sales    contracts.SaleRepository
	tickets  contracts.TicketRepository
	clock    clock.Clock
}

func NewDashboard(
	products contracts.ProductRepository,
	sales contracts.SaleRepository,
	tickets contracts.TicketRepository,
	clk clock.Clock,
) *Dashboard {
	return &Dashboard{products: products, sales: sales, tickets: tickets, clock: clk}
}

// Stats computes the snapshot. "Today" starts at local midnight.
func (d *Dashboard) Stats(ctx context.Context) (Stats, error) {
	now := d.clock.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	count, revenue, err := d.sales.TotalsSince(ctx, midnight)
	if err != nil {
		return Stats{}, err
	}
	ticketCount, err := d.tickets.CountSince(ctx, midnight)
	if err != nil {
		return Stats{}, err
	}
	low, err := d.products.ListLowStock(ctx)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TodaySales:   count,
		TodayRevenue: revenue,
		TodayTickets: ticketCount,
		LowStock:     low,
	}, nil
}

// RecentSales lists the latest sales, newest first.
func (d *Dashboard) RecentSales(ctx context.Context, limit int64) ([]domain.Sale, error) {
	return d.sales.ListRecent(ctx, limit)
}

// RecentTickets lists the latest tickets, newest first.
func (d *Dashboard) RecentTickets(ctx context.Context, limit int64) ([]domain.Ticket, error) {
	return d.tickets.ListRecent(ctx, limit)
}
