package repo

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/models/m_sale_items"
	"github.com/light-bringer/deli-pos-service/internal/models/m_sales"
	"github.com/light-bringer/deli-pos-service/internal/pkg/query"
)

// SaleRepo implements SaleRepository for Spanner.
type SaleRepo struct {
	client    *spanner.Client
	model     *m_sales.Model
	lineModel *m_sale_items.Model
}

// NewSaleRepo creates a new SaleRepo.
func NewSaleRepo(client *spanner.Client) contracts.SaleRepository {
	return &SaleRepo{
		client:    client,
		model:     m_sales.NewModel(),
		lineModel: m_sale_items.NewModel(),
	}
}

// Insert writes the sale row. Line items are a separate call on purpose:
// the commit sequence owns the ordering and the compensation policy.
func (r *SaleRepo) Insert(ctx context.Context, s domain.Sale) error {
	data := &m_sales.Data{
		SaleID:        s.ID,
		ClientID:      s.ClientID,
		Total:         decimalToRat(s.Total),
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
	}
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.InsertMut(data)}); err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

// Delete removes a sale row; line items interleaved under it cascade.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.DeleteMut(id)}); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return nil
}

// InsertLines writes all line items for a sale in one batched apply.
func (r *SaleRepo) InsertLines(ctx context.Context, lines []domain.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}

	muts := make([]*spanner.Mutation, 0, len(lines))
	for _, line := range lines {
		muts = append(muts, r.lineModel.InsertMut(&m_sale_items.Data{
			SaleID:    line.SaleID,
			LineNo:    line.LineNo,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Unit:      string(line.Unit),
			UnitPrice: decimalToRat(line.UnitPrice),
			Subtotal:  decimalToRat(line.Subtotal),
		}))
	}
	if _, err := r.client.Apply(ctx, muts); err != nil {
		return fmt.Errorf("failed to insert sale line items: %w", err)
	}
	return nil
}

// ListRecent returns the most recent sales, newest first.
func (r *SaleRepo) ListRecent(ctx context.Context, limit int64) ([]domain.Sale, error) {
	stmt := query.From(m_sales.TableName).
		Select(m_sales.AllColumns...).
		OrderBy(m_sales.CreatedAt, query.Desc).
		Limit(limit).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	sales := make([]domain.Sale, 0, limit)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list sales: %w", err)
		}

		var data m_sales.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse sale: %w", err)
		}
		sales = append(sales, domain.Sale{
			ID:            data.SaleID,
			ClientID:      data.ClientID,
			Total:         ratToDecimal(&data.Total),
			PaymentMethod: data.PaymentMethod,
			Status:        data.Status,
			CreatedAt:     data.CreatedAt,
		})
	}

	return sales, nil
}

// TotalsSince returns the count and summed total of sales created at or
// after the given instant. Feeds the dashboard stat cards.
func (r *SaleRepo) TotalsSince(ctx context.Context, since time.Time) (int64, decimal.Decimal, error) {
	stmt := spanner.Statement{
		SQL: "SELECT COUNT(*), COALESCE(SUM(total), 0) FROM sales WHERE created_at >= @since",
		Params: map[string]interface{}{
			"since": since,
		},
	}

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to total sales: %w", err)
	}

	var count int64
	var total big.Rat
	if err := row.Columns(&count, &total); err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to parse sale totals: %w", err)
	}
	return count, ratToDecimal(&total), nil
}
