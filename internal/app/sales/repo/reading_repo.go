package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/models/m_readings"
	"github.com/light-bringer/deli-pos-service/internal/pkg/query"
)

// ReadingRepo implements ReadingRepository for Spanner.
type ReadingRepo struct {
	client *spanner.Client
	model  *m_readings.Model
}

// NewReadingRepo creates a new ReadingRepo.
func NewReadingRepo(client *spanner.Client) contracts.ReadingRepository {
	return &ReadingRepo{
		client: client,
		model:  m_readings.NewModel(),
	}
}

// ListRecent returns the most recent readings, newest first. This is the
// reconciler's poll source of truth.
func (r *ReadingRepo) ListRecent(ctx context.Context, limit int64) ([]domain.Reading, error) {
	stmt := query.From(m_readings.TableName).
		Select(m_readings.AllColumns...).
		OrderBy(m_readings.ReadAt, query.Desc).
		Limit(limit).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	readings := make([]domain.Reading, 0, limit)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list readings: %w", err)
		}

		var data m_readings.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse reading: %w", err)
		}
		readings = append(readings, dataToReading(&data))
	}

	return readings, nil
}

// BindProduct writes the product id onto the reading row.
func (r *ReadingRepo) BindProduct(ctx context.Context, readingID, productID string) error {
	mut := r.model.BindProductMut(readingID, productID)
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{mut}); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrReadingNotFound
		}
		return fmt.Errorf("failed to bind product to reading: %w", err)
	}
	return nil
}

// MarkConsumed flags the given readings as folded into saleID. One batched
// apply keyed by reading ids.
func (r *ReadingRepo) MarkConsumed(ctx context.Context, readingIDs []string, saleID string) error {
	if len(readingIDs) == 0 {
		return nil
	}

	muts := make([]*spanner.Mutation, 0, len(readingIDs))
	for _, id := range readingIDs {
		muts = append(muts, r.model.ConsumeMut(id, saleID))
	}
	if _, err := r.client.Apply(ctx, muts); err != nil {
		return fmt.Errorf("failed to mark readings consumed: %w", err)
	}
	return nil
}

// Insert writes a new reading row. Production rows come from the scale
// bridge; the simulator uses this too.
func (r *ReadingRepo) Insert(ctx context.Context, reading domain.Reading) error {
	data := &m_readings.Data{
		ReadingID: reading.ID,
		ReadAt:    reading.Timestamp,
		Weight:    reading.Weight,
		ProductID: nullString(reading.ProductID),
		Consumed:  reading.Consumed,
		SaleID:    nullString(reading.SaleID),
	}
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.InsertMut(data)}); err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}
	return nil
}

// CountAll returns the total number of readings ever recorded.
func (r *ReadingRepo) CountAll(ctx context.Context) (int64, error) {
	stmt := query.From(m_readings.TableName).Count().Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}

	var count int64
	if err := row.Columns(&count); err != nil {
		return 0, fmt.Errorf("failed to parse reading count: %w", err)
	}
	return count, nil
}

func dataToReading(data *m_readings.Data) domain.Reading {
	return domain.Reading{
		ID:        data.ReadingID,
		Timestamp: data.ReadAt,
		Weight:    data.Weight,
		ProductID: fromNullString(data.ProductID),
		Consumed:  data.Consumed,
		SaleID:    fromNullString(data.SaleID),
	}
}
