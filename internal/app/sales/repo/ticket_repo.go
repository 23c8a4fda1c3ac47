package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/models/m_tickets"
	"github.com/light-bringer/deli-pos-service/internal/pkg/query"
)

// TicketRepo implements TicketRepository for Spanner.
type TicketRepo struct {
	client *spanner.Client
	model  *m_tickets.Model
}

// NewTicketRepo creates a new TicketRepo.
func NewTicketRepo(client *spanner.Client) contracts.TicketRepository {
	return &TicketRepo{
		client: client,
		model:  m_tickets.NewModel(),
	}
}

// Insert writes a ticket row.
func (r *TicketRepo) Insert(ctx context.Context, t domain.Ticket) error {
	data := &m_tickets.Data{
		TicketID: t.ID,
		SaleID:   t.SaleID,
		Number:   t.Number,
		IssuedAt: t.IssuedAt,
		Status:   string(t.Status),
	}
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.InsertMut(data)}); err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	return nil
}

// ListRecent returns the most recent tickets, newest first.
func (r *TicketRepo) ListRecent(ctx context.Context, limit int64) ([]domain.Ticket, error) {
	stmt := query.From(m_tickets.TableName).
		Select(m_tickets.AllColumns...).
		OrderBy(m_tickets.IssuedAt, query.Desc).
		Limit(limit).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	tickets := make([]domain.Ticket, 0, limit)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list tickets: %w", err)
		}

		var data m_tickets.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse ticket: %w", err)
		}
		tickets = append(tickets, domain.Ticket{
			ID:       data.TicketID,
			SaleID:   data.SaleID,
			Number:   data.Number,
			IssuedAt: data.IssuedAt,
			Status:   domain.TicketStatus(data.Status),
		})
	}

	return tickets, nil
}

// CountSince returns the number of tickets issued at or after the given
// instant.
func (r *TicketRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	stmt := query.From(m_tickets.TableName).
		Where(query.Gte(m_tickets.IssuedAt, since)).
		Count().
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	var count int64
	if err := row.Columns(&count); err != nil {
		return 0, fmt.Errorf("failed to parse ticket count: %w", err)
	}
	return count, nil
}

// UpdateStatus advances the ticket lifecycle (issued -> printed -> sent).
func (r *TicketRepo) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	mut := r.model.UpdateStatusMut(id, string(status))
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{mut}); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrTicketNotFound
		}
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	return nil
}
