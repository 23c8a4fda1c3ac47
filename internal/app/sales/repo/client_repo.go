package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/models/m_clients"
	"github.com/light-bringer/deli-pos-service/internal/pkg/query"
)

// ClientRepo implements ClientRepository for Spanner.
type ClientRepo struct {
	client *spanner.Client
	model  *m_clients.Model
}

// NewClientRepo creates a new ClientRepo.
func NewClientRepo(client *spanner.Client) contracts.ClientRepository {
	return &ClientRepo{
		client: client,
		model:  m_clients.NewModel(),
	}
}

// List returns every client ordered by first name.
func (r *ClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	stmt := query.From(m_clients.TableName).
		Select(m_clients.AllColumns...).
		OrderBy(m_clients.FirstName, query.Asc).
		Build()

	return r.queryClients(ctx, stmt)
}

// GetByID retrieves a client by ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (domain.Client, error) {
	row, err := r.client.Single().ReadRow(ctx, m_clients.TableName, spanner.Key{id}, m_clients.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.Client{}, domain.ErrClientNotFound
		}
		return domain.Client{}, fmt.Errorf("failed to read client: %w", err)
	}

	var data m_clients.Data
	if err := row.ToStruct(&data); err != nil {
		return domain.Client{}, fmt.Errorf("failed to parse client: %w", err)
	}
	return dataToClient(&data), nil
}

// FindByFirstName returns the first client whose first name matches exactly.
// The committer uses it to resolve the walk-in sentinel idempotently.
func (r *ClientRepo) FindByFirstName(ctx context.Context, name string) (domain.Client, error) {
	stmt := query.From(m_clients.TableName).
		Select(m_clients.AllColumns...).
		Where(query.Eq(m_clients.FirstName, name)).
		Limit(1).
		Build()

	clients, err := r.queryClients(ctx, stmt)
	if err != nil {
		return domain.Client{}, err
	}
	if len(clients) == 0 {
		return domain.Client{}, domain.ErrClientNotFound
	}
	return clients[0], nil
}

// Insert writes a new client row.
func (r *ClientRepo) Insert(ctx context.Context, c domain.Client) error {
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.InsertMut(clientToData(c))}); err != nil {
		return fmt.Errorf("failed to insert client: %w", err)
	}
	return nil
}

// Update overwrites every client field.
func (r *ClientRepo) Update(ctx context.Context, c domain.Client) error {
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.UpdateMut(clientToData(c))}); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrClientNotFound
		}
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

// Delete removes a client row.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.DeleteMut(id)}); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func (r *ClientRepo) queryClients(ctx context.Context, stmt spanner.Statement) ([]domain.Client, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	clients := make([]domain.Client, 0, 32)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list clients: %w", err)
		}

		var data m_clients.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse client: %w", err)
		}
		clients = append(clients, dataToClient(&data))
	}

	return clients, nil
}

func dataToClient(data *m_clients.Data) domain.Client {
	return domain.Client{
		ID:             data.ClientID,
		FirstName:      data.FirstName,
		LastName:       fromNullString(data.LastName),
		DocumentType:   fromNullString(data.DocumentType),
		DocumentNumber: fromNullString(data.DocumentNumber),
		Phone:          fromNullString(data.Phone),
		Email:          fromNullString(data.Email),
		Address:        fromNullString(data.Address),
		Kind:           fromNullString(data.Kind),
	}
}

func clientToData(c domain.Client) *m_clients.Data {
	return &m_clients.Data{
		ClientID:       c.ID,
		FirstName:      c.FirstName,
		LastName:       nullString(c.LastName),
		DocumentType:   nullString(c.DocumentType),
		DocumentNumber: nullString(c.DocumentNumber),
		Phone:          nullString(c.Phone),
		Email:          nullString(c.Email),
		Address:        nullString(c.Address),
		Kind:           nullString(c.Kind),
	}
}
