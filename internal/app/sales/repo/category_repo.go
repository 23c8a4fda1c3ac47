package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/models/m_categories"
	"github.com/light-bringer/deli-pos-service/internal/pkg/query"
)

// CategoryRepo implements CategoryRepository for Spanner.
type CategoryRepo struct {
	client *spanner.Client
	model  *m_categories.Model
}

// NewCategoryRepo creates a new CategoryRepo.
func NewCategoryRepo(client *spanner.Client) contracts.CategoryRepository {
	return &CategoryRepo{
		client: client,
		model:  m_categories.NewModel(),
	}
}

// List returns every category ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	stmt := query.From(m_categories.TableName).
		Select(m_categories.AllColumns...).
		OrderBy(m_categories.Name, query.Asc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	categories := make([]domain.Category, 0, 16)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}

		var data m_categories.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse category: %w", err)
		}
		categories = append(categories, domain.Category{ID: data.CategoryID, Name: data.Name})
	}

	return categories, nil
}

// Insert writes a new category row.
func (r *CategoryRepo) Insert(ctx context.Context, c domain.Category) error {
	data := &m_categories.Data{CategoryID: c.ID, Name: c.Name}
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.InsertMut(data)}); err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// Update renames a category.
func (r *CategoryRepo) Update(ctx context.Context, c domain.Category) error {
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.UpdateMut(c.ID, c.Name)}); err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

// Delete removes a category row.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.DeleteMut(id)}); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
