package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/models/m_products"
	"github.com/light-bringer/deli-pos-service/internal/pkg/query"
)

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	client *spanner.Client
	model  *m_products.Model
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client) contracts.ProductRepository {
	return &ProductRepo{
		client: client,
		model:  m_products.NewModel(),
	}
}

// List returns the full catalog ordered by name, the order the operator's
// terminal shows it and the tie-break order for fuzzy matching.
func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	stmt := query.From(m_products.TableName).
		Select(m_products.AllColumns...).
		OrderBy(m_products.Name, query.Asc).
		Build()

	return r.queryProducts(ctx, stmt)
}

// ListLowStock returns products at or below their minimum stock threshold.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	stmt := spanner.Statement{
		SQL: "SELECT " + joinColumns(m_products.AllColumns) +
			" FROM products WHERE stock <= min_stock ORDER BY name ASC",
	}
	return r.queryProducts(ctx, stmt)
}

// GetByID retrieves a product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, m_products.TableName, spanner.Key{id}, m_products.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_products.Data
	if err := row.ToStruct(&data); err != nil {
		return domain.Product{}, fmt.Errorf("failed to parse product: %w", err)
	}

	return dataToProduct(&data)
}

// Insert writes a new product row.
func (r *ProductRepo) Insert(ctx context.Context, p domain.Product) error {
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.InsertMut(productToData(p))}); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Update overwrites every mutable product field.
func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	updates := map[string]interface{}{
		m_products.Code:        nullString(p.Code),
		m_products.Name:        p.Name,
		m_products.CategoryID:  nullString(p.CategoryID),
		m_products.Description: nullString(p.Description),
		m_products.Price:       decimalToRat(p.Price),
		m_products.Unit:        string(p.Unit),
		m_products.Stock:       p.Stock,
		m_products.MinStock:    p.MinStock,
	}
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.UpdateMut(p.ID, updates)}); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// UpdateStock overwrites the stock column only. A single-row apply; the
// committer accepts the lost-update race between concurrent terminals.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock float64) error {
	mut := r.model.UpdateMut(id, map[string]interface{}{m_products.Stock: stock})
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{mut}); err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("failed to update stock: %w", err)
	}
	return nil
}

// Delete removes a product row.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Apply(ctx, []*spanner.Mutation{r.model.DeleteMut(id)}); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) queryProducts(ctx context.Context, stmt spanner.Statement) ([]domain.Product, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]domain.Product, 0, 64)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}

		var data m_products.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		p, err := dataToProduct(&data)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, nil
}

// dataToProduct is the parsing boundary: malformed units are rejected here
// rather than propagated.
func dataToProduct(data *m_products.Data) (domain.Product, error) {
	unit, ok := domain.ParseUnit(data.Unit)
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s has invalid unit %q", data.ProductID, data.Unit)
	}

	return domain.Product{
		ID:          data.ProductID,
		Code:        fromNullString(data.Code),
		Name:        data.Name,
		CategoryID:  fromNullString(data.CategoryID),
		Description: fromNullString(data.Description),
		Price:       ratToDecimal(&data.Price),
		Unit:        unit,
		Stock:       data.Stock,
		MinStock:    data.MinStock,
	}, nil
}

func productToData(p domain.Product) *m_products.Data {
	return &m_products.Data{
		ProductID:   p.ID,
		Code:        nullString(p.Code),
		Name:        p.Name,
		CategoryID:  nullString(p.CategoryID),
		Description: nullString(p.Description),
		Price:       decimalToRat(p.Price),
		Unit:        string(p.Unit),
		Stock:       p.Stock,
		MinStock:    p.MinStock,
	}
}
