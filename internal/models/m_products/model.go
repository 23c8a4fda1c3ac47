package m_products

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data is the raw row shape of the products table.
type Data struct {
	ProductID   string             `spanner:"product_id"`
	Code        spanner.NullString `spanner:"code"`
	Name        string             `spanner:"name"`
	CategoryID  spanner.NullString `spanner:"category_id"`
	Description spanner.NullString `spanner:"description"`
	Price       big.Rat            `spanner:"price"`
	Unit        string             `spanner:"unit"`
	Stock       float64            `spanner:"stock"`
	MinStock    float64            `spanner:"min_stock"`
	CreatedAt   time.Time          `spanner:"created_at"`
	UpdatedAt   time.Time          `spanner:"updated_at"`
}

// Model provides type-safe mutation builders for the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a product.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		AllColumns,
		[]interface{}{
			data.ProductID,
			data.Code,
			data.Name,
			data.CategoryID,
			data.Description,
			data.Price,
			data.Unit,
			data.Stock,
			data.MinStock,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a mutation for updating product fields.
func (m *Model) UpdateMut(productID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, ProductID)
	values = append(values, productID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a mutation for deleting a product.
func (m *Model) DeleteMut(productID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID})
}
