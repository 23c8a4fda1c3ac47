package m_readings

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the readings table.
const (
	TableName = "readings"

	ReadingID = "reading_id"
	ReadAt    = "read_at"
	Weight    = "weight"
	ProductID = "product_id"
	Consumed  = "consumed"
	SaleID    = "sale_id"
)

// AllColumns lists every column in read order.
var AllColumns = []string{ReadingID, ReadAt, Weight, ProductID, Consumed, SaleID}

// Data is the raw row shape of the readings table.
type Data struct {
	ReadingID string             `spanner:"reading_id"`
	ReadAt    time.Time          `spanner:"read_at"`
	Weight    float64            `spanner:"weight"`
	ProductID spanner.NullString `spanner:"product_id"`
	Consumed  bool               `spanner:"consumed"`
	SaleID    spanner.NullString `spanner:"sale_id"`
}

// Model provides type-safe mutation builders for the readings table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a reading.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		AllColumns,
		[]interface{}{
			data.ReadingID,
			data.ReadAt,
			data.Weight,
			data.ProductID,
			data.Consumed,
			data.SaleID,
		},
	)
}

// BindProductMut creates a mutation writing the associated product id.
func (m *Model) BindProductMut(readingID, productID string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{ReadingID, ProductID},
		[]interface{}{readingID, productID},
	)
}

// ConsumeMut creates a mutation flagging a reading as folded into a sale.
func (m *Model) ConsumeMut(readingID, saleID string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{ReadingID, Consumed, SaleID},
		[]interface{}{readingID, true, saleID},
	)
}
