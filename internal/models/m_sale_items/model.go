package m_sale_items

import (
	"math/big"

	"cloud.google.com/go/spanner"
)

// Field name constants for the sale_line_items table.
const (
	TableName = "sale_line_items"

	SaleID    = "sale_id"
	LineNo    = "line_no"
	ProductID = "product_id"
	Quantity  = "quantity"
	Unit      = "unit"
	UnitPrice = "unit_price"
	Subtotal  = "subtotal"
)

// AllColumns lists every column in read order.
var AllColumns = []string{SaleID, LineNo, ProductID, Quantity, Unit, UnitPrice, Subtotal}

// Data is the raw row shape of the sale_line_items table.
type Data struct {
	SaleID    string  `spanner:"sale_id"`
	LineNo    int64   `spanner:"line_no"`
	ProductID string  `spanner:"product_id"`
	Quantity  float64 `spanner:"quantity"`
	Unit      string  `spanner:"unit"`
	UnitPrice big.Rat `spanner:"unit_price"`
	Subtotal  big.Rat `spanner:"subtotal"`
}

// Model provides type-safe mutation builders for the sale_line_items table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting one line item.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		AllColumns,
		[]interface{}{
			data.SaleID,
			data.LineNo,
			data.ProductID,
			data.Quantity,
			data.Unit,
			data.UnitPrice,
			data.Subtotal,
		},
	)
}
