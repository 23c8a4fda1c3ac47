package m_sales

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the sales table.
const (
	TableName = "sales"

	SaleID        = "sale_id"
	ClientID      = "client_id"
	Total         = "total"
	PaymentMethod = "payment_method"
	Status        = "status"
	CreatedAt     = "created_at"
)

// AllColumns lists every column in read order.
var AllColumns = []string{SaleID, ClientID, Total, PaymentMethod, Status, CreatedAt}

// Data is the raw row shape of the sales table.
type Data struct {
	SaleID        string    `spanner:"sale_id"`
	ClientID      string    `spanner:"client_id"`
	Total         big.Rat   `spanner:"total"`
	PaymentMethod string    `spanner:"payment_method"`
	Status        string    `spanner:"status"`
	CreatedAt     time.Time `spanner:"created_at"`
}

// Model provides type-safe mutation builders for the sales table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a sale. Insert (not
// InsertOrUpdate) so a replayed commit cannot silently overwrite a sale.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		AllColumns,
		[]interface{}{
			data.SaleID,
			data.ClientID,
			data.Total,
			data.PaymentMethod,
			data.Status,
			data.CreatedAt,
		},
	)
}

// DeleteMut creates a mutation for deleting a sale row. Used only by the
// committer's compensation path.
func (m *Model) DeleteMut(saleID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{saleID})
}
