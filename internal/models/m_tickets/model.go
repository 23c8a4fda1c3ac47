package m_tickets

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the tickets table.
const (
	TableName = "tickets"

	TicketID = "ticket_id"
	SaleID   = "sale_id"
	Number   = "number"
	IssuedAt = "issued_at"
	Status   = "status"
)

// AllColumns lists every column in read order.
var AllColumns = []string{TicketID, SaleID, Number, IssuedAt, Status}

// Data is the raw row shape of the tickets table.
type Data struct {
	TicketID string    `spanner:"ticket_id"`
	SaleID   string    `spanner:"sale_id"`
	Number   string    `spanner:"number"`
	IssuedAt time.Time `spanner:"issued_at"`
	Status   string    `spanner:"status"`
}

// Model provides type-safe mutation builders for the tickets table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a ticket.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		AllColumns,
		[]interface{}{
			data.TicketID,
			data.SaleID,
			data.Number,
			data.IssuedAt,
			data.Status,
		},
	)
}

// UpdateStatusMut creates a mutation advancing the ticket lifecycle.
func (m *Model) UpdateStatusMut(ticketID, status string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{TicketID, Status},
		[]interface{}{ticketID, status},
	)
}
