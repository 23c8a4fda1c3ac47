package m_clients

import "cloud.google.com/go/spanner"

// Data is the raw row shape of the clients table.
type Data struct {
	ClientID       string             `spanner:"client_id"`
	FirstName      string             `spanner:"first_name"`
	LastName       spanner.NullString `spanner:"last_name"`
	DocumentType   spanner.NullString `spanner:"document_type"`
	DocumentNumber spanner.NullString `spanner:"document_number"`
	Phone          spanner.NullString `spanner:"phone"`
	Email          spanner.NullString `spanner:"email"`
	Address        spanner.NullString `spanner:"address"`
	Kind           spanner.NullString `spanner:"kind"`
}

// Model provides type-safe mutation builders for the clients table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a client.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		AllColumns,
		[]interface{}{
			data.ClientID,
			data.FirstName,
			data.LastName,
			data.DocumentType,
			data.DocumentNumber,
			data.Phone,
			data.Email,
			data.Address,
			data.Kind,
		},
	)
}

// UpdateMut creates a mutation overwriting every client field.
func (m *Model) UpdateMut(data *Data) *spanner.Mutation {
	return spanner.Update(
		TableName,
		AllColumns,
		[]interface{}{
			data.ClientID,
			data.FirstName,
			data.LastName,
			data.DocumentType,
			data.DocumentNumber,
			data.Phone,
			data.Email,
			data.Address,
			data.Kind,
		},
	)
}

// DeleteMut creates a mutation for deleting a client.
func (m *Model) DeleteMut(clientID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{clientID})
}
