package m_clients

// Field name constants for the clients table.
const (
	TableName = "clients"

	ClientID       = "client_id"
	FirstName      = "first_name"
	LastName       = "last_name"
	DocumentType   = "document_type"
	DocumentNumber = "document_number"
	Phone          = "phone"
	Email          = "email"
	Address        = "address"
	Kind           = "kind"
)

// AllColumns lists every column in read order.
var AllColumns = []string{
	ClientID, FirstName, LastName, DocumentType, DocumentNumber,
	Phone, Email, Address, Kind,
}
