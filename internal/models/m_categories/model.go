package m_categories

import "cloud.google.com/go/spanner"

// Field name constants for the categories table.
const (
	TableName = "categories"

	CategoryID = "category_id"
	Name       = "name"
)

// AllColumns lists every column in read order.
var AllColumns = []string{CategoryID, Name}

// Data is the raw row shape of the categories table.
type Data struct {
	CategoryID string `spanner:"category_id"`
	Name       string `spanner:"name"`
}

// Model provides type-safe mutation builders for the categories table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a category.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(TableName, AllColumns, []interface{}{data.CategoryID, data.Name})
}

// UpdateMut creates a mutation for renaming a category.
func (m *Model) UpdateMut(categoryID, name string) *spanner.Mutation {
	return spanner.Update(TableName, AllColumns, []interface{}{categoryID, name})
}

// DeleteMut creates a mutation for deleting a category.
func (m *Model) DeleteMut(categoryID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{categoryID})
}
