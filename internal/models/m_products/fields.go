package m_products

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID   = "product_id"
	Code        = "code"
	Name        = "name"
	CategoryID  = "category_id"
	Description = "description"
	Price       = "price"
	Unit        = "unit"
	Stock       = "stock"
	MinStock    = "min_stock"
	CreatedAt   = "created_at"
	UpdatedAt   = "updated_at"
)

// AllColumns lists every column in read order.
var AllColumns = []string{
	ProductID, Code, Name, CategoryID, Description,
	Price, Unit, Stock, MinStock, CreatedAt, UpdatedAt,
}
