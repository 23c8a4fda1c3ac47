package domain

import "errors"

// Domain errors as sentinel values
var (
	// Input errors: rejected before any store call.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrNoMatchFound    = errors.New("no product matches the query")
	ErrUnitMismatch    = errors.New("unit is not valid for the product's base unit")

	// Precondition errors: rejected against cached/fetched state.
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrTooManyWeighedItems = errors.New("cart already holds a weighed item")
	ErrDuplicateInCart     = errors.New("reading is already in the cart")
	ErrAlreadyConsumed     = errors.New("reading was already folded into a sale")
	ErrNotWeighable        = errors.New("product is sold by piece, not by weight")
	ErrEmptyCart           = errors.New("cart has no items")

	// Single-flight guards.
	ErrAssociationInFlight = errors.New("an association for this reading is already in flight")
	ErrCommitInFlight      = errors.New("a sale commit is already in flight")

	// Commit failures. SaleCreateFailed aborts before anything else is
	// attempted; LineItemsFailed aborts after the sale row was compensated.
	ErrSaleCreateFailed = errors.New("failed to create sale")
	ErrLineItemsFailed  = errors.New("failed to create sale line items")

	// Lookup errors.
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrReadingNotFound  = errors.New("reading not found")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrCartItemNotFound = errors.New("cart item not found")

	// Session errors.
	ErrSessionExpired = errors.New("session expired, please re-authenticate")

	ErrNoPaymentMethod = errors.New("payment method is required")
)
