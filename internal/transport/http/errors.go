package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

// statusOf maps domain sentinels onto HTTP statuses. Unknown errors are
// store failures and come back as 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrReadingNotFound),
		errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrCartItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNoMatchFound),
		errors.Is(err, domain.ErrUnitMismatch),
		errors.Is(err, domain.ErrNotWeighable),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrNoPaymentMethod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrDuplicateInCart),
		errors.Is(err, domain.ErrTooManyWeighedItems),
		errors.Is(err, domain.ErrAlreadyConsumed),
		errors.Is(err, domain.ErrAssociationInFlight),
		errors.Is(err, domain.ErrCommitInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}
