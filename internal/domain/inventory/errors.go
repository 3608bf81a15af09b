package inventory

import (
	"fmt"

	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound        = apperror.New(apperror.ErrNotFound, "inventory item not found")
	ErrItemCodeExists      = apperror.New(apperror.ErrConflict, "item code already exists")
	ErrNegativeStock       = apperror.New(apperror.ErrInvalidState, "stock quantity cannot be negative")
	ErrInvalidQuantity     = apperror.New(apperror.ErrInvalidState, "requested quantity cannot be negative")
	ErrInvalidMovementType = apperror.New(apperror.ErrInvalidState, "unknown stock movement type")
)

// InsufficientStockError reports a request for more units than are on hand.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %s, requested %s", e.ItemName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == apperror.ErrInsufficientStock
}
