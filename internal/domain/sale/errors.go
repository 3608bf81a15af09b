package sale

import "github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"

var (
	ErrSaleNotFound         = apperror.New(apperror.ErrNotFound, "sale not found")
	ErrTransactionIDExists  = apperror.New(apperror.ErrConflict, "transaction id already exists")
	ErrReceiptNumberExists  = apperror.New(apperror.ErrConflict, "receipt number already exists")
	ErrNegativeTotal        = apperror.New(apperror.ErrInvalidState, "total amount cannot be negative")
	ErrLineDiscountTooLarge = apperror.New(apperror.ErrInvalidState, "line discount exceeds line total")
)
