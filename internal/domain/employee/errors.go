package employee

import "github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"

var (
	ErrEmployeeNotFound     = apperror.New(apperror.ErrNotFound, "employee not found")
	ErrEmployeeCodeExists   = apperror.New(apperror.ErrConflict, "employee code already exists")
	ErrEmailExists          = apperror.New(apperror.ErrConflict, "employee email already registered")
	ErrStatusUnchanged      = apperror.New(apperror.ErrInvalidState, "employee already has this employment status")
	ErrCannotDeleteSelf     = apperror.New(apperror.ErrInvalidState, "cannot delete your own employee record")
	ErrEmployeeNotClockable = apperror.New(apperror.ErrInvalidState, "employee is not active")
)
