package user

import (
	"errors"

	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"
)

var (
	ErrUserNotFound          = apperror.New(apperror.ErrNotFound, "user not found")
	ErrUserEmailExists       = apperror.New(apperror.ErrConflict, "email already registered")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrEmployeeAccessDenied  = errors.New("not allowed to access this employee")
)
