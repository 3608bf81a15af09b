package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/auth"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var stockErr *inventory.InsufficientStockError
	if errors.As(err, &stockErr) {
		BadRequest(w, stockErr.Error(), map[string]string{
			"item_id":   stockErr.ItemID,
			"item_name": stockErr.ItemName,
			"available": stockErr.Available.String(),
			"requested": stockErr.Requested.String(),
		})
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")

	// Roles
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrEmployeeAccessDenied):
		Forbidden(w, "Not allowed to access this employee")

	// Domain kinds
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(w, apperror.Message(err, "Resource not found"))
	case errors.Is(err, apperror.ErrInsufficientStock):
		BadRequest(w, apperror.Message(err, "Insufficient stock"), nil)
	case errors.Is(err, apperror.ErrInvalidState):
		BadRequest(w, apperror.Message(err, "Invalid request"), nil)
	case errors.Is(err, apperror.ErrConflict):
		Conflict(w, apperror.Message(err, "Resource already exists"))

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
