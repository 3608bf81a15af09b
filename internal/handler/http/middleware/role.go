package middleware

import (
	"net/http"
	"slices"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/auth"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
)

// RequireRole lets the request through only when the caller holds one of roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	denied := user.ErrManagerAccessRequired
	if len(roles) == 1 && roles[0] == user.RoleAdmin {
		denied = user.ErrAdminAccessRequired
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !slices.Contains(roles, p.Role) {
				response.HandleError(w, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin requires the admin role
var RequireAdmin = RequireRole(user.RoleAdmin)

// RequireManager requires manager or admin role
var RequireManager = RequireRole(user.RoleAdmin, user.RoleManager)
