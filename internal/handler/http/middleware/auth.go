package middleware

import (
	"context"
	"net/http"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/auth"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Principal is the authenticated caller as carried by the access token.
type Principal struct {
	UserID     string
	Email      string
	Name       string
	Role       user.Role
	EmployeeID *string
}

type principalKey struct{}

// PrincipalFrom returns the caller stored by AuthRequired.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromClaims(claims map[string]interface{}) (Principal, bool) {
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != jwt.TokenTypeAccess {
		return Principal{}, false
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Principal{}, false
	}
	role, _ := claims["role"].(string)

	p := Principal{UserID: userID, Role: user.Role(role)}
	p.Email, _ = claims["email"].(string)
	p.Name, _ = claims["name"].(string)
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		p.EmployeeID = &employeeID
	}
	return p, true
}

// AuthRequired rejects requests without a valid access token and stores the
// caller for the handlers. It runs after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		p, ok := principalFromClaims(claims)
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}
