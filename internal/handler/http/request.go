package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/middleware"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// decodeJSON reads the body into dst and writes a 400 when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// queryString returns the first non-empty value among keys, or nil.
func queryString(r *http.Request, keys ...string) *string {
	for _, key := range keys {
		if v := r.URL.Query().Get(key); v != "" {
			return &v
		}
	}
	return nil
}

// queryInt parses key as an integer; absent or malformed values give zero.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func queryBool(r *http.Request, key string) *bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &b
}

// sortParams reads sort_by and sort_order. A leading "-" on sort_by selects
// descending order when sort_order is absent.
func sortParams(r *http.Request) (string, string) {
	sortBy := r.URL.Query().Get("sort_by")
	sortOrder := r.URL.Query().Get("sort_order")
	if len(sortBy) > 1 && sortBy[0] == '-' {
		sortBy = sortBy[1:]
		if sortOrder == "" {
			sortOrder = "desc"
		}
	}
	return sortBy, sortOrder
}

// principal returns the authenticated caller. AuthRequired guarantees one on
// protected routes.
func principal(r *http.Request) middleware.Principal {
	p, _ := middleware.PrincipalFrom(r.Context())
	return p
}

// canAccessEmployee writes a 403 when the caller may not see employeeID's records.
func canAccessEmployee(w http.ResponseWriter, r *http.Request, employeeID string) bool {
	p := principal(r)
	if !user.CanAccessEmployee(p.Role, p.EmployeeID, employeeID) {
		response.HandleError(w, user.ErrEmployeeAccessDenied)
		return false
	}
	return true
}
