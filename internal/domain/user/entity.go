package user

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, including deletes and system operations
	RoleManager  Role = "manager"  // Day-to-day operations and approvals
	RoleEmployee Role = "employee" // Own records only
)

var Roles = []string{string(RoleAdmin), string(RoleManager), string(RoleEmployee)}

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	EmployeeID   *string    `json:"employee_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user is manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// CanAccessEmployee reports whether a user with role, linked to ownEmployeeID,
// may read records owned by employeeID. Admins and managers see everyone.
func CanAccessEmployee(role Role, ownEmployeeID *string, employeeID string) bool {
	if role == RoleAdmin || role == RoleManager {
		return true
	}
	return ownEmployeeID != nil && *ownEmployeeID == employeeID
}
