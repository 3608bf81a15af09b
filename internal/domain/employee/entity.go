package employee

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string           `json:"id"`
	EmployeeCode     string           `json:"employee_code"`
	UserID           *string          `json:"user_id,omitempty"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	DateOfBirth      *time.Time       `json:"date_of_birth,omitempty"`
	Gender           *Gender          `json:"gender,omitempty"`
	Address          Address          `json:"address"`
	Position         Position         `json:"position"`
	Department       Department       `json:"department"`
	HireDate         time.Time        `json:"hire_date"`
	Salary           decimal.Decimal  `json:"salary"`
	SalaryType       SalaryType       `json:"salary_type"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	IsActive         bool             `json:"is_active"`
	Notes            string           `json:"notes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return fmt.Sprintf("%s %s", e.FirstName, e.LastName)
}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`
	Country string `json:"country,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

const DefaultCountry = "Philippines"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

var Genders = []string{string(GenderMale), string(GenderFemale), string(GenderOther)}

type Position string

const (
	PositionManager          Position = "manager"
	PositionCashier          Position = "cashier"
	PositionLaundryAttendant Position = "laundry_attendant"
	PositionWaterRefiller    Position = "water_refiller"
	PositionMaintenance      Position = "maintenance"
	PositionSecurity         Position = "security"
	PositionCleaner          Position = "cleaner"
)

var Positions = []string{
	string(PositionManager),
	string(PositionCashier),
	string(PositionLaundryAttendant),
	string(PositionWaterRefiller),
	string(PositionMaintenance),
	string(PositionSecurity),
	string(PositionCleaner),
}

type Department string

const (
	DepartmentLaundry        Department = "laundry"
	DepartmentWaterRefilling Department = "water_refilling"
	DepartmentMaintenance    Department = "maintenance"
	DepartmentSecurity       Department = "security"
	DepartmentAdministration Department = "administration"
)

var Departments = []string{
	string(DepartmentLaundry),
	string(DepartmentWaterRefilling),
	string(DepartmentMaintenance),
	string(DepartmentSecurity),
	string(DepartmentAdministration),
}

type SalaryType string

const (
	SalaryTypeHourly  SalaryType = "hourly"
	SalaryTypeDaily   SalaryType = "daily"
	SalaryTypeWeekly  SalaryType = "weekly"
	SalaryTypeMonthly SalaryType = "monthly"
)

var SalaryTypes = []string{
	string(SalaryTypeHourly),
	string(SalaryTypeDaily),
	string(SalaryTypeWeekly),
	string(SalaryTypeMonthly),
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusInactive   EmploymentStatus = "inactive"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusSuspended  EmploymentStatus = "suspended"
)

var EmploymentStatuses = []string{
	string(EmploymentStatusActive),
	string(EmploymentStatusInactive),
	string(EmploymentStatusTerminated),
	string(EmploymentStatusResigned),
	string(EmploymentStatusSuspended),
}

// Deactivates reports whether moving into s ends the employment.
func (s EmploymentStatus) Deactivates() bool {
	return s == EmploymentStatusTerminated || s == EmploymentStatusResigned
}

// CodeScope is the sequence scope for employee codes hired in year.
func CodeScope(year int) string {
	return fmt.Sprintf("employee:%d", year)
}

// FormatCode renders an employee code such as EMP20240007.
func FormatCode(year int, seq int64) string {
	return fmt.Sprintf("EMP%d%04d", year, seq)
}
