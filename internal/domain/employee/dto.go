package employee

import (
	"fmt"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Password         string           `json:"password"`
	DateOfBirth      *string          `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender           *string          `json:"gender,omitempty"`
	Address          Address          `json:"address"`
	Position         string           `json:"position"`
	Department       string           `json:"department"`
	HireDate         *string          `json:"hire_date,omitempty"` // YYYY-MM-DD
	Salary           decimal.Decimal  `json:"salary"`
	SalaryType       string           `json:"salary_type"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	Notes            string           `json:"notes"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	validateNames(&errs, r.FirstName, r.LastName)

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if validator.IsEmpty(r.Phone) {
		errs.Add("phone", "phone is required")
	} else if !validator.IsValidPhoneNumber(r.Phone) {
		errs.Add("phone", "phone must be a valid phone number")
	}
	if len(r.Password) < 6 {
		errs.Add("password", "password must be at least 6 characters long")
	}
	if r.DateOfBirth != nil {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs.Add("date_of_birth", "date_of_birth must be in YYYY-MM-DD format")
		}
	}
	if r.Gender != nil && !validator.IsInSlice(*r.Gender, Genders) {
		errs.Add("gender", "gender must be one of: "+strings.Join(Genders, ", "))
	}
	if !validator.IsInSlice(r.Position, Positions) {
		errs.Add("position", "position must be one of: "+strings.Join(Positions, ", "))
	}
	if !validator.IsInSlice(r.Department, Departments) {
		errs.Add("department", "department must be one of: "+strings.Join(Departments, ", "))
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}
	if r.Salary.IsNegative() {
		errs.Add("salary", "salary cannot be negative")
	} else if !validator.HasMaxPlaces(r.Salary, validator.MoneyPlaces) {
		errs.Add("salary", "salary must have at most 2 decimal places")
	}
	if r.SalaryType == "" {
		r.SalaryType = string(SalaryTypeMonthly)
	} else if !validator.IsInSlice(r.SalaryType, SalaryTypes) {
		errs.Add("salary_type", "salary_type must be one of: "+strings.Join(SalaryTypes, ", "))
	}
	if len(r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

type UpdateEmployeeRequest struct {
	ID               string            `json:"-"`
	FirstName        *string           `json:"first_name,omitempty"`
	LastName         *string           `json:"last_name,omitempty"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	DateOfBirth      *string           `json:"date_of_birth,omitempty"`
	Gender           *string           `json:"gender,omitempty"`
	Address          *Address          `json:"address,omitempty"`
	Position         *string           `json:"position,omitempty"`
	Department       *string           `json:"department,omitempty"`
	HireDate         *string           `json:"hire_date,omitempty"`
	Salary           *decimal.Decimal  `json:"salary,omitempty"`
	SalaryType       *string           `json:"salary_type,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	Notes            *string           `json:"notes,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil && !validator.LengthBetween(*r.FirstName, 2, 50) {
		errs.Add("first_name", "first_name must be between 2 and 50 characters")
	}
	if r.LastName != nil && !validator.LengthBetween(*r.LastName, 2, 50) {
		errs.Add("last_name", "last_name must be between 2 and 50 characters")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone must be a valid phone number")
	}
	if r.DateOfBirth != nil {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs.Add("date_of_birth", "date_of_birth must be in YYYY-MM-DD format")
		}
	}
	if r.Gender != nil && !validator.IsInSlice(*r.Gender, Genders) {
		errs.Add("gender", "gender must be one of: "+strings.Join(Genders, ", "))
	}
	if r.Position != nil && !validator.IsInSlice(*r.Position, Positions) {
		errs.Add("position", "position must be one of: "+strings.Join(Positions, ", "))
	}
	if r.Department != nil && !validator.IsInSlice(*r.Department, Departments) {
		errs.Add("department", "department must be one of: "+strings.Join(Departments, ", "))
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}
	if r.Salary != nil && r.Salary.IsNegative() {
		errs.Add("salary", "salary cannot be negative")
	} else if r.Salary != nil && !validator.HasMaxPlaces(*r.Salary, validator.MoneyPlaces) {
		errs.Add("salary", "salary must have at most 2 decimal places")
	}
	if r.SalaryType != nil && !validator.IsInSlice(*r.SalaryType, SalaryTypes) {
		errs.Add("salary_type", "salary_type must be one of: "+strings.Join(SalaryTypes, ", "))
	}
	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

// Apply copies the supplied fields onto e. The employee code is never touched.
// Dates are read as midnight in loc.
func (r *UpdateEmployeeRequest) Apply(e *Employee, loc *time.Location) error {
	if r.FirstName != nil {
		e.FirstName = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		e.LastName = strings.TrimSpace(*r.LastName)
	}
	if r.Email != nil {
		e.Email = strings.ToLower(*r.Email)
	}
	if r.Phone != nil {
		e.Phone = *r.Phone
	}
	if r.DateOfBirth != nil {
		dob, err := time.ParseInLocation("2006-01-02", *r.DateOfBirth, loc)
		if err != nil {
			return fmt.Errorf("invalid date_of_birth: %w", err)
		}
		e.DateOfBirth = &dob
	}
	if r.Gender != nil {
		g := Gender(*r.Gender)
		e.Gender = &g
	}
	if r.Address != nil {
		e.Address = *r.Address
	}
	if r.Position != nil {
		e.Position = Position(*r.Position)
	}
	if r.Department != nil {
		e.Department = Department(*r.Department)
	}
	if r.HireDate != nil {
		hd, err := time.ParseInLocation("2006-01-02", *r.HireDate, loc)
		if err != nil {
			return fmt.Errorf("invalid hire_date: %w", err)
		}
		e.HireDate = hd
	}
	if r.Salary != nil {
		e.Salary = *r.Salary
	}
	if r.SalaryType != nil {
		e.SalaryType = SalaryType(*r.SalaryType)
	}
	if r.EmergencyContact != nil {
		e.EmergencyContact = *r.EmergencyContact
	}
	if r.Notes != nil {
		e.Notes = *r.Notes
	}
	return nil
}

type UpdateStatusRequest struct {
	ID               string `json:"-"`
	EmploymentStatus string `json:"employment_status"`
	Reason           string `json:"reason,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsInSlice(r.EmploymentStatus, EmploymentStatuses) {
		errs.Add("employment_status", "employment_status must be one of: "+strings.Join(EmploymentStatuses, ", "))
	}
	return errs.Err()
}

type EmployeeFilter struct {
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	Status     *string `json:"status,omitempty"`
	Search     *string `json:"search,omitempty"`

	// Pagination; a zero Limit on the repository means no paging.
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // first_name, last_name, employee_code, hire_date, salary, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

var employeeSortFields = []string{"first_name", "last_name", "employee_code", "hire_date", "salary", "created_at"}

func (f *EmployeeFilter) Validate() error {
	errs := validator.Pagination(&f.Page, &f.Limit, 10)

	if f.Department != nil && !validator.IsInSlice(*f.Department, Departments) {
		errs.Add("department", "department must be one of: "+strings.Join(Departments, ", "))
	}
	if f.Position != nil && !validator.IsInSlice(*f.Position, Positions) {
		errs.Add("position", "position must be one of: "+strings.Join(Positions, ", "))
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, EmploymentStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(EmploymentStatuses, ", "))
	}
	if sortBy, ok := strings.CutPrefix(f.SortBy, "-"); ok {
		f.SortBy = sortBy
		f.SortOrder = "desc"
	}
	if f.SortBy == "" {
		f.SortBy = "first_name"
	} else if !validator.IsInSlice(f.SortBy, employeeSortFields) {
		errs.Add("sort_by", "sort_by must be one of: "+strings.Join(employeeSortFields, ", "))
	}
	errs = append(errs, validator.SortOrder(&f.SortOrder, "asc")...)

	return errs.Err()
}

type ListEmployeeResponse struct {
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
	Employees  []Employee `json:"employees"`
}

type Statistics struct {
	Overall      OverallStatistics            `json:"overall"`
	ByDepartment map[Department]GroupStatistic `json:"by_department"`
	ByPosition   map[Position]GroupStatistic   `json:"by_position"`
}

type OverallStatistics struct {
	TotalEmployees  int             `json:"total_employees"`
	ActiveEmployees int             `json:"active_employees"`
	TotalSalary     decimal.Decimal `json:"total_salary"`
	AvgSalary       decimal.Decimal `json:"avg_salary"`
}

type GroupStatistic struct {
	Count       int             `json:"count"`
	TotalSalary decimal.Decimal `json:"total_salary"`
	AvgSalary   decimal.Decimal `json:"avg_salary"`
}

func validateNames(errs *validator.ValidationErrors, first, last string) {
	if !validator.LengthBetween(first, 2, 50) {
		errs.Add("first_name", "first_name must be between 2 and 50 characters")
	}
	if !validator.LengthBetween(last, 2, 50) {
		errs.Add("last_name", "last_name must be between 2 and 50 characters")
	}
}
