package payroll

import (
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Period is a resolved pay period in the business timezone. A zero request
// resolves to the current calendar month.
type Period struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (p *Period) Validate(loc *time.Location, now time.Time) error {
	from, to, errs := validator.DateRange(p.StartDate, p.EndDate, loc)
	local := now.In(loc)
	if from != nil {
		p.From = *from
	} else {
		p.From = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	}
	if to != nil {
		p.To = *to
	} else {
		p.To = time.Date(local.Year(), local.Month()+1, 1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	}
	if len(errs) == 0 && p.To.Before(p.From) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	return errs.Err()
}

type SalaryFilter struct {
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	Status     *string `json:"status,omitempty"`
	Period

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *SalaryFilter) Validate(loc *time.Location, now time.Time) error {
	errs := validator.Pagination(&f.Page, &f.Limit, 10)
	if f.Department != nil && !validator.IsInSlice(*f.Department, employee.Departments) {
		errs.Add("department", "department must be one of: "+strings.Join(employee.Departments, ", "))
	}
	if f.Position != nil && !validator.IsInSlice(*f.Position, employee.Positions) {
		errs.Add("position", "position must be one of: "+strings.Join(employee.Positions, ", "))
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, employee.EmploymentStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(employee.EmploymentStatuses, ", "))
	}
	if err := f.Period.Validate(loc, now); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, ve...)
		}
	}
	return errs.Err()
}

// CalculateRequest asks for an explicit period; both bounds are required.
type CalculateRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`

	From time.Time `json:"-"`
	To   time.Time `json:"-"`
}

func (r *CalculateRequest) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.StartDate) {
		errs.Add("start_date", "start_date is required")
	}
	if validator.IsEmpty(r.EndDate) {
		errs.Add("end_date", "end_date is required")
	}
	if len(errs) > 0 {
		return errs
	}
	from, to, rangeErrs := validator.DateRange(&r.StartDate, &r.EndDate, loc)
	if len(rangeErrs) > 0 {
		return rangeErrs
	}
	r.From, r.To = *from, *to
	return nil
}

type ListSalaryResponse struct {
	TotalCount  int64               `json:"total_count"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
	TotalPages  int                 `json:"total_pages"`
	PeriodStart time.Time           `json:"period_start"`
	PeriodEnd   time.Time           `json:"period_end"`
	Salaries    []SalaryCalculation `json:"salaries"`
	Summary     ListSummary         `json:"summary"`
}

type ListSummary struct {
	TotalBaseSalary  decimal.Decimal `json:"total_base_salary"`
	TotalOvertimePay decimal.Decimal `json:"total_overtime_pay"`
	TotalPayroll     decimal.Decimal `json:"total_payroll"`
}

// EmployeeSalary is a calculation together with the attendance it was
// computed from.
type EmployeeSalary struct {
	SalaryCalculation
	Attendance []attendance.Record `json:"attendance"`
}

// Statistics groups the configured salaries of active employees.
type Statistics = employee.Statistics
