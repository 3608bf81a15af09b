package payroll

import (
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

const (
	// MonthlyStandardHours converts a non-hourly rate to an hourly equivalent.
	MonthlyStandardHours = 160
	// MonthlyWorkingDays converts a non-daily rate to a daily rate.
	MonthlyWorkingDays = 22
)

// OvertimeMultiplier is applied to the hourly equivalent for overtime hours.
var OvertimeMultiplier = decimal.NewFromFloat(1.5)

// SalaryCalculation is the computed pay of one employee over one period.
type SalaryCalculation struct {
	Employee    EmployeeSummary `json:"employee"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	OvertimePay decimal.Decimal `json:"overtime_pay"`
	TotalSalary decimal.Decimal `json:"total_salary"`
	Currency    string          `json:"currency"`
	Breakdown   Breakdown       `json:"breakdown"`
}

type EmployeeSummary struct {
	ID           string              `json:"id"`
	EmployeeCode string              `json:"employee_code"`
	FullName     string              `json:"full_name"`
	Position     employee.Position   `json:"position"`
	Department   employee.Department `json:"department"`
	Salary       decimal.Decimal     `json:"salary"`
	SalaryType   employee.SalaryType `json:"salary_type"`
}

type Breakdown struct {
	DailyRate          decimal.Decimal `json:"daily_rate"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	OvertimeRate       decimal.Decimal `json:"overtime_rate"`
	TotalWorkHours     decimal.Decimal `json:"total_work_hours"`
	TotalOvertimeHours decimal.Decimal `json:"total_overtime_hours"`
	PresentDays        int             `json:"present_days"`
	AbsentDays         int             `json:"absent_days"`
	LateDays           int             `json:"late_days"`
	TotalDays          int             `json:"total_days"`
	PeriodDays         int             `json:"period_days"`
}
