package payroll

import (
	"testing"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var manila = time.FixedZone("PHT", 8*3600)

var (
	march1  = time.Date(2024, 3, 1, 0, 0, 0, 0, manila)
	march31 = time.Date(2024, 4, 1, 0, 0, 0, 0, manila).Add(-time.Nanosecond)
)

func worker(salaryType employee.SalaryType, rate int64) employee.Employee {
	return employee.Employee{
		ID:           "emp-1",
		EmployeeCode: "EMP20240001",
		FirstName:    "Juan",
		LastName:     "Dela Cruz",
		Position:     employee.PositionCashier,
		Department:   employee.DepartmentLaundry,
		Salary:       decimal.NewFromInt(rate),
		SalaryType:   salaryType,
	}
}

func day(d int, status attendance.Status, work, overtime float64) attendance.Record {
	return attendance.Record{
		Date:          time.Date(2024, 3, d, 0, 0, 0, 0, manila),
		Status:        status,
		WorkHours:     work,
		OvertimeHours: overtime,
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCalculateSalary(t *testing.T) {
	records := []attendance.Record{
		day(4, attendance.StatusPresent, 13, 5),
		day(5, attendance.StatusPresent, 13, 5),
		day(6, attendance.StatusLate, 8, 0),
	}

	tests := []struct {
		name         string
		emp          employee.Employee
		wantBase     string
		wantOvertime string
		wantHourly   string
		wantDaily    string
	}{
		{
			name:         "monthly pays the flat rate",
			emp:          worker(employee.SalaryTypeMonthly, 16000),
			wantBase:     "16000",
			wantOvertime: "1500",
			wantHourly:   "100",
			wantDaily:    "727.27",
		},
		{
			name:         "hourly pays worked hours",
			emp:          worker(employee.SalaryTypeHourly, 100),
			wantBase:     "3400",
			wantOvertime: "1500",
			wantHourly:   "100",
			wantDaily:    "4.55",
		},
		{
			name:         "daily pays present days",
			emp:          worker(employee.SalaryTypeDaily, 500),
			wantBase:     "1000",
			wantOvertime: "46.88",
			wantHourly:   "3.13",
			wantDaily:    "500",
		},
		{
			name:         "weekly pays started weeks",
			emp:          worker(employee.SalaryTypeWeekly, 4000),
			wantBase:     "20000",
			wantOvertime: "375",
			wantHourly:   "25",
			wantDaily:    "181.82",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := CalculateSalary(tt.emp, records, march1, march31, manila, "PHP")

			assert.True(t, calc.BaseSalary.Equal(dec(tt.wantBase)), "base %s", calc.BaseSalary)
			assert.True(t, calc.OvertimePay.Equal(dec(tt.wantOvertime)), "overtime %s", calc.OvertimePay)
			assert.True(t, calc.TotalSalary.Equal(calc.BaseSalary.Add(calc.OvertimePay)))
			assert.True(t, calc.Breakdown.HourlyRate.Equal(dec(tt.wantHourly)), "hourly %s", calc.Breakdown.HourlyRate)
			assert.True(t, calc.Breakdown.DailyRate.Equal(dec(tt.wantDaily)), "daily %s", calc.Breakdown.DailyRate)
			assert.Equal(t, "PHP", calc.Currency)
		})
	}
}

func TestCalculateSalary_WeeklyCountsElapsedWeeks(t *testing.T) {
	tests := []struct {
		name       string
		from, to   time.Time
		wantBase   string
		wantPeriod int
	}{
		{
			name:       "leap february",
			from:       time.Date(2024, 2, 1, 0, 0, 0, 0, manila),
			to:         time.Date(2024, 2, 29, 23, 59, 59, 0, manila),
			wantBase:   "4000",
			wantPeriod: 29,
		},
		{
			name:       "one full week",
			from:       time.Date(2024, 3, 4, 0, 0, 0, 0, manila),
			to:         time.Date(2024, 3, 11, 23, 59, 59, 0, manila),
			wantBase:   "1000",
			wantPeriod: 8,
		},
		{
			name:       "a ninth day starts a second week",
			from:       time.Date(2024, 3, 4, 0, 0, 0, 0, manila),
			to:         time.Date(2024, 3, 12, 23, 59, 59, 0, manila),
			wantBase:   "2000",
			wantPeriod: 9,
		},
		{
			name:       "single day",
			from:       time.Date(2024, 3, 4, 0, 0, 0, 0, manila),
			to:         time.Date(2024, 3, 4, 23, 59, 59, 0, manila),
			wantBase:   "0",
			wantPeriod: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := CalculateSalary(worker(employee.SalaryTypeWeekly, 1000), nil, tt.from, tt.to, manila, "PHP")

			assert.True(t, calc.BaseSalary.Equal(dec(tt.wantBase)), "base %s", calc.BaseSalary)
			assert.Equal(t, tt.wantPeriod, calc.Breakdown.PeriodDays)
		})
	}
}

func TestCalculateSalary_MonthlyWithTenOvertimeHours(t *testing.T) {
	records := []attendance.Record{
		day(4, attendance.StatusPresent, 13, 5),
		day(5, attendance.StatusPresent, 13, 5),
	}

	calc := CalculateSalary(worker(employee.SalaryTypeMonthly, 16000), records, march1, march31, manila, "PHP")

	assert.True(t, calc.Breakdown.HourlyRate.Equal(dec("100")))
	assert.True(t, calc.Breakdown.OvertimeRate.Equal(dec("150")))
	assert.True(t, calc.OvertimePay.Equal(dec("1500")))
	assert.True(t, calc.TotalSalary.Equal(dec("17500")))
}

func TestCalculateSalary_Breakdown(t *testing.T) {
	records := []attendance.Record{
		day(4, attendance.StatusPresent, 8, 0),
		day(5, attendance.StatusLate, 7.5, 0),
		day(6, attendance.StatusAbsent, 0, 0),
		{Date: time.Date(2024, 2, 29, 0, 0, 0, 0, manila), Status: attendance.StatusPresent, WorkHours: 8},
		// DATE columns come back from Postgres as UTC midnight.
		{Date: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), Status: attendance.StatusPresent, WorkHours: 8},
	}

	calc := CalculateSalary(worker(employee.SalaryTypeMonthly, 16000), records, march1, march31, manila, "PHP")
	b := calc.Breakdown

	assert.Equal(t, 4, b.TotalDays)
	assert.Equal(t, 2, b.PresentDays)
	assert.Equal(t, 1, b.LateDays)
	assert.Equal(t, 1, b.AbsentDays)
	assert.Equal(t, 31, b.PeriodDays)
	assert.True(t, b.TotalWorkHours.Equal(dec("23.5")))
	assert.True(t, b.TotalOvertimeHours.IsZero())
	assert.True(t, calc.OvertimePay.IsZero())
	assert.Equal(t, "Juan Dela Cruz", calc.Employee.FullName)
}

func TestCalculateSalary_NoRecords(t *testing.T) {
	calc := CalculateSalary(worker(employee.SalaryTypeHourly, 120), nil, march1, march1.Add(24*time.Hour-time.Nanosecond), manila, "PHP")

	assert.True(t, calc.BaseSalary.IsZero())
	assert.True(t, calc.TotalSalary.IsZero())
	assert.Equal(t, 1, calc.Breakdown.PeriodDays)
}
