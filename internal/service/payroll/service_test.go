package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/payroll"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/system"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc        payroll.PayrollService
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	settings   system.SettingsRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	f := fixture{
		employees:  memory.NewEmployeeRepository(store),
		attendance: memory.NewAttendanceRepository(store),
		settings:   memory.NewSettingsRepository(store),
	}
	svc := NewPayrollService(f.employees, f.attendance, f.settings, "PHP", manila)
	svc.(*PayrollServiceImpl).now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, manila) }
	f.svc = svc
	return f
}

func (f fixture) hire(t *testing.T, code string, dept employee.Department, status employee.EmploymentStatus, salary int64) employee.Employee {
	t.Helper()
	emp, err := f.employees.Create(context.Background(), employee.Employee{
		EmployeeCode:     code,
		FirstName:        "Staff",
		LastName:         code,
		Email:            code + "@aquaclean.test",
		Position:         employee.PositionLaundryAttendant,
		Department:       dept,
		Salary:           decimal.NewFromInt(salary),
		SalaryType:       employee.SalaryTypeMonthly,
		EmploymentStatus: status,
	})
	require.NoError(t, err)
	return emp
}

func (f fixture) attend(t *testing.T, emp employee.Employee, d int, overtime float64) {
	t.Helper()
	_, err := f.attendance.Create(context.Background(), attendance.Record{
		EmployeeID:    emp.ID,
		EmployeeCode:  emp.EmployeeCode,
		EmployeeName:  emp.FullName(),
		Date:          time.Date(2024, 3, d, 0, 0, 0, 0, manila),
		Status:        attendance.StatusPresent,
		WorkHours:     8 + overtime,
		OvertimeHours: overtime,
	})
	require.NoError(t, err)
}

func TestList_DefaultsToCurrentMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.hire(t, "EMP20240001", employee.DepartmentLaundry, employee.EmploymentStatusActive, 16000)
	f.hire(t, "EMP20240002", employee.DepartmentWaterRefilling, employee.EmploymentStatusActive, 12000)
	f.attend(t, a, 4, 4)
	f.attend(t, a, 5, 6)

	res, err := f.svc.List(ctx, payroll.SalaryFilter{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, res.TotalCount)
	assert.Equal(t, 1, res.PeriodStart.Day())
	assert.Equal(t, 31, res.PeriodEnd.Day())
	require.Len(t, res.Salaries, 2)
	assert.Equal(t, "EMP20240001", res.Salaries[0].Employee.EmployeeCode)
	assert.True(t, res.Salaries[0].TotalSalary.Equal(decimal.NewFromInt(17500)))
	assert.Equal(t, "PHP", res.Salaries[0].Currency)
	assert.True(t, res.Summary.TotalBaseSalary.Equal(decimal.NewFromInt(28000)))
	assert.True(t, res.Summary.TotalOvertimePay.Equal(decimal.NewFromInt(1500)))
	assert.True(t, res.Summary.TotalPayroll.Equal(decimal.NewFromInt(29500)))

	laundry := string(employee.DepartmentLaundry)
	filtered, err := f.svc.List(ctx, payroll.SalaryFilter{Department: &laundry})
	require.NoError(t, err)
	assert.EqualValues(t, 1, filtered.TotalCount)
}

func TestGetEmployeeSalary_UsesSettingsCurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a := f.hire(t, "EMP20240001", employee.DepartmentLaundry, employee.EmploymentStatusActive, 16000)
	f.attend(t, a, 4, 2)

	settings := system.DefaultSettings("USD", "Asia/Manila", decimal.NewFromInt(12))
	require.NoError(t, f.settings.Save(ctx, settings))

	res, err := f.svc.GetEmployeeSalary(ctx, a.ID, payroll.Period{})
	require.NoError(t, err)
	assert.Equal(t, "USD", res.Currency)
	assert.Len(t, res.Attendance, 1)
	assert.True(t, res.OvertimePay.Equal(decimal.NewFromInt(300)))

	_, err = f.svc.GetEmployeeSalary(ctx, "missing", payroll.Period{})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCalculate_ValidatesPeriod(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.hire(t, "EMP20240001", employee.DepartmentLaundry, employee.EmploymentStatusActive, 16000)
	f.attend(t, a, 4, 2)
	f.attend(t, a, 20, 2)

	_, err := f.svc.Calculate(ctx, payroll.CalculateRequest{EmployeeID: a.ID, StartDate: "2024-03-10", EndDate: "2024-03-01"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "end_date")

	calc, err := f.svc.Calculate(ctx, payroll.CalculateRequest{EmployeeID: a.ID, StartDate: "2024-03-01", EndDate: "2024-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 1, calc.Breakdown.TotalDays)
	assert.Equal(t, 10, calc.Breakdown.PeriodDays)
}

func TestGetStatistics_CountsActiveEmployeesOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.hire(t, "EMP20240001", employee.DepartmentLaundry, employee.EmploymentStatusActive, 16000)
	f.hire(t, "EMP20240002", employee.DepartmentLaundry, employee.EmploymentStatusActive, 12000)
	f.hire(t, "EMP20240003", employee.DepartmentLaundry, employee.EmploymentStatusTerminated, 50000)

	stats, err := f.svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Overall.TotalEmployees)
	assert.True(t, stats.Overall.TotalSalary.Equal(decimal.NewFromInt(28000)))
	group := stats.ByDepartment[employee.DepartmentLaundry]
	assert.Equal(t, 2, group.Count)
	assert.True(t, group.AvgSalary.Equal(decimal.NewFromInt(14000)))
}
