package payroll

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/payroll"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/system"
	"github.com/aquaclean/aquaclean-backend-go/internal/service/statistics"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	employeeRepo    employee.EmployeeRepository
	attendanceRepo  attendance.AttendanceRepository
	settingsRepo    system.SettingsRepository
	defaultCurrency string
	loc             *time.Location
	now             func() time.Time
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	settingsRepo system.SettingsRepository,
	defaultCurrency string,
	loc *time.Location,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		employeeRepo:    employeeRepo,
		attendanceRepo:  attendanceRepo,
		settingsRepo:    settingsRepo,
		defaultCurrency: defaultCurrency,
		loc:             loc,
		now:             time.Now,
	}
}

// currency is the configured settings currency, or the process default
// until settings have been saved.
func (s *PayrollServiceImpl) currency(ctx context.Context) (string, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, system.ErrSettingsNotFound) {
			return s.defaultCurrency, nil
		}
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.Business.Currency == "" {
		return s.defaultCurrency, nil
	}
	return settings.Business.Currency, nil
}

func (s *PayrollServiceImpl) records(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	records, _, err := s.attendanceRepo.List(ctx, attendance.AttendanceFilter{
		EmployeeID: &employeeID,
		From:       &from,
		To:         &to,
		SortBy:     "date",
		SortOrder:  "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return records, nil
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.SalaryFilter) (payroll.ListSalaryResponse, error) {
	if err := filter.Validate(s.loc, s.now()); err != nil {
		return payroll.ListSalaryResponse{}, err
	}
	currency, err := s.currency(ctx)
	if err != nil {
		return payroll.ListSalaryResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{
		Department: filter.Department,
		Position:   filter.Position,
		Status:     filter.Status,
		Page:       filter.Page,
		Limit:      filter.Limit,
		SortBy:     "employee_code",
		SortOrder:  "asc",
	})
	if err != nil {
		return payroll.ListSalaryResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	summary := payroll.ListSummary{
		TotalBaseSalary:  decimal.Zero,
		TotalOvertimePay: decimal.Zero,
		TotalPayroll:     decimal.Zero,
	}
	salaries := make([]payroll.SalaryCalculation, 0, len(employees))
	for _, emp := range employees {
		records, err := s.records(ctx, emp.ID, filter.From, filter.To)
		if err != nil {
			return payroll.ListSalaryResponse{}, err
		}
		calc := CalculateSalary(emp, records, filter.From, filter.To, s.loc, currency)
		salaries = append(salaries, calc)

		summary.TotalBaseSalary = summary.TotalBaseSalary.Add(calc.BaseSalary)
		summary.TotalOvertimePay = summary.TotalOvertimePay.Add(calc.OvertimePay)
		summary.TotalPayroll = summary.TotalPayroll.Add(calc.TotalSalary)
	}

	return payroll.ListSalaryResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		PeriodStart: filter.From,
		PeriodEnd:   filter.To,
		Salaries:    salaries,
		Summary:     summary,
	}, nil
}

func (s *PayrollServiceImpl) calculate(ctx context.Context, employeeID string, from, to time.Time) (payroll.SalaryCalculation, []attendance.Record, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.SalaryCalculation{}, nil, err
	}
	currency, err := s.currency(ctx)
	if err != nil {
		return payroll.SalaryCalculation{}, nil, err
	}
	records, err := s.records(ctx, emp.ID, from, to)
	if err != nil {
		return payroll.SalaryCalculation{}, nil, err
	}
	return CalculateSalary(emp, records, from, to, s.loc, currency), records, nil
}

// GetEmployeeSalary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetEmployeeSalary(ctx context.Context, employeeID string, period payroll.Period) (payroll.EmployeeSalary, error) {
	if err := period.Validate(s.loc, s.now()); err != nil {
		return payroll.EmployeeSalary{}, err
	}

	calc, records, err := s.calculate(ctx, employeeID, period.From, period.To)
	if err != nil {
		return payroll.EmployeeSalary{}, err
	}
	return payroll.EmployeeSalary{SalaryCalculation: calc, Attendance: records}, nil
}

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.SalaryCalculation, error) {
	if err := req.Validate(s.loc); err != nil {
		return payroll.SalaryCalculation{}, err
	}

	calc, _, err := s.calculate(ctx, req.EmployeeID, req.From, req.To)
	return calc, err
}

// GetStatistics implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetStatistics(ctx context.Context) (payroll.Statistics, error) {
	active := string(employee.EmploymentStatusActive)
	employees, _, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{Status: &active})
	if err != nil {
		return payroll.Statistics{}, fmt.Errorf("failed to list employees: %w", err)
	}
	return statistics.Employees(employees), nil
}
