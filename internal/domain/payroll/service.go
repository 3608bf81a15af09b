package payroll

import "context"

type PayrollService interface {
	List(ctx context.Context, filter SalaryFilter) (ListSalaryResponse, error)
	GetEmployeeSalary(ctx context.Context, employeeID string, period Period) (EmployeeSalary, error)
	Calculate(ctx context.Context, req CalculateRequest) (SalaryCalculation, error)
	GetStatistics(ctx context.Context) (Statistics, error)
}
