package employee

import "context"

type EmployeeService interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
	Update(ctx context.Context, req UpdateEmployeeRequest) (Employee, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (Employee, error)
	Delete(ctx context.Context, id string, actorEmployeeID *string) error
	GetStatistics(ctx context.Context) (Statistics, error)
}
