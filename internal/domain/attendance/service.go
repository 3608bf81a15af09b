package attendance

import "context"

type AttendanceService interface {
	ClockIn(ctx context.Context, req ClockRequest) (Record, error)
	ClockOut(ctx context.Context, req ClockRequest) (Record, error)
	StartBreak(ctx context.Context, req ClockRequest) (Record, error)
	EndBreak(ctx context.Context, req ClockRequest) (Record, error)
	Create(ctx context.Context, req CreateAttendanceRequest) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	Update(ctx context.Context, req UpdateAttendanceRequest) (Record, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, req ApproveRequest) (Record, error)
	GetStatistics(ctx context.Context, req StatisticsRequest) (Statistics, error)
	GetEmployeeSummary(ctx context.Context, employeeID string, req StatisticsRequest) (EmployeeSummary, error)
}
