package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, rec Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	// GetByEmployeeAndDate finds the record of employeeID on the calendar
	// date of date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Record, int64, error)
	Update(ctx context.Context, rec Record) (Record, error)
	Delete(ctx context.Context, id string) error
}
