package memory

import (
	"context"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) exists(employeeID string, date time.Time, exceptID string) bool {
	key := dateKey(date)
	for _, rec := range r.s.attendance {
		if rec.ID != exceptID && rec.EmployeeID == employeeID && dateKey(rec.Date) == key {
			return true
		}
	}
	return false
}

func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	if r.exists(rec.EmployeeID, rec.Date, "") {
		return attendance.Record{}, attendance.ErrAttendanceExists
	}
	if rec.ID == "" {
		rec.ID = newID()
	}
	stamp(&rec.CreatedAt, &rec.UpdatedAt)
	r.s.attendance[rec.ID] = rec
	return rec, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	rec, ok := r.s.attendance[id]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	key := dateKey(date)
	for _, rec := range r.s.attendance {
		if rec.EmployeeID == employeeID && dateKey(rec.Date) == key {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrAttendanceNotFound
}

func matchAttendance(rec attendance.Record, f attendance.AttendanceFilter) bool {
	if f.EmployeeID != nil && rec.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Status != nil && string(rec.Status) != *f.Status {
		return false
	}
	if f.IsApproved != nil && rec.IsApproved != *f.IsApproved {
		return false
	}
	day := dateKey(rec.Date)
	if f.From != nil && day < dateKey(*f.From) {
		return false
	}
	if f.To != nil && day > dateKey(*f.To) {
		return false
	}
	return true
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	matched := make([]attendance.Record, 0)
	for _, rec := range r.s.attendance {
		if matchAttendance(rec, filter) {
			matched = append(matched, rec)
		}
	}

	cmp := func(a, b attendance.Record) int { return strings.Compare(dateKey(a.Date), dateKey(b.Date)) }
	switch filter.SortBy {
	case "employee_name":
		cmp = func(a, b attendance.Record) int { return strings.Compare(a.EmployeeName, b.EmployeeName) }
	case "time_in":
		cmp = func(a, b attendance.Record) int { return compareOptionalTime(a.TimeIn, b.TimeIn) }
	case "status":
		cmp = func(a, b attendance.Record) int { return strings.Compare(string(a.Status), string(b.Status)) }
	}
	desc := filter.SortOrder == "" || strings.EqualFold(filter.SortOrder, "desc")
	sortBy(matched, desc, cmp, func(rec attendance.Record) string { return rec.ID })

	total := int64(len(matched))
	return paginate(matched, filter.Page, filter.Limit), total, nil
}

func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	unlock := r.s.lock(ctx)
	defer unlock()

	existing, ok := r.s.attendance[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	if r.exists(rec.EmployeeID, rec.Date, rec.ID) {
		return attendance.Record{}, attendance.ErrAttendanceExists
	}
	rec.CreatedAt = existing.CreatedAt
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	r.s.attendance[rec.ID] = rec
	return rec, nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if _, ok := r.s.attendance[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.s.attendance, id)
	return nil
}
