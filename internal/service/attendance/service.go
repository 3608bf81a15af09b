package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/aquaclean/aquaclean-backend-go/internal/service/statistics"
)

type AttendanceServiceImpl struct {
	tx             database.Transactor
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// clock returns the current instant and its calendar date, both in the
// business timezone.
func (s *AttendanceServiceImpl) clock() (time.Time, time.Time) {
	nowLocal := s.now().In(s.loc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, s.loc)
	return nowLocal, today
}

func (s *AttendanceServiceImpl) clockableEmployee(ctx context.Context, code string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return employee.Employee{}, err
	}
	if emp.EmploymentStatus.Deactivates() {
		return employee.Employee{}, employee.ErrEmployeeNotClockable
	}
	return emp, nil
}

// todayOpen loads today's record of the employee behind req and checks that
// it has been clocked in but not out.
func (s *AttendanceServiceImpl) todayOpen(ctx context.Context, req attendance.ClockRequest, today time.Time) (attendance.Record, error) {
	emp, err := s.clockableEmployee(ctx, req.EmployeeCode)
	if err != nil {
		return attendance.Record{}, err
	}
	rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Record{}, attendance.ErrNotClockedIn
		}
		return attendance.Record{}, err
	}
	if rec.TimeIn == nil {
		return attendance.Record{}, attendance.ErrNotClockedIn
	}
	if rec.TimeOut != nil {
		return attendance.Record{}, attendance.ErrAlreadyClockedOut
	}
	return rec, nil
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}
	nowLocal, today := s.clock()

	var result attendance.Record
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.clockableEmployee(ctx, req.EmployeeCode)
		if err != nil {
			return err
		}

		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, today)
		switch {
		case err == nil && existing.TimeIn != nil:
			return attendance.ErrAlreadyClockedIn
		case err == nil:
			existing.TimeIn = &nowLocal
			if req.Location != "" {
				existing.Location = req.Location
			}
			existing.UpdatedAt = nowLocal
			refresh(&existing, s.loc)
			result, err = s.attendanceRepo.Update(ctx, existing)
			return err
		case !errors.Is(err, attendance.ErrAttendanceNotFound):
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		rec := attendance.Record{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.EmployeeCode,
			EmployeeName: emp.FullName(),
			Date:         today,
			TimeIn:       &nowLocal,
			Status:       attendance.StatusPresent,
			Shift:        attendance.ShiftMorning,
			ShiftStart:   attendance.DefaultShiftStart,
			ShiftEnd:     attendance.DefaultShiftEnd,
			Location:     req.Location,
			CreatedAt:    nowLocal,
			UpdatedAt:    nowLocal,
		}
		refresh(&rec, s.loc)

		result, err = s.attendanceRepo.Create(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}

	slog.Info("employee clocked in", "employee_code", result.EmployeeCode, "status", result.Status)
	return result, nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}
	nowLocal, today := s.clock()

	return s.mutateOpen(ctx, req, today, func(rec *attendance.Record) error {
		rec.TimeOut = &nowLocal
		if rec.BreakStart != nil && rec.BreakEnd == nil {
			rec.BreakEnd = &nowLocal
		}
		return nil
	})
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.ClockRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}
	nowLocal, today := s.clock()

	return s.mutateOpen(ctx, req, today, func(rec *attendance.Record) error {
		if rec.BreakStart != nil {
			return attendance.ErrBreakAlreadyTaken
		}
		rec.BreakStart = &nowLocal
		return nil
	})
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context, req attendance.ClockRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}
	nowLocal, today := s.clock()

	return s.mutateOpen(ctx, req, today, func(rec *attendance.Record) error {
		if rec.BreakStart == nil {
			return attendance.ErrBreakNotStarted
		}
		if rec.BreakEnd != nil {
			return attendance.ErrBreakAlreadyTaken
		}
		rec.BreakEnd = &nowLocal
		return nil
	})
}

func (s *AttendanceServiceImpl) mutateOpen(ctx context.Context, req attendance.ClockRequest, today time.Time, change func(rec *attendance.Record) error) (attendance.Record, error) {
	var result attendance.Record
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.todayOpen(ctx, req, today)
		if err != nil {
			return err
		}
		if err := change(&rec); err != nil {
			return err
		}
		rec.UpdatedAt = s.now()
		refresh(&rec, s.loc)

		result, err = s.attendanceRepo.Update(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return result, nil
}

// Create implements attendance.AttendanceService for manual entries.
func (s *AttendanceServiceImpl) Create(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.Record, error) {
	if err := req.Validate(s.loc); err != nil {
		return attendance.Record{}, err
	}

	var result attendance.Record
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		now := s.now()
		timeIn := req.ParsedTimeIn
		rec := attendance.Record{
			EmployeeID:    emp.ID,
			EmployeeCode:  emp.EmployeeCode,
			EmployeeName:  emp.FullName(),
			Date:          req.ParsedDate,
			TimeIn:        &timeIn,
			TimeOut:       req.ParsedTimeOut,
			BreakStart:    req.ParsedBreakStart,
			BreakEnd:      req.ParsedBreakEnd,
			Status:        attendance.Status(req.Status),
			Shift:         attendance.Shift(req.Shift),
			ShiftStart:    req.ShiftStart,
			ShiftEnd:      req.ShiftEnd,
			Location:      req.Location,
			Notes:         req.Notes,
			IsManualEntry: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if req.EnteredBy != "" {
			enteredBy := req.EnteredBy
			rec.EnteredBy = &enteredBy
		}
		refresh(&rec, s.loc)

		result, err = s.attendanceRepo.Create(ctx, rec)
		return err
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return result, nil
}

// GetByID implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	rec, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(s.loc); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: records,
	}, nil
}

// Update implements attendance.AttendanceService. Approved records stay
// editable; the derived values are recomputed on every change.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.Record, error) {
	if err := req.Validate(); err != nil {
		return attendance.Record{}, err
	}

	var result attendance.Record
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		req.Apply(&rec)
		if rec.TimeIn != nil && rec.TimeOut != nil && rec.TimeOut.Before(*rec.TimeIn) {
			return attendance.ErrTimeOutBeforeTimeIn
		}
		rec.UpdatedAt = s.now()
		refresh(&rec, s.loc)

		result, err = s.attendanceRepo.Update(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}
	return result, nil
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	return nil
}

// Approve implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Approve(ctx context.Context, req attendance.ApproveRequest) (attendance.Record, error) {
	var result attendance.Record
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := s.attendanceRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if rec.IsApproved {
			return attendance.ErrAlreadyApproved
		}

		now := s.now()
		approvedBy := req.ApprovedBy
		rec.IsApproved = true
		rec.ApprovedBy = &approvedBy
		rec.ApprovedAt = &now
		if req.Notes != "" {
			rec.Notes = req.Notes
		}
		rec.UpdatedAt = now

		result, err = s.attendanceRepo.Update(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to approve attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.Record{}, err
	}

	slog.Info("attendance approved", "attendance_id", result.ID, "approved_by", req.ApprovedBy)
	return result, nil
}

func (s *AttendanceServiceImpl) recordsInRange(ctx context.Context, employeeID *string, req *attendance.StatisticsRequest) ([]attendance.Record, error) {
	if err := req.Validate(s.loc, s.now()); err != nil {
		return nil, err
	}
	records, _, err := s.attendanceRepo.List(ctx, attendance.AttendanceFilter{
		EmployeeID: employeeID,
		From:       req.From,
		To:         req.To,
		SortBy:     "date",
		SortOrder:  "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return records, nil
}

// GetStatistics implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStatistics(ctx context.Context, req attendance.StatisticsRequest) (attendance.Statistics, error) {
	records, err := s.recordsInRange(ctx, req.EmployeeID, &req)
	if err != nil {
		return attendance.Statistics{}, err
	}
	return statistics.Attendance(records), nil
}

// GetEmployeeSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeSummary(ctx context.Context, employeeID string, req attendance.StatisticsRequest) (attendance.EmployeeSummary, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.EmployeeSummary{}, err
	}

	records, err := s.recordsInRange(ctx, &employeeID, &req)
	if err != nil {
		return attendance.EmployeeSummary{}, err
	}
	return attendance.EmployeeSummary{
		Attendance: records,
		Statistics: statistics.AttendanceOverall(records),
	}, nil
}
