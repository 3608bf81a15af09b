package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `id, employee_id, employee_code, employee_name, date, time_in, time_out,
	break_start, break_end, total_hours, break_hours, work_hours, overtime_hours, late_minutes,
	early_departure_minutes, status, shift, shift_start, shift_end, location, notes, is_approved,
	approved_by, approved_at, is_manual_entry, entered_by, created_at, updated_at`

// calendarDay renders the calendar date of t for a DATE column.
func calendarDay(t time.Time) string {
	return t.Format("2006-01-02")
}

func scanAttendance(row scanner) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeCode, &rec.EmployeeName, &rec.Date, &rec.TimeIn, &rec.TimeOut,
		&rec.BreakStart, &rec.BreakEnd, &rec.TotalHours, &rec.BreakHours, &rec.WorkHours, &rec.OvertimeHours, &rec.LateMinutes,
		&rec.EarlyDepartureMinutes, &rec.Status, &rec.Shift, &rec.ShiftStart, &rec.ShiftEnd, &rec.Location, &rec.Notes, &rec.IsApproved,
		&rec.ApprovedBy, &rec.ApprovedAt, &rec.IsManualEntry, &rec.EnteredBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if rec.ID == "" {
		rec.ID = uuid.Must(uuid.NewV7()).String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}

	query := `
		INSERT INTO attendance_records (
			id, employee_id, employee_code, employee_name, date, time_in, time_out,
			break_start, break_end, total_hours, break_hours, work_hours, overtime_hours, late_minutes,
			early_departure_minutes, status, shift, shift_start, shift_end, location, notes, is_approved,
			approved_by, approved_at, is_manual_entry, entered_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, rec.EmployeeCode, rec.EmployeeName, calendarDay(rec.Date), rec.TimeIn, rec.TimeOut,
		rec.BreakStart, rec.BreakEnd, rec.TotalHours, rec.BreakHours, rec.WorkHours, rec.OvertimeHours, rec.LateMinutes,
		rec.EarlyDepartureMinutes, rec.Status, rec.Shift, rec.ShiftStart, rec.ShiftEnd, rec.Location, rec.Notes, rec.IsApproved,
		rec.ApprovedBy, rec.ApprovedAt, rec.IsManualEntry, rec.EnteredBy, rec.CreatedAt, rec.UpdatedAt,
	))
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return attendance.Record{}, attendance.ErrAttendanceExists
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE employee_id = $1 AND date = $2`
	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, calendarDay(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return rec, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.IsApproved != nil {
		baseWhere += fmt.Sprintf(" AND is_approved = $%d", argIdx)
		args = append(args, *filter.IsApproved)
		argIdx++
	}
	if filter.From != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, calendarDay(*filter.From))
		argIdx++
	}
	if filter.To != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, calendarDay(*filter.To))
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_records WHERE "+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	orderByField := "date"
	switch filter.SortBy {
	case "employee_name", "time_in", "status":
		orderByField = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`SELECT %s FROM attendance_records WHERE %s ORDER BY %s %s NULLS LAST, id %s`,
		attendanceColumns, baseWhere, orderByField, sortOrder, sortOrder)
	if filter.Limit > 0 {
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, (max(filter.Page, 1)-1)*filter.Limit)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, total, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	query := `
		UPDATE attendance_records
		SET employee_id = $1, employee_code = $2, employee_name = $3, date = $4, time_in = $5, time_out = $6,
			break_start = $7, break_end = $8, total_hours = $9, break_hours = $10, work_hours = $11,
			overtime_hours = $12, late_minutes = $13, early_departure_minutes = $14, status = $15, shift = $16,
			shift_start = $17, shift_end = $18, location = $19, notes = $20, is_approved = $21,
			approved_by = $22, approved_at = $23, is_manual_entry = $24, entered_by = $25, updated_at = $26
		WHERE id = $27
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query,
		rec.EmployeeID, rec.EmployeeCode, rec.EmployeeName, calendarDay(rec.Date), rec.TimeIn, rec.TimeOut,
		rec.BreakStart, rec.BreakEnd, rec.TotalHours, rec.BreakHours, rec.WorkHours,
		rec.OvertimeHours, rec.LateMinutes, rec.EarlyDepartureMinutes, rec.Status, rec.Shift,
		rec.ShiftStart, rec.ShiftEnd, rec.Location, rec.Notes, rec.IsApproved,
		rec.ApprovedBy, rec.ApprovedAt, rec.IsManualEntry, rec.EnteredBy, rec.UpdatedAt,
		rec.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		if _, ok := isUniqueViolation(err); ok {
			return attendance.Record{}, attendance.ErrAttendanceExists
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return updated, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
