package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/apperror"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   attendance.AttendanceService
	clock *time.Time
	emp   employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)

	emp, err := employees.Create(context.Background(), employee.Employee{
		EmployeeCode:     "EMP20240001",
		FirstName:        "Juan",
		LastName:         "Dela Cruz",
		Email:            "juan@aquaclean.test",
		Position:         employee.PositionCashier,
		Department:       employee.DepartmentLaundry,
		Salary:           decimal.NewFromInt(15000),
		SalaryType:       employee.SalaryTypeMonthly,
		EmploymentStatus: employee.EmploymentStatusActive,
		IsActive:         true,
	})
	require.NoError(t, err)

	f := &fixture{emp: emp}
	now := *at(8, 10)
	f.clock = &now

	svc := NewAttendanceService(store, memory.NewAttendanceRepository(store), employees, manila)
	svc.(*AttendanceServiceImpl).now = func() time.Time { return *f.clock }
	f.svc = svc
	return f
}

func (f *fixture) set(hour, minute int) {
	*f.clock = *at(hour, minute)
}

func (f *fixture) req() attendance.ClockRequest {
	return attendance.ClockRequest{EmployeeCode: f.emp.EmployeeCode, Location: "Main branch"}
}

func ptr[T any](v T) *T { return &v }

func TestClockFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.svc.ClockIn(ctx, f.req())
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 10, rec.LateMinutes)
	assert.Equal(t, "Juan Dela Cruz", rec.EmployeeName)
	assert.Equal(t, "Main branch", rec.Location)

	_, err = f.svc.ClockIn(ctx, f.req())
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)

	_, err = f.svc.EndBreak(ctx, f.req())
	assert.ErrorIs(t, err, attendance.ErrBreakNotStarted)

	f.set(12, 0)
	_, err = f.svc.StartBreak(ctx, f.req())
	require.NoError(t, err)
	_, err = f.svc.StartBreak(ctx, f.req())
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyTaken)

	f.set(13, 0)
	_, err = f.svc.EndBreak(ctx, f.req())
	require.NoError(t, err)

	f.set(17, 30)
	rec, err = f.svc.ClockOut(ctx, f.req())
	require.NoError(t, err)
	assert.Equal(t, 9.33, rec.TotalHours)
	assert.Equal(t, 1.0, rec.BreakHours)
	assert.Equal(t, 8.33, rec.WorkHours)
	assert.Equal(t, 0.33, rec.OvertimeHours)
	assert.Equal(t, attendance.StatusPresent, rec.Status)

	_, err = f.svc.ClockOut(ctx, f.req())
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
	_, err = f.svc.StartBreak(ctx, f.req())
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
}

func TestClockIn_LateArrival(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.set(9, 0)

	rec, err := f.svc.ClockIn(ctx, f.req())
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, rec.Status)

	f.set(17, 0)
	rec, err = f.svc.ClockOut(ctx, f.req())
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, rec.Status)
	assert.Equal(t, 8.0, rec.WorkHours)
}

func TestClockOut_WithoutClockIn(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockOut(context.Background(), f.req())
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
	assert.ErrorIs(t, err, apperror.ErrInvalidState)
}

func TestClockIn_UnknownEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(context.Background(), attendance.ClockRequest{EmployeeCode: "EMP19990001"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func manualRequest(empID, date string) attendance.CreateAttendanceRequest {
	return attendance.CreateAttendanceRequest{
		EmployeeID: empID,
		Date:       date,
		TimeIn:     date + "T08:00:00+08:00",
		TimeOut:    ptr(date + "T17:00:00+08:00"),
		EnteredBy:  "manager-1",
	}
}

func TestCreate_ManualEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.svc.Create(ctx, manualRequest(f.emp.ID, "2024-03-01"))
	require.NoError(t, err)
	assert.True(t, rec.IsManualEntry)
	require.NotNil(t, rec.EnteredBy)
	assert.Equal(t, "manager-1", *rec.EnteredBy)
	assert.Equal(t, attendance.StatusPresent, rec.Status)
	assert.Equal(t, 9.0, rec.WorkHours)
	assert.Equal(t, attendance.ShiftMorning, rec.Shift)

	_, err = f.svc.Create(ctx, manualRequest(f.emp.ID, "2024-03-01"))
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	holiday := manualRequest(f.emp.ID, "2024-03-02")
	holiday.Status = string(attendance.StatusHoliday)
	rec, err = f.svc.Create(ctx, holiday)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, rec.Status)
}

func TestUpdate_RederivesMetrics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.svc.Create(ctx, manualRequest(f.emp.ID, "2024-03-01"))
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, attendance.UpdateAttendanceRequest{
		ID:     rec.ID,
		TimeIn: ptr("2024-03-01T09:00:00+08:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, updated.LateMinutes)
	assert.Equal(t, 8.0, updated.WorkHours)
	assert.Equal(t, attendance.StatusLate, updated.Status)

	_, err = f.svc.Update(ctx, attendance.UpdateAttendanceRequest{
		ID:      rec.ID,
		TimeOut: ptr("2024-03-01T07:00:00+08:00"),
	})
	assert.ErrorIs(t, err, attendance.ErrTimeOutBeforeTimeIn)
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	rec, err := f.svc.Create(ctx, manualRequest(f.emp.ID, "2024-03-01"))
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, attendance.ApproveRequest{ID: rec.ID, ApprovedBy: "manager-1"})
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "manager-1", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	_, err = f.svc.Approve(ctx, attendance.ApproveRequest{ID: rec.ID, ApprovedBy: "manager-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyApproved)

	// Approved records remain editable.
	updated, err := f.svc.Update(ctx, attendance.UpdateAttendanceRequest{ID: rec.ID, Notes: ptr("corrected")})
	require.NoError(t, err)
	assert.Equal(t, "corrected", updated.Notes)
	assert.True(t, updated.IsApproved)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, day := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		_, err := f.svc.Create(ctx, manualRequest(f.emp.ID, day))
		require.NoError(t, err)
	}

	res, err := f.svc.List(ctx, attendance.AttendanceFilter{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.TotalCount)
	assert.Equal(t, 2, res.TotalPages)
	require.Len(t, res.Attendances, 2)
	assert.Equal(t, 3, res.Attendances[0].Date.Day())

	ranged, err := f.svc.List(ctx, attendance.AttendanceFilter{StartDate: ptr("2024-03-02"), EndDate: ptr("2024-03-02")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, ranged.TotalCount)

	require.NoError(t, f.svc.Delete(ctx, res.Attendances[0].ID))
	_, err = f.svc.GetByID(ctx, res.Attendances[0].ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestStatisticsAndSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, manualRequest(f.emp.ID, "2024-03-01"))
	require.NoError(t, err)
	late := manualRequest(f.emp.ID, "2024-03-02")
	late.TimeIn = "2024-03-02T09:00:00+08:00"
	_, err = f.svc.Create(ctx, late)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, manualRequest(f.emp.ID, "2024-02-28"))
	require.NoError(t, err)

	stats, err := f.svc.GetStatistics(ctx, attendance.StatisticsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Overall.TotalDays)
	assert.Equal(t, 1, stats.Overall.PresentDays)
	assert.Equal(t, 1, stats.Overall.LateDays)
	assert.Equal(t, 17.0, stats.Overall.TotalWorkHours)
	require.Len(t, stats.Daily, 2)
	assert.Equal(t, "2024-03-01", stats.Daily[0].Date)

	summary, err := f.svc.GetEmployeeSummary(ctx, f.emp.ID, attendance.StatisticsRequest{StartDate: ptr("2024-02-01")})
	require.NoError(t, err)
	assert.Len(t, summary.Attendance, 3)
	assert.Equal(t, 3, summary.Statistics.TotalDays)

	_, err = f.svc.GetEmployeeSummary(ctx, "missing", attendance.StatisticsRequest{})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
