package attendance

import (
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/validator"
)

type ClockRequest struct {
	EmployeeCode string `json:"employee_code"`
	Location     string `json:"location,omitempty"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeCode) {
		errs.Add("employee_code", "employee_code is required")
	}
	if len(r.Location) > 100 {
		errs.Add("location", "location must not exceed 100 characters")
	}
	return errs.Err()
}

// CreateAttendanceRequest is a manual entry made by a manager.
type CreateAttendanceRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`     // YYYY-MM-DD
	TimeIn     string  `json:"time_in"`  // RFC3339
	TimeOut    *string `json:"time_out"` // RFC3339
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
	Status     string  `json:"status,omitempty"`
	Shift      string  `json:"shift,omitempty"`
	ShiftStart string  `json:"shift_start,omitempty"`
	ShiftEnd   string  `json:"shift_end,omitempty"`
	Location   string  `json:"location,omitempty"`
	Notes      string  `json:"notes,omitempty"`

	EnteredBy string `json:"-"`

	ParsedDate       time.Time  `json:"-"`
	ParsedTimeIn     time.Time  `json:"-"`
	ParsedTimeOut    *time.Time `json:"-"`
	ParsedBreakStart *time.Time `json:"-"`
	ParsedBreakEnd   *time.Time `json:"-"`
}

func (r *CreateAttendanceRequest) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if d, err := time.ParseInLocation("2006-01-02", r.Date, loc); err != nil {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	} else {
		r.ParsedDate = d
	}
	if t, ok := validator.IsValidDateTime(r.TimeIn); !ok {
		errs.Add("time_in", "time_in must be an ISO8601 timestamp")
	} else {
		r.ParsedTimeIn = t
	}
	r.ParsedTimeOut = parseOptionalTime(&errs, "time_out", r.TimeOut)
	r.ParsedBreakStart = parseOptionalTime(&errs, "break_start", r.BreakStart)
	r.ParsedBreakEnd = parseOptionalTime(&errs, "break_end", r.BreakEnd)
	if r.ParsedTimeOut != nil && r.ParsedTimeOut.Before(r.ParsedTimeIn) {
		errs.Add("time_out", "time_out must not be before time_in")
	}
	if r.ParsedBreakEnd != nil && r.ParsedBreakStart == nil {
		errs.Add("break_end", "break_end requires break_start")
	}

	if r.Status != "" && !validator.IsInSlice(r.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	validateShift(&errs, &r.Shift, &r.ShiftStart, &r.ShiftEnd)
	if len(r.Location) > 100 {
		errs.Add("location", "location must not exceed 100 characters")
	}
	if len(r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

type UpdateAttendanceRequest struct {
	ID         string  `json:"-"`
	TimeIn     *string `json:"time_in,omitempty"`
	TimeOut    *string `json:"time_out,omitempty"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
	Status     *string `json:"status,omitempty"`
	Shift      *string `json:"shift,omitempty"`
	ShiftStart *string `json:"shift_start,omitempty"`
	ShiftEnd   *string `json:"shift_end,omitempty"`
	Location   *string `json:"location,omitempty"`
	Notes      *string `json:"notes,omitempty"`

	ParsedTimeIn     *time.Time `json:"-"`
	ParsedTimeOut    *time.Time `json:"-"`
	ParsedBreakStart *time.Time `json:"-"`
	ParsedBreakEnd   *time.Time `json:"-"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	r.ParsedTimeIn = parseOptionalTime(&errs, "time_in", r.TimeIn)
	r.ParsedTimeOut = parseOptionalTime(&errs, "time_out", r.TimeOut)
	r.ParsedBreakStart = parseOptionalTime(&errs, "break_start", r.BreakStart)
	r.ParsedBreakEnd = parseOptionalTime(&errs, "break_end", r.BreakEnd)
	if r.Status != nil && !validator.IsInSlice(*r.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	if r.Shift != nil && !validator.IsInSlice(*r.Shift, Shifts) {
		errs.Add("shift", "shift must be one of: "+strings.Join(Shifts, ", "))
	}
	if r.ShiftStart != nil && !validator.IsValidTimeOfDay(*r.ShiftStart) {
		errs.Add("shift_start", "shift_start must be in HH:MM format")
	}
	if r.ShiftEnd != nil && !validator.IsValidTimeOfDay(*r.ShiftEnd) {
		errs.Add("shift_end", "shift_end must be in HH:MM format")
	}
	if r.Location != nil && len(*r.Location) > 100 {
		errs.Add("location", "location must not exceed 100 characters")
	}
	if r.Notes != nil && len(*r.Notes) > 500 {
		errs.Add("notes", "notes must not exceed 500 characters")
	}

	return errs.Err()
}

// Apply copies the supplied fields onto rec. Derived fields are refreshed
// by the caller afterwards.
func (r *UpdateAttendanceRequest) Apply(rec *Record) {
	if r.ParsedTimeIn != nil {
		rec.TimeIn = r.ParsedTimeIn
	}
	if r.ParsedTimeOut != nil {
		rec.TimeOut = r.ParsedTimeOut
	}
	if r.ParsedBreakStart != nil {
		rec.BreakStart = r.ParsedBreakStart
	}
	if r.ParsedBreakEnd != nil {
		rec.BreakEnd = r.ParsedBreakEnd
	}
	if r.Status != nil {
		rec.Status = Status(*r.Status)
	}
	if r.Shift != nil {
		rec.Shift = Shift(*r.Shift)
	}
	if r.ShiftStart != nil {
		rec.ShiftStart = *r.ShiftStart
	}
	if r.ShiftEnd != nil {
		rec.ShiftEnd = *r.ShiftEnd
	}
	if r.Location != nil {
		rec.Location = *r.Location
	}
	if r.Notes != nil {
		rec.Notes = *r.Notes
	}
}

type ApproveRequest struct {
	ID         string `json:"-"`
	ApprovedBy string `json:"-"`
	Notes      string `json:"notes,omitempty"`
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	IsApproved *bool   `json:"is_approved,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`

	// Pagination; a zero Limit on the repository means no paging.
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, time_in, status
	SortOrder string `json:"sort_order"` // asc, desc
}

var attendanceSortFields = []string{"date", "employee_name", "time_in", "status"}

func (f *AttendanceFilter) Validate(loc *time.Location) error {
	errs := validator.Pagination(&f.Page, &f.Limit, 20)

	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	var rangeErrs validator.ValidationErrors
	f.From, f.To, rangeErrs = validator.DateRange(f.StartDate, f.EndDate, loc)
	errs = append(errs, rangeErrs...)
	if f.SortBy == "" {
		f.SortBy = "date"
	} else if !validator.IsInSlice(f.SortBy, attendanceSortFields) {
		errs.Add("sort_by", "sort_by must be one of: "+strings.Join(attendanceSortFields, ", "))
	}
	errs = append(errs, validator.SortOrder(&f.SortOrder, "desc")...)

	return errs.Err()
}

type ListAttendanceResponse struct {
	TotalCount  int64    `json:"total_count"`
	Page        int      `json:"page"`
	Limit       int      `json:"limit"`
	TotalPages  int      `json:"total_pages"`
	Attendances []Record `json:"attendances"`
}

// StatisticsRequest selects a date range; both bounds default to the
// current month.
type StatisticsRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`

	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`
}

func (r *StatisticsRequest) Validate(loc *time.Location, now time.Time) error {
	var errs validator.ValidationErrors
	r.From, r.To, errs = validator.DateRange(r.StartDate, r.EndDate, loc)
	local := now.In(loc)
	if r.From == nil {
		from := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		r.From = &from
	}
	if r.To == nil {
		to := time.Date(local.Year(), local.Month()+1, 1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
		r.To = &to
	}
	return errs.Err()
}

type Statistics struct {
	Overall OverallStatistics `json:"overall"`
	Daily   []DailyStatistic  `json:"daily"`
}

type OverallStatistics struct {
	TotalDays          int     `json:"total_days"`
	PresentDays        int     `json:"present_days"`
	AbsentDays         int     `json:"absent_days"`
	LateDays           int     `json:"late_days"`
	TotalWorkHours     float64 `json:"total_work_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	AvgWorkHours       float64 `json:"avg_work_hours"`
}

type DailyStatistic struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	PresentCount   int     `json:"present_count"`
	AbsentCount    int     `json:"absent_count"`
	LateCount      int     `json:"late_count"`
	TotalWorkHours float64 `json:"total_work_hours"`
}

type EmployeeSummary struct {
	Attendance []Record          `json:"attendance"`
	Statistics OverallStatistics `json:"statistics"`
}

func parseOptionalTime(errs *validator.ValidationErrors, field string, value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, ok := validator.IsValidDateTime(*value)
	if !ok {
		errs.Add(field, field+" must be an ISO8601 timestamp")
		return nil
	}
	return &t
}

func validateShift(errs *validator.ValidationErrors, shift, start, end *string) {
	if *shift == "" {
		*shift = string(ShiftMorning)
	} else if !validator.IsInSlice(*shift, Shifts) {
		errs.Add("shift", "shift must be one of: "+strings.Join(Shifts, ", "))
	}
	if *start == "" {
		*start = DefaultShiftStart
	} else if !validator.IsValidTimeOfDay(*start) {
		errs.Add("shift_start", "shift_start must be in HH:MM format")
	}
	if *end == "" {
		*end = DefaultShiftEnd
	} else if !validator.IsValidTimeOfDay(*end) {
		errs.Add("shift_end", "shift_end must be in HH:MM format")
	}
}
