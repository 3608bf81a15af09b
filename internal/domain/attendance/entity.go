package attendance

import "time"

// Record is one employee's attendance for one calendar date. The hour and
// minute fields are derived and refreshed whenever a time field changes.
type Record struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`

	Date       time.Time  `json:"date"`
	TimeIn     *time.Time `json:"time_in,omitempty"`
	TimeOut    *time.Time `json:"time_out,omitempty"`
	BreakStart *time.Time `json:"break_start,omitempty"`
	BreakEnd   *time.Time `json:"break_end,omitempty"`

	TotalHours            float64 `json:"total_hours"`
	BreakHours            float64 `json:"break_hours"`
	WorkHours             float64 `json:"work_hours"`
	OvertimeHours         float64 `json:"overtime_hours"`
	LateMinutes           int     `json:"late_minutes"`
	EarlyDepartureMinutes int     `json:"early_departure_minutes"`

	Status     Status `json:"status"`
	Shift      Shift  `json:"shift"`
	ShiftStart string `json:"shift_start"` // HH:MM
	ShiftEnd   string `json:"shift_end"`   // HH:MM
	Location   string `json:"location,omitempty"`
	Notes      string `json:"notes,omitempty"`

	IsApproved    bool       `json:"is_approved"`
	ApprovedBy    *string    `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	IsManualEntry bool       `json:"is_manual_entry"`
	EnteredBy     *string    `json:"entered_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Metrics are the values derived from a record's time fields.
type Metrics struct {
	TotalHours            float64 `json:"total_hours"`
	BreakHours            float64 `json:"break_hours"`
	WorkHours             float64 `json:"work_hours"`
	OvertimeHours         float64 `json:"overtime_hours"`
	LateMinutes           int     `json:"late_minutes"`
	EarlyDepartureMinutes int     `json:"early_departure_minutes"`
	CalculatedStatus      Status  `json:"calculated_status"`
}

const (
	DefaultShiftStart = "08:00"
	DefaultShiftEnd   = "17:00"

	// StandardWorkHours is the daily threshold beyond which hours are overtime.
	StandardWorkHours = 8.0
	// LateThresholdMinutes is the lateness beyond which a day counts as late.
	LateThresholdMinutes = 30
	// EarlyDepartureThresholdMinutes is the early leave beyond which a day
	// counts as an early departure.
	EarlyDepartureThresholdMinutes = 60
	// HalfDayHours is the work time below which a day counts as a half day.
	HalfDayHours = 4.0
)

type Status string

const (
	StatusPresent        Status = "present"
	StatusAbsent         Status = "absent"
	StatusLate           Status = "late"
	StatusEarlyDeparture Status = "early_departure"
	StatusHalfDay        Status = "half_day"
	StatusLeave          Status = "leave"
	StatusHoliday        Status = "holiday"
)

var Statuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusEarlyDeparture),
	string(StatusHalfDay),
	string(StatusLeave),
	string(StatusHoliday),
}

// IsOverridable reports whether a stored status may be replaced by the
// calculated one. Only an empty or default status is.
func (s Status) IsOverridable() bool {
	return s == "" || s == StatusPresent
}

type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
	ShiftFlexible  Shift = "flexible"
)

var Shifts = []string{string(ShiftMorning), string(ShiftAfternoon), string(ShiftNight), string(ShiftFlexible)}
