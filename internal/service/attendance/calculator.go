package attendance

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// shiftTime places an "HH:MM" clock value on the calendar date of day in loc.
// A malformed value falls back to fallback.
func shiftTime(day time.Time, clock, fallback string, loc *time.Location) time.Time {
	h, m, ok := parseClock(clock)
	if !ok {
		h, m, _ = parseClock(fallback)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc)
}

func parseClock(clock string) (int, int, bool) {
	hh, mm, found := strings.Cut(clock, ":")
	if !found {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// minutesBetween is the whole minutes from a to b, floored at zero.
func minutesBetween(a, b time.Time) int {
	d := int(math.Floor(b.Sub(a).Minutes()))
	return max(d, 0)
}

// Derive computes hours, lateness and the calculated status of rec. Shift
// bounds are resolved on the record's calendar date in loc. Missing times
// yield zeros.
func Derive(rec attendance.Record, loc *time.Location) attendance.Metrics {
	var m attendance.Metrics

	if rec.TimeIn != nil && rec.TimeOut != nil {
		m.TotalHours = round2(rec.TimeOut.Sub(*rec.TimeIn).Hours())
		if rec.BreakStart != nil && rec.BreakEnd != nil {
			m.BreakHours = round2(rec.BreakEnd.Sub(*rec.BreakStart).Hours())
		}
		m.WorkHours = round2(m.TotalHours - m.BreakHours)
		m.OvertimeHours = round2(max(0, m.WorkHours-attendance.StandardWorkHours))
	}

	if rec.TimeIn != nil {
		start := shiftTime(rec.Date, rec.ShiftStart, attendance.DefaultShiftStart, loc)
		m.LateMinutes = minutesBetween(start, *rec.TimeIn)
	}
	if rec.TimeOut != nil {
		end := shiftTime(rec.Date, rec.ShiftEnd, attendance.DefaultShiftEnd, loc)
		m.EarlyDepartureMinutes = minutesBetween(*rec.TimeOut, end)
	}

	switch {
	case rec.TimeIn == nil:
		m.CalculatedStatus = attendance.StatusAbsent
	case m.LateMinutes > attendance.LateThresholdMinutes:
		m.CalculatedStatus = attendance.StatusLate
	case m.EarlyDepartureMinutes > attendance.EarlyDepartureThresholdMinutes:
		m.CalculatedStatus = attendance.StatusEarlyDeparture
	case m.WorkHours < attendance.HalfDayHours:
		m.CalculatedStatus = attendance.StatusHalfDay
	default:
		m.CalculatedStatus = attendance.StatusPresent
	}
	return m
}

// refresh stores the derived values on rec. The status follows the
// calculated one only while rec carries no explicit override. A record that
// has not been clocked out is never judged a half day.
func refresh(rec *attendance.Record, loc *time.Location) {
	m := Derive(*rec, loc)
	rec.TotalHours = m.TotalHours
	rec.BreakHours = m.BreakHours
	rec.WorkHours = m.WorkHours
	rec.OvertimeHours = m.OvertimeHours
	rec.LateMinutes = m.LateMinutes
	rec.EarlyDepartureMinutes = m.EarlyDepartureMinutes

	if !rec.Status.IsOverridable() {
		return
	}
	if rec.TimeOut == nil && m.CalculatedStatus == attendance.StatusHalfDay {
		rec.Status = attendance.StatusPresent
		return
	}
	rec.Status = m.CalculatedStatus
}
