package payroll

import (
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	monthlyStandardHours = decimal.NewFromInt(payroll.MonthlyStandardHours)
	monthlyWorkingDays   = decimal.NewFromInt(payroll.MonthlyWorkingDays)
	daysPerWeek          = decimal.NewFromInt(7)
)

// calendarDays counts the calendar days from the date of from through the
// date of to, both in loc.
func calendarDays(from, to time.Time, loc *time.Location) int {
	f, t := from.In(loc), to.In(loc)
	start := time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// CalculateSalary computes the pay of emp over [from, to] from the attendance
// records dated inside the period. Records outside it are ignored.
func CalculateSalary(emp employee.Employee, records []attendance.Record, from, to time.Time, loc *time.Location, currency string) payroll.SalaryCalculation {
	first, last := dayKey(from.In(loc)), dayKey(to.In(loc))

	b := payroll.Breakdown{
		TotalWorkHours:     decimal.Zero,
		TotalOvertimeHours: decimal.Zero,
		PeriodDays:         calendarDays(from, to, loc),
	}
	for _, rec := range records {
		day := dayKey(rec.Date)
		if day < first || day > last {
			continue
		}
		b.TotalDays++
		b.TotalWorkHours = b.TotalWorkHours.Add(decimal.NewFromFloat(rec.WorkHours))
		b.TotalOvertimeHours = b.TotalOvertimeHours.Add(decimal.NewFromFloat(rec.OvertimeHours))
		switch rec.Status {
		case attendance.StatusPresent:
			b.PresentDays++
		case attendance.StatusAbsent:
			b.AbsentDays++
		case attendance.StatusLate:
			b.LateDays++
		}
	}

	rate := emp.Salary
	b.HourlyRate = rate.Div(monthlyStandardHours)
	b.DailyRate = rate.Div(monthlyWorkingDays)

	var base decimal.Decimal
	switch emp.SalaryType {
	case employee.SalaryTypeHourly:
		b.HourlyRate = rate
		base = b.TotalWorkHours.Mul(rate)
	case employee.SalaryTypeDaily:
		b.DailyRate = rate
		base = decimal.NewFromInt(int64(b.PresentDays)).Mul(rate)
	case employee.SalaryTypeWeekly:
		// Weeks are counted over the days elapsed from start to end, so a
		// 29-day February pays four weeks.
		elapsed := int64(b.PeriodDays - 1)
		weeks := decimal.NewFromInt(elapsed).Div(daysPerWeek).Ceil()
		base = weeks.Mul(rate)
	default:
		base = rate
	}
	b.OvertimeRate = b.HourlyRate.Mul(payroll.OvertimeMultiplier)
	overtime := b.TotalOvertimeHours.Mul(b.OvertimeRate)

	b.HourlyRate = b.HourlyRate.Round(2)
	b.DailyRate = b.DailyRate.Round(2)
	b.OvertimeRate = b.OvertimeRate.Round(2)
	base = base.Round(2)
	overtime = overtime.Round(2)

	return payroll.SalaryCalculation{
		Employee: payroll.EmployeeSummary{
			ID:           emp.ID,
			EmployeeCode: emp.EmployeeCode,
			FullName:     emp.FullName(),
			Position:     emp.Position,
			Department:   emp.Department,
			Salary:       emp.Salary,
			SalaryType:   emp.SalaryType,
		},
		PeriodStart: from,
		PeriodEnd:   to,
		BaseSalary:  base,
		OvertimePay: overtime,
		TotalSalary: base.Add(overtime),
		Currency:    currency,
		Breakdown:   b,
	}
}
