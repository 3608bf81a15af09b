// Package statistics aggregates totals and per-group figures over record
// slices. Every function is pure; the same input always yields the same
// output.
package statistics

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}

func round2(f float64) float64 {
	v, _ := decimal.NewFromFloat(f).Round(2).Float64()
	return v
}

// Employees groups salaries overall, by department and by position.
func Employees(emps []employee.Employee) employee.Statistics {
	stats := employee.Statistics{
		Overall: employee.OverallStatistics{
			TotalSalary: decimal.Zero,
			AvgSalary:   decimal.Zero,
		},
		ByDepartment: make(map[employee.Department]employee.GroupStatistic),
		ByPosition:   make(map[employee.Position]employee.GroupStatistic),
	}

	add := func(g employee.GroupStatistic, salary decimal.Decimal) employee.GroupStatistic {
		g.Count++
		g.TotalSalary = g.TotalSalary.Add(salary)
		return g
	}

	for _, e := range emps {
		stats.Overall.TotalEmployees++
		if e.EmploymentStatus == employee.EmploymentStatusActive {
			stats.Overall.ActiveEmployees++
		}
		stats.Overall.TotalSalary = stats.Overall.TotalSalary.Add(e.Salary)
		stats.ByDepartment[e.Department] = add(stats.ByDepartment[e.Department], e.Salary)
		stats.ByPosition[e.Position] = add(stats.ByPosition[e.Position], e.Salary)
	}

	stats.Overall.AvgSalary = average(stats.Overall.TotalSalary, stats.Overall.TotalEmployees)
	for k, g := range stats.ByDepartment {
		g.AvgSalary = average(g.TotalSalary, g.Count)
		stats.ByDepartment[k] = g
	}
	for k, g := range stats.ByPosition {
		g.AvgSalary = average(g.TotalSalary, g.Count)
		stats.ByPosition[k] = g
	}
	return stats
}

// Inventory summarises stock value by category and stock status. Items
// expiring between now and the expiring-soon window are listed by expiry.
func Inventory(items []inventory.Item, now time.Time) inventory.Statistics {
	stats := inventory.Statistics{
		Overall: inventory.OverallStatistics{
			TotalQuantity: decimal.Zero,
			TotalValue:    decimal.Zero,
		},
		ByCategory:    make(map[inventory.Category]inventory.CategoryStatistic),
		ByStockStatus: make(map[inventory.StockStatus]int),
		ExpiringItems: make([]inventory.ItemResponse, 0),
	}
	priceTotals := make(map[inventory.Category]decimal.Decimal)
	horizon := now.AddDate(0, 0, inventory.ExpiringSoonDays)

	for _, item := range items {
		stats.Overall.TotalItems++
		stats.Overall.TotalQuantity = stats.Overall.TotalQuantity.Add(item.Quantity)
		stats.Overall.TotalValue = stats.Overall.TotalValue.Add(item.TotalValue)
		if item.IsLowStock {
			stats.Overall.LowStockItems++
		}
		if item.Quantity.IsZero() {
			stats.Overall.OutOfStockItems++
		}

		c := stats.ByCategory[item.Category]
		c.Count++
		c.TotalValue = c.TotalValue.Add(item.TotalValue)
		stats.ByCategory[item.Category] = c
		priceTotals[item.Category] = priceTotals[item.Category].Add(item.UnitPrice)

		stats.ByStockStatus[item.StockStatus()]++

		if item.ExpiryDate != nil && !item.ExpiryDate.Before(now) && !item.ExpiryDate.After(horizon) {
			stats.ExpiringItems = append(stats.ExpiringItems, inventory.NewItemResponse(item, now))
		}
	}

	for k, c := range stats.ByCategory {
		c.AvgPrice = average(priceTotals[k], c.Count)
		stats.ByCategory[k] = c
	}
	slices.SortFunc(stats.ExpiringItems, func(a, b inventory.ItemResponse) int {
		return cmp.Or(a.ExpiryDate.Compare(*b.ExpiryDate), cmp.Compare(a.ID, b.ID))
	})
	return stats
}

// Movements groups stock movements by type and by day in loc. Quantities
// are summed as absolute amounts moved.
func Movements(movements []inventory.StockMovement, loc *time.Location) inventory.MovementStatistics {
	stats := inventory.MovementStatistics{
		ByType: make(map[inventory.MovementType]inventory.MovementTypeStatistic),
		Daily:  make([]inventory.DailyMovementStatistic, 0),
	}
	daily := make(map[string]inventory.DailyMovementStatistic)

	for _, m := range movements {
		qty := m.Quantity.Abs()

		t := stats.ByType[m.Type]
		t.Count++
		t.TotalQuantity = t.TotalQuantity.Add(qty)
		t.TotalValue = t.TotalValue.Add(m.TotalValue)
		stats.ByType[m.Type] = t

		day := m.CreatedAt.In(loc).Format(dayLayout)
		d := daily[day]
		d.Date = day
		d.Count++
		d.TotalQuantity = d.TotalQuantity.Add(qty)
		d.TotalValue = d.TotalValue.Add(m.TotalValue)
		daily[day] = d
	}

	for _, day := range slices.Sorted(maps.Keys(daily)) {
		stats.Daily = append(stats.Daily, daily[day])
	}
	return stats
}

// Sales totals revenue overall, by type, by payment method and by day in loc.
func Sales(sales []sale.Sale, loc *time.Location) sale.Statistics {
	stats := sale.Statistics{
		Overall: sale.OverallStatistics{
			TotalRevenue:        decimal.Zero,
			AvgTransactionValue: decimal.Zero,
		},
		ByType:          make(map[sale.Type]sale.GroupStatistic),
		ByPaymentMethod: make(map[sale.PaymentMethod]sale.GroupStatistic),
		Daily:           make([]sale.DailyStatistic, 0),
	}
	daily := make(map[string]sale.DailyStatistic)

	add := func(g sale.GroupStatistic, amount decimal.Decimal) sale.GroupStatistic {
		g.Count++
		g.Revenue = g.Revenue.Add(amount)
		return g
	}

	for _, s := range sales {
		stats.Overall.TotalSales++
		stats.Overall.TotalRevenue = stats.Overall.TotalRevenue.Add(s.TotalAmount)
		stats.Overall.TotalItems += len(s.Items)

		stats.ByType[s.Type] = add(stats.ByType[s.Type], s.TotalAmount)
		stats.ByPaymentMethod[s.PaymentMethod] = add(stats.ByPaymentMethod[s.PaymentMethod], s.TotalAmount)

		day := s.CreatedAt.In(loc).Format(dayLayout)
		d := daily[day]
		d.Date = day
		d.Count++
		d.Revenue = d.Revenue.Add(s.TotalAmount)
		daily[day] = d
	}

	stats.Overall.AvgTransactionValue = average(stats.Overall.TotalRevenue, stats.Overall.TotalSales)
	for k, g := range stats.ByType {
		g.AvgValue = average(g.Revenue, g.Count)
		stats.ByType[k] = g
	}
	for k, g := range stats.ByPaymentMethod {
		g.AvgValue = average(g.Revenue, g.Count)
		stats.ByPaymentMethod[k] = g
	}
	for _, day := range slices.Sorted(maps.Keys(daily)) {
		stats.Daily = append(stats.Daily, daily[day])
	}
	return stats
}

// TopItems ranks sold items by total quantity, largest first, and returns at
// most limit of them. A limit of zero or less returns all.
func TopItems(sales []sale.Sale, limit int) []sale.TopItem {
	type acc struct {
		item       sale.TopItem
		priceTotal decimal.Decimal
		lines      int
	}
	byItem := make(map[string]*acc)

	for _, s := range sales {
		for _, line := range s.Items {
			a, ok := byItem[line.ItemID]
			if !ok {
				a = &acc{item: sale.TopItem{ItemID: line.ItemID, ItemName: line.ItemName}}
				byItem[line.ItemID] = a
			}
			a.item.TotalQuantity = a.item.TotalQuantity.Add(line.Quantity)
			a.item.TotalRevenue = a.item.TotalRevenue.Add(line.FinalPrice)
			a.priceTotal = a.priceTotal.Add(line.UnitPrice)
			a.lines++
		}
	}

	top := make([]sale.TopItem, 0, len(byItem))
	for _, a := range byItem {
		a.item.AvgPrice = average(a.priceTotal, a.lines)
		top = append(top, a.item)
	}
	slices.SortFunc(top, func(a, b sale.TopItem) int {
		return cmp.Or(b.TotalQuantity.Cmp(a.TotalQuantity), cmp.Compare(a.ItemID, b.ItemID))
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}

// Attendance counts statuses and sums hours overall and per calendar date.
func Attendance(records []attendance.Record) attendance.Statistics {
	stats := attendance.Statistics{
		Daily: make([]attendance.DailyStatistic, 0),
	}
	stats.Overall = AttendanceOverall(records)

	daily := make(map[string]attendance.DailyStatistic)
	for _, rec := range records {
		day := rec.Date.Format(dayLayout)
		d := daily[day]
		d.Date = day
		switch rec.Status {
		case attendance.StatusPresent:
			d.PresentCount++
		case attendance.StatusAbsent:
			d.AbsentCount++
		case attendance.StatusLate:
			d.LateCount++
		}
		d.TotalWorkHours += rec.WorkHours
		daily[day] = d
	}

	for _, day := range slices.Sorted(maps.Keys(daily)) {
		d := daily[day]
		d.TotalWorkHours = round2(d.TotalWorkHours)
		stats.Daily = append(stats.Daily, d)
	}
	return stats
}

// AttendanceOverall is the overall part of Attendance.
func AttendanceOverall(records []attendance.Record) attendance.OverallStatistics {
	var o attendance.OverallStatistics
	for _, rec := range records {
		o.TotalDays++
		switch rec.Status {
		case attendance.StatusPresent:
			o.PresentDays++
		case attendance.StatusAbsent:
			o.AbsentDays++
		case attendance.StatusLate:
			o.LateDays++
		}
		o.TotalWorkHours += rec.WorkHours
		o.TotalOvertimeHours += rec.OvertimeHours
	}
	if o.TotalDays > 0 {
		o.AvgWorkHours = round2(o.TotalWorkHours / float64(o.TotalDays))
	}
	o.TotalWorkHours = round2(o.TotalWorkHours)
	o.TotalOvertimeHours = round2(o.TotalOvertimeHours)
	return o
}
