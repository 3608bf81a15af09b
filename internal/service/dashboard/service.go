package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/dashboard"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/employee"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/service/statistics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentSalesLimit = 5

type DashboardServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	itemRepo       inventory.ItemRepository
	saleRepo       sale.SaleRepository
	attendanceRepo attendance.AttendanceRepository
	loc            *time.Location
	now            func() time.Time
}

func NewDashboardService(
	employeeRepo employee.EmployeeRepository,
	itemRepo inventory.ItemRepository,
	saleRepo sale.SaleRepository,
	attendanceRepo attendance.AttendanceRepository,
	loc *time.Location,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		employeeRepo:   employeeRepo,
		itemRepo:       itemRepo,
		saleRepo:       saleRepo,
		attendanceRepo: attendanceRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// GetOverview loads the four sections in parallel; the first failure cancels the rest.
func (s *DashboardServiceImpl) GetOverview(ctx context.Context) (dashboard.Overview, error) {
	now := s.now().In(s.loc)

	var (
		employees  dashboard.EmployeeOverview
		items      dashboard.InventoryOverview
		sales      dashboard.SalesOverview
		presence   dashboard.AttendanceOverview
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = s.employeeOverview(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		items, err = s.inventoryOverview(gCtx, now)
		return err
	})

	g.Go(func() error {
		var err error
		sales, err = s.salesOverview(gCtx, now)
		return err
	})

	g.Go(func() error {
		var err error
		presence, err = s.attendanceOverview(gCtx, now)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.Overview{}, err
	}

	return dashboard.Overview{
		Employees:   employees,
		Inventory:   items,
		Sales:       sales,
		Attendance:  presence,
		GeneratedAt: now,
	}, nil
}

func (s *DashboardServiceImpl) employeeOverview(ctx context.Context) (dashboard.EmployeeOverview, error) {
	emps, _, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{})
	if err != nil {
		return dashboard.EmployeeOverview{}, fmt.Errorf("failed to list employees: %w", err)
	}

	overview := dashboard.EmployeeOverview{
		ByDepartment: make(map[employee.Department]int),
	}
	for _, e := range emps {
		overview.Total++
		if e.EmploymentStatus == employee.EmploymentStatusActive {
			overview.Active++
		}
		overview.ByDepartment[e.Department]++
	}
	return overview, nil
}

func (s *DashboardServiceImpl) inventoryOverview(ctx context.Context, now time.Time) (dashboard.InventoryOverview, error) {
	list, _, err := s.itemRepo.List(ctx, inventory.ItemFilter{})
	if err != nil {
		return dashboard.InventoryOverview{}, fmt.Errorf("failed to list inventory items: %w", err)
	}

	stats := statistics.Inventory(list, now)
	return dashboard.InventoryOverview{
		TotalItems:   stats.Overall.TotalItems,
		TotalValue:   stats.Overall.TotalValue,
		LowStock:     stats.Overall.LowStockItems,
		OutOfStock:   stats.Overall.OutOfStockItems,
		ExpiringSoon: stats.ExpiringItems,
	}, nil
}

func (s *DashboardServiceImpl) salesOverview(ctx context.Context, now time.Time) (dashboard.SalesOverview, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	monthSales, _, err := s.saleRepo.List(ctx, sale.SaleFilter{From: &monthStart, To: &now})
	if err != nil {
		return dashboard.SalesOverview{}, fmt.Errorf("failed to list sales: %w", err)
	}

	recent, _, err := s.saleRepo.List(ctx, sale.SaleFilter{
		Page:      1,
		Limit:     recentSalesLimit,
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	if err != nil {
		return dashboard.SalesOverview{}, fmt.Errorf("failed to list recent sales: %w", err)
	}

	overview := dashboard.SalesOverview{
		Today:       dashboard.SalesSummary{Revenue: decimal.Zero},
		MonthToDate: dashboard.SalesSummary{Revenue: decimal.Zero},
		Recent:      recent,
	}
	for _, sl := range monthSales {
		overview.MonthToDate.Count++
		overview.MonthToDate.Revenue = overview.MonthToDate.Revenue.Add(sl.TotalAmount)
		if !sl.CreatedAt.Before(today) {
			overview.Today.Count++
			overview.Today.Revenue = overview.Today.Revenue.Add(sl.TotalAmount)
		}
	}
	return overview, nil
}

func (s *DashboardServiceImpl) attendanceOverview(ctx context.Context, now time.Time) (dashboard.AttendanceOverview, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	records, _, err := s.attendanceRepo.List(ctx, attendance.AttendanceFilter{From: &today, To: &today})
	if err != nil {
		return dashboard.AttendanceOverview{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	overview := dashboard.AttendanceOverview{Date: today.Format("2006-01-02")}
	for _, rec := range records {
		if rec.TimeIn != nil {
			overview.ClockedIn++
		}
		if rec.TimeOut != nil {
			overview.ClockedOut++
		}
		switch rec.Status {
		case attendance.StatusPresent:
			overview.Present++
		case attendance.StatusLate:
			overview.Late++
		case attendance.StatusAbsent:
			overview.Absent++
		}
	}
	return overview, nil
}
