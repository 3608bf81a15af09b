package report

import (
	"context"
	"fmt"
	"time"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/payroll"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/report"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/service/statistics"
	"github.com/shopspring/decimal"
)

const (
	dayLayout    = "2006-01-02"
	timeLayout   = "2006-01-02 15:04"
	payrollBatch = 100
)

type ReportServiceImpl struct {
	saleRepo   sale.SaleRepository
	itemRepo   inventory.ItemRepository
	payrollSvc payroll.PayrollService
	loc        *time.Location
	now        func() time.Time
}

func NewReportService(
	saleRepo sale.SaleRepository,
	itemRepo inventory.ItemRepository,
	payrollSvc payroll.PayrollService,
	loc *time.Location,
) report.ReportService {
	return &ReportServiceImpl{
		saleRepo:   saleRepo,
		itemRepo:   itemRepo,
		payrollSvc: payrollSvc,
		loc:        loc,
		now:        time.Now,
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func periodName(prefix string, p report.PeriodRequest) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", prefix, p.From.Format(dayLayout), p.To.Format(dayLayout))
}

// SalesReport lists every sale in the period oldest first, with a second
// sheet of revenue per day.
func (s *ReportServiceImpl) SalesReport(ctx context.Context, req report.PeriodRequest) (report.File, error) {
	if err := req.Validate(s.loc, s.now()); err != nil {
		return report.File{}, err
	}

	sales, _, err := s.saleRepo.List(ctx, sale.SaleFilter{
		From:      &req.From,
		To:        &req.To,
		SortBy:    "created_at",
		SortOrder: "asc",
	})
	if err != nil {
		return report.File{}, fmt.Errorf("failed to list sales: %w", err)
	}

	detail := &sheet{
		name: "Sales",
		header: []string{"Transaction ID", "Receipt", "Date", "Type", "Customer", "Items",
			"Subtotal", "Tax", "Discount", "Total", "Payment Method", "Payment Status", "Status", "Cashier"},
		widths: []float64{18, 16, 18, 16, 24, 8, 12, 10, 10, 12, 16, 16, 12, 20},
	}
	for _, sl := range sales {
		detail.add(
			sl.TransactionID,
			sl.ReceiptNumber,
			sl.CreatedAt.In(s.loc).Format(timeLayout),
			string(sl.Type),
			sl.Customer.Name,
			sl.ItemCount().InexactFloat64(),
			money(sl.Subtotal),
			money(sl.Tax),
			money(sl.Discount),
			money(sl.TotalAmount),
			string(sl.PaymentMethod),
			string(sl.PaymentStatus),
			string(sl.Status),
			sl.CashierName,
		)
	}

	stats := statistics.Sales(sales, s.loc)
	daily := &sheet{
		name:   "Daily",
		header: []string{"Date", "Transactions", "Revenue"},
		widths: []float64{14, 14, 14},
	}
	for _, d := range stats.Daily {
		daily.add(d.Date, d.Count, money(d.Revenue))
	}
	daily.add("Total", stats.Overall.TotalSales, money(stats.Overall.TotalRevenue))

	content, err := render(detail, daily)
	if err != nil {
		return report.File{}, err
	}
	return report.File{Name: periodName("sales", req), ContentType: report.ContentTypeXLSX, Content: content}, nil
}

// InventoryReport is a snapshot of every item as of now.
func (s *ReportServiceImpl) InventoryReport(ctx context.Context) (report.File, error) {
	now := s.now().In(s.loc)

	items, _, err := s.itemRepo.List(ctx, inventory.ItemFilter{SortBy: "item_code", SortOrder: "asc"})
	if err != nil {
		return report.File{}, fmt.Errorf("failed to list inventory items: %w", err)
	}

	sh := &sheet{
		name: "Inventory",
		header: []string{"Item Code", "Name", "Category", "Unit", "Quantity", "Minimum Stock",
			"Unit Price", "Total Value", "Stock Status", "Expiry Date", "Expiry Status", "Supplier", "Status"},
		widths: []float64{14, 28, 16, 10, 10, 14, 12, 12, 14, 14, 14, 22, 12},
	}
	for _, item := range items {
		resp := inventory.NewItemResponse(item, now)
		expiry := ""
		if item.ExpiryDate != nil {
			expiry = item.ExpiryDate.In(s.loc).Format(dayLayout)
		}
		sh.add(
			item.ItemCode,
			item.Name,
			string(item.Category),
			string(item.Unit),
			item.Quantity.InexactFloat64(),
			item.MinimumStock.InexactFloat64(),
			money(item.UnitPrice),
			money(item.TotalValue),
			string(resp.StockStatus),
			expiry,
			string(resp.ExpiryStatus),
			item.Supplier.Name,
			string(item.Status),
		)
	}

	content, err := render(sh)
	if err != nil {
		return report.File{}, err
	}
	return report.File{
		Name:        fmt.Sprintf("inventory_%s.xlsx", now.Format(dayLayout)),
		ContentType: report.ContentTypeXLSX,
		Content:     content,
	}, nil
}

// PayrollReport calculates every employee's salary for the period.
func (s *ReportServiceImpl) PayrollReport(ctx context.Context, req report.PeriodRequest) (report.File, error) {
	if err := req.Validate(s.loc, s.now()); err != nil {
		return report.File{}, err
	}

	sh := &sheet{
		name: "Payroll",
		header: []string{"Employee Code", "Name", "Department", "Position", "Salary Type", "Present", "Absent",
			"Late", "Work Hours", "Overtime Hours", "Base Salary", "Overtime Pay", "Total", "Currency"},
		widths: []float64{14, 24, 16, 20, 12, 9, 9, 9, 12, 14, 14, 14, 14, 10},
	}

	var summary payroll.ListSummary
	for page := 1; ; page++ {
		resp, err := s.payrollSvc.List(ctx, payroll.SalaryFilter{
			Period: req,
			Page:   page,
			Limit:  payrollBatch,
		})
		if err != nil {
			return report.File{}, fmt.Errorf("failed to calculate payroll: %w", err)
		}
		for _, c := range resp.Salaries {
			sh.add(
				c.Employee.EmployeeCode,
				c.Employee.FullName,
				string(c.Employee.Department),
				string(c.Employee.Position),
				string(c.Employee.SalaryType),
				c.Breakdown.PresentDays,
				c.Breakdown.AbsentDays,
				c.Breakdown.LateDays,
				c.Breakdown.TotalWorkHours.InexactFloat64(),
				c.Breakdown.TotalOvertimeHours.InexactFloat64(),
				money(c.BaseSalary),
				money(c.OvertimePay),
				money(c.TotalSalary),
				c.Currency,
			)
		}
		summary.TotalBaseSalary = summary.TotalBaseSalary.Add(resp.Summary.TotalBaseSalary)
		summary.TotalOvertimePay = summary.TotalOvertimePay.Add(resp.Summary.TotalOvertimePay)
		summary.TotalPayroll = summary.TotalPayroll.Add(resp.Summary.TotalPayroll)
		if page >= resp.TotalPages {
			break
		}
	}
	sh.add("Total", "", "", "", "", "", "", "", "", "",
		money(summary.TotalBaseSalary), money(summary.TotalOvertimePay), money(summary.TotalPayroll), "")

	content, err := render(sh)
	if err != nil {
		return report.File{}, err
	}
	return report.File{Name: periodName("payroll", req), ContentType: report.ContentTypeXLSX, Content: content}, nil
}
