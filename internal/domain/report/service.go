package report

import "context"

type ReportService interface {
	SalesReport(ctx context.Context, req PeriodRequest) (File, error)
	InventoryReport(ctx context.Context) (File, error)
	PayrollReport(ctx context.Context, req PeriodRequest) (File, error)
}
