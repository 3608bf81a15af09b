package http

import (
	"log/slog"
	"net/http"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/report"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Sales transactions and daily totals for a period
	GetSalesReport(w http.ResponseWriter, r *http.Request)

	// Current stock levels
	GetInventoryReport(w http.ResponseWriter, r *http.Request)

	// Salary calculations for a period
	GetPayrollReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func writeReport(w http.ResponseWriter, file report.File, err error) {
	if err != nil {
		response.HandleError(w, err)
		return
	}
	slog.Info("report generated", "file", file.Name, "bytes", len(file.Content))
	response.File(w, file.Name, file.ContentType, file.Content)
}

// GetSalesReport handles GET /reports/sales.xlsx
func (h *reportHandlerImpl) GetSalesReport(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.SalesReport(r.Context(), periodFromQuery(r))
	writeReport(w, file, err)
}

// GetInventoryReport handles GET /reports/inventory.xlsx
func (h *reportHandlerImpl) GetInventoryReport(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.InventoryReport(r.Context())
	writeReport(w, file, err)
}

// GetPayrollReport handles GET /reports/payroll.xlsx
func (h *reportHandlerImpl) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.PayrollReport(r.Context(), periodFromQuery(r))
	writeReport(w, file, err)
}
