package http

import (
	"net/http"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/payroll"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	ListSalaries(w http.ResponseWriter, r *http.Request)
	GetEmployeeSalary(w http.ResponseWriter, r *http.Request)
	Calculate(w http.ResponseWriter, r *http.Request)
	GetStatistics(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// periodFromQuery reads an optional date range; an empty range means the
// current month.
func periodFromQuery(r *http.Request) payroll.Period {
	return payroll.Period{
		StartDate: queryString(r, "start_date", "startDate"),
		EndDate:   queryString(r, "end_date", "endDate"),
	}
}

// ListSalaries handles GET /salary
func (h *payrollHandlerImpl) ListSalaries(w http.ResponseWriter, r *http.Request) {
	filter := payroll.SalaryFilter{
		Department: queryString(r, "department"),
		Position:   queryString(r, "position"),
		Status:     queryString(r, "status"),
		Period:     periodFromQuery(r),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	result, err := h.payrollService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, response.PageMeta(result.Page, result.Limit, result.TotalCount, result.TotalPages))
}

// GetEmployeeSalary handles GET /salary/{employeeId}
func (h *payrollHandlerImpl) GetEmployeeSalary(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if !canAccessEmployee(w, r, employeeID) {
		return
	}

	result, err := h.payrollService.GetEmployeeSalary(r.Context(), employeeID, periodFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Calculate handles POST /salary/calculate
func (h *payrollHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetStatistics handles GET /salary/statistics/overview
func (h *payrollHandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.payrollService.GetStatistics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}
