package http

import (
	"net/http"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/sale"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SaleHandler interface {
	ListSales(w http.ResponseWriter, r *http.Request)
	GetSale(w http.ResponseWriter, r *http.Request)
	CreateSale(w http.ResponseWriter, r *http.Request)
	UpdateSale(w http.ResponseWriter, r *http.Request)
	DeleteSale(w http.ResponseWriter, r *http.Request)
	GetStatistics(w http.ResponseWriter, r *http.Request)
	GetTopItems(w http.ResponseWriter, r *http.Request)
}

type saleHandlerImpl struct {
	saleService sale.SaleService
}

func NewSaleHandler(saleService sale.SaleService) SaleHandler {
	return &saleHandlerImpl{saleService: saleService}
}

func saleStatisticsRequest(r *http.Request) sale.StatisticsRequest {
	return sale.StatisticsRequest{
		StartDate: queryString(r, "start_date", "startDate"),
		EndDate:   queryString(r, "end_date", "endDate"),
		Limit:     queryInt(r, "limit"),
	}
}

// ListSales implements SaleHandler
func (h *saleHandlerImpl) ListSales(w http.ResponseWriter, r *http.Request) {
	filter := sale.SaleFilter{
		Type:          queryString(r, "type"),
		Status:        queryString(r, "status"),
		PaymentStatus: queryString(r, "payment_status", "paymentStatus"),
		Search:        queryString(r, "search"),
		StartDate:     queryString(r, "start_date", "startDate"),
		EndDate:       queryString(r, "end_date", "endDate"),
		Page:          queryInt(r, "page"),
		Limit:         queryInt(r, "limit"),
	}
	filter.SortBy, filter.SortOrder = sortParams(r)

	results, err := h.saleService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, results, response.PageMeta(results.Page, results.Limit, results.TotalCount, results.TotalPages))
}

// GetSale implements SaleHandler
func (h *saleHandlerImpl) GetSale(w http.ResponseWriter, r *http.Request) {
	result, err := h.saleService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CreateSale implements SaleHandler
func (h *saleHandlerImpl) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req sale.CreateSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := principal(r)
	req.Cashier, req.CashierName = p.UserID, p.Name

	result, err := h.saleService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Sale created successfully", result)
}

// UpdateSale implements SaleHandler
func (h *saleHandlerImpl) UpdateSale(w http.ResponseWriter, r *http.Request) {
	var req sale.UpdateSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.saleService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Sale updated successfully", result)
}

// DeleteSale implements SaleHandler. Stock taken by the sale is returned.
func (h *saleHandlerImpl) DeleteSale(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if err := h.saleService.Delete(r.Context(), chi.URLParam(r, "id"), p.UserID, p.Name); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Sale deleted successfully", nil)
}

// GetStatistics implements SaleHandler
func (h *saleHandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.saleService.GetStatistics(r.Context(), saleStatisticsRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}

// GetTopItems implements SaleHandler
func (h *saleHandlerImpl) GetTopItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.saleService.GetTopItems(r.Context(), saleStatisticsRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}
