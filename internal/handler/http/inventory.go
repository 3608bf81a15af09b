package http

import (
	"net/http"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/inventory"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InventoryHandler interface {
	ListItems(w http.ResponseWriter, r *http.Request)
	GetItem(w http.ResponseWriter, r *http.Request)
	CreateItem(w http.ResponseWriter, r *http.Request)
	UpdateItem(w http.ResponseWriter, r *http.Request)
	DeleteItem(w http.ResponseWriter, r *http.Request)
	UpdateStock(w http.ResponseWriter, r *http.Request)
	ListMovements(w http.ResponseWriter, r *http.Request)
	ListLowStock(w http.ResponseWriter, r *http.Request)
	ListExpiring(w http.ResponseWriter, r *http.Request)
	GetStatistics(w http.ResponseWriter, r *http.Request)
	GetMovementStatistics(w http.ResponseWriter, r *http.Request)
}

type inventoryHandlerImpl struct {
	inventoryService inventory.InventoryService
}

func NewInventoryHandler(inventoryService inventory.InventoryService) InventoryHandler {
	return &inventoryHandlerImpl{inventoryService: inventoryService}
}

// ListItems implements InventoryHandler
func (h *inventoryHandlerImpl) ListItems(w http.ResponseWriter, r *http.Request) {
	filter := inventory.ItemFilter{
		Category: queryString(r, "category"),
		Status:   queryString(r, "status"),
		LowStock: queryBool(r, "low_stock"),
		Search:   queryString(r, "search"),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	}
	filter.SortBy, filter.SortOrder = sortParams(r)

	results, err := h.inventoryService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, results, response.PageMeta(results.Page, results.Limit, results.TotalCount, results.TotalPages))
}

// GetItem implements InventoryHandler
func (h *inventoryHandlerImpl) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventoryService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, item)
}

// CreateItem implements InventoryHandler
func (h *inventoryHandlerImpl) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req inventory.CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := principal(r)
	req.PerformedBy, req.PerformedByName = p.UserID, p.Name

	item, err := h.inventoryService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Inventory item created successfully", item)
}

// UpdateItem implements InventoryHandler
func (h *inventoryHandlerImpl) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req inventory.UpdateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	item, err := h.inventoryService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Inventory item updated successfully", item)
}

// DeleteItem implements InventoryHandler
func (h *inventoryHandlerImpl) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.inventoryService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Inventory item deleted successfully", nil)
}

// UpdateStock implements InventoryHandler
func (h *inventoryHandlerImpl) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req inventory.UpdateStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := principal(r)
	req.ID = chi.URLParam(r, "id")
	req.PerformedBy, req.PerformedByName = p.UserID, p.Name

	result, err := h.inventoryService.UpdateStock(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Stock updated successfully", result)
}

// ListMovements implements InventoryHandler
func (h *inventoryHandlerImpl) ListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.inventoryService.ListMovements(r.Context(), chi.URLParam(r, "id"), queryInt(r, "limit"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, movements)
}

// ListLowStock implements InventoryHandler
func (h *inventoryHandlerImpl) ListLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.ListLowStock(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

// ListExpiring implements InventoryHandler
func (h *inventoryHandlerImpl) ListExpiring(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.ListExpiring(r.Context(), queryInt(r, "days"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, items)
}

// GetStatistics implements InventoryHandler
func (h *inventoryHandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.inventoryService.GetStatistics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}

// GetMovementStatistics implements InventoryHandler
func (h *inventoryHandlerImpl) GetMovementStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.inventoryService.GetMovementStatistics(r.Context(), inventory.MovementStatisticsRequest{
		StartDate: queryString(r, "start_date", "startDate"),
		EndDate:   queryString(r, "end_date", "endDate"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}
