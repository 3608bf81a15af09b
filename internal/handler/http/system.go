package http

import (
	"net/http"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/system"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
)

type SystemHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	Backup(w http.ResponseWriter, r *http.Request)
	ListBackups(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type systemHandlerImpl struct {
	systemService system.SystemService
}

func NewSystemHandler(systemService system.SystemService) SystemHandler {
	return &systemHandlerImpl{systemService: systemService}
}

// GetSettings implements SystemHandler.
func (h *systemHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.systemService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, settings)
}

// UpdateSettings implements SystemHandler.
func (h *systemHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req system.UpdateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UpdatedBy = principal(r).UserID

	settings, err := h.systemService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Settings updated successfully", settings)
}

// Backup implements SystemHandler.
func (h *systemHandlerImpl) Backup(w http.ResponseWriter, r *http.Request) {
	info, err := h.systemService.Backup(r.Context(), system.BackupRequest{CreatedBy: principal(r).UserID})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Backup created successfully", info)
}

// ListBackups implements SystemHandler.
func (h *systemHandlerImpl) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.systemService.ListBackups(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, backups)
}

// Restore implements SystemHandler.
func (h *systemHandlerImpl) Restore(w http.ResponseWriter, r *http.Request) {
	var req system.RestoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.systemService.Restore(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Backup restored successfully", result)
}

// Health implements SystemHandler. A degraded system still answers 200 with
// the details; callers read the status field.
func (h *systemHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.systemService.Health(r.Context()))
}
