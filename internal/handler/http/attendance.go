package http

import (
	"net/http"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/attendance"
	"github.com/aquaclean/aquaclean-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	GetStatistics(w http.ResponseWriter, r *http.Request)
	GetEmployeeSummary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

type clockFunc func(r *http.Request, req attendance.ClockRequest) (attendance.Record, error)

// clock runs one of the kiosk operations. Those routes are public and
// identify the employee by code only.
func (h *attendanceHandlerImpl) clock(w http.ResponseWriter, r *http.Request, fn clockFunc, message string) {
	var req attendance.ClockRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := fn(r, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, record)
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, func(r *http.Request, req attendance.ClockRequest) (attendance.Record, error) {
		return h.attendanceService.ClockIn(r.Context(), req)
	}, "Clocked in successfully")
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, func(r *http.Request, req attendance.ClockRequest) (attendance.Record, error) {
		return h.attendanceService.ClockOut(r.Context(), req)
	}, "Clocked out successfully")
}

// StartBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, func(r *http.Request, req attendance.ClockRequest) (attendance.Record, error) {
		return h.attendanceService.StartBreak(r.Context(), req)
	}, "Break started successfully")
}

// EndBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, func(r *http.Request, req attendance.ClockRequest) (attendance.Record, error) {
		return h.attendanceService.EndBreak(r.Context(), req)
	}, "Break ended successfully")
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		EmployeeID: queryString(r, "employee_id", "employeeId"),
		Status:     queryString(r, "status"),
		IsApproved: queryBool(r, "is_approved"),
		StartDate:  queryString(r, "start_date", "startDate"),
		EndDate:    queryString(r, "end_date", "endDate"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}
	filter.SortBy, filter.SortOrder = sortParams(r)

	result, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMeta(w, result, response.PageMeta(result.Page, result.Limit, result.TotalCount, result.TotalPages))
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !canAccessEmployee(w, r, record.EmployeeID) {
		return
	}
	response.Success(w, record)
}

// Create implements AttendanceHandler.
func (h *attendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EnteredBy = principal(r).UserID

	record, err := h.attendanceService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance record created successfully", record)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	record, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record updated successfully", record)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record deleted successfully", nil)
}

// Approve implements AttendanceHandler. The body is optional.
func (h *attendanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req attendance.ApproveRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApprovedBy = principal(r).UserID

	record, err := h.attendanceService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance approved successfully", record)
}

func attendanceStatisticsRequest(r *http.Request) attendance.StatisticsRequest {
	return attendance.StatisticsRequest{
		EmployeeID: queryString(r, "employee_id", "employeeId"),
		StartDate:  queryString(r, "start_date", "startDate"),
		EndDate:    queryString(r, "end_date", "endDate"),
	}
}

// GetStatistics implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.attendanceService.GetStatistics(r.Context(), attendanceStatisticsRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, stats)
}

// GetEmployeeSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetEmployeeSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")
	if !canAccessEmployee(w, r, employeeID) {
		return
	}

	summary, err := h.attendanceService.GetEmployeeSummary(r.Context(), employeeID, attendanceStatisticsRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}
