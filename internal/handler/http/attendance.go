package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/attendance"
	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/middleware"
	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.CheckInRequest

	// The proof photo arrives via multipart; a bare JSON body is also
	// accepted when no photo is attached.
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		dataJSON := r.FormValue("data")
		if dataJSON == "" {
			response.BadRequest(w, "Field 'data' is required", nil)
			return
		}
		if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}

		file, fileHeader, err := r.FormFile("photo")
		if err != nil && err != http.ErrMissingFile {
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		if err == nil {
			defer file.Close()
			req.File = file
			req.FileHeader = fileHeader
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.attendanceService.CheckIn(r.Context(), employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out", result)
}

// StartBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.StartBreak(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", result)
}

// EndBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.attendanceService.EndBreak(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := parseAttendanceFilter(r)
	result, err := h.attendanceService.GetMyAttendance(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := parseAttendanceFilter(r)
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements AttendanceHandler.
func (h *attendanceHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	approverID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req := attendance.ApproveAttendanceRequest{ID: chi.URLParam(r, "id")}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
		req.ID = chi.URLParam(r, "id")
	}

	result, err := h.attendanceService.ApproveAttendance(r.Context(), approverID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance approved", result)
}

// Reject implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	approverID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.RejectAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.attendanceService.RejectAttendance(r.Context(), approverID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance rejected", result)
}

func parseAttendanceFilter(r *http.Request) attendance.AttendanceFilter {
	var filter attendance.AttendanceFilter
	q := r.URL.Query()

	if startDate := q.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := q.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	if status := q.Get("status"); status != "" {
		filter.Status = &status
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	return filter
}
