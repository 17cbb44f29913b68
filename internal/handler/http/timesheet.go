package http

import (
	"encoding/json"
	"net/http"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/timesheet"
	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/middleware"
	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimesheetHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	entryService timesheet.EntryService
}

func NewTimesheetHandler(entryService timesheet.EntryService) TimesheetHandler {
	return &timesheetHandlerImpl{entryService: entryService}
}

// Create implements TimesheetHandler.
func (h *timesheetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req timesheet.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.entryService.CreateEntry(r.Context(), employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timesheet entry created", result)
}

// Get implements TimesheetHandler.
func (h *timesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.entryService.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListMine implements TimesheetHandler.
func (h *timesheetHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := timesheet.EntryRangeFilter{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	result, err := h.entryService.ListMyEntries(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements TimesheetHandler.
func (h *timesheetHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req timesheet.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.entryService.UpdateEntry(r.Context(), employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet entry updated", result)
}

// Submit implements TimesheetHandler.
func (h *timesheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.entryService.SubmitEntry(r.Context(), employeeID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet entry submitted", result)
}

// Approve implements TimesheetHandler.
func (h *timesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.entryService.ApproveEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet entry approved", result)
}

// Delete implements TimesheetHandler.
func (h *timesheetHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.UserID(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := h.entryService.DeleteEntry(r.Context(), employeeID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet entry deleted", nil)
}
