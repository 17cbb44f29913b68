package http

import (
	"encoding/json"
	"net/http"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/location"
	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LocationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	AssignEmployee(w http.ResponseWriter, r *http.Request)
	UnassignEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployeeLocations(w http.ResponseWriter, r *http.Request)
}

type locationHandlerImpl struct {
	locationService location.LocationService
}

func NewLocationHandler(locationService location.LocationService) LocationHandler {
	return &locationHandlerImpl{locationService: locationService}
}

// Create implements LocationHandler.
func (h *locationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req location.CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.locationService.CreateLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work location created", result)
}

// Get implements LocationHandler.
func (h *locationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.locationService.GetLocation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements LocationHandler.
func (h *locationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.locationService.ListLocations(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Update implements LocationHandler.
func (h *locationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req location.UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.locationService.UpdateLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work location updated", result)
}

// Delete implements LocationHandler.
func (h *locationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.locationService.DeleteLocation(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Work location deleted", nil)
}

// AssignEmployee implements LocationHandler.
func (h *locationHandlerImpl) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	var req location.AssignLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.locationService.AssignEmployee(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee assigned to location", nil)
}

// UnassignEmployee implements LocationHandler.
func (h *locationHandlerImpl) UnassignEmployee(w http.ResponseWriter, r *http.Request) {
	var req location.AssignLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.locationService.UnassignEmployee(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee unassigned from location", nil)
}

// ListEmployeeLocations implements LocationHandler.
func (h *locationHandlerImpl) ListEmployeeLocations(w http.ResponseWriter, r *http.Request) {
	result, err := h.locationService.ListEmployeeLocations(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
