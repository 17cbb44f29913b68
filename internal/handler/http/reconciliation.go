package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/reconciliation"
	"github.com/fieldhr/geoattend-backend-go/internal/handler/http/response"
)

type ReconciliationHandler interface {
	Reconcile(w http.ResponseWriter, r *http.Request)
	AutoResolve(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	ExportXLSX(w http.ResponseWriter, r *http.Request)
}

type reconciliationHandlerImpl struct {
	reconciliationService reconciliation.Service
}

func NewReconciliationHandler(reconciliationService reconciliation.Service) ReconciliationHandler {
	return &reconciliationHandlerImpl{
		reconciliationService: reconciliationService,
	}
}

// Reconcile implements ReconciliationHandler.
func (h *reconciliationHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	req := parseReconcileRequest(r)

	report, err := h.reconciliationService.Reconcile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

// AutoResolve implements ReconciliationHandler.
func (h *reconciliationHandlerImpl) AutoResolve(w http.ResponseWriter, r *http.Request) {
	req := parseReconcileRequest(r)

	result, err := h.reconciliationService.AutoResolve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Auto-resolve completed", result)
}

// ExportCSV implements ReconciliationHandler.
func (h *reconciliationHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	req := parseReconcileRequest(r)

	data, err := h.reconciliationService.ExportCSV(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(req, "csv")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportXLSX implements ReconciliationHandler.
func (h *reconciliationHandlerImpl) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	req := parseReconcileRequest(r)

	data, err := h.reconciliationService.ExportXLSX(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportFilename(req, "xlsx")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseReconcileRequest(r *http.Request) reconciliation.ReconcileRequest {
	q := r.URL.Query()
	return reconciliation.ReconcileRequest{
		EmployeeID: q.Get("employee_id"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}
}

func exportFilename(req reconciliation.ReconcileRequest, ext string) string {
	date := time.Now().UTC().Format("2006-01-02")
	return fmt.Sprintf("discrepancies_%s_%s.%s", req.EmployeeID, date, ext)
}
