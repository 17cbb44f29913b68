package reconciliation

import (
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/validator"
)

type ReconcileRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
}

func (r *ReconcileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DiscrepancyResponse struct {
	Date            string   `json:"date"`
	Type            string   `json:"type"`
	Severity        string   `json:"severity"`
	Description     string   `json:"description"`
	AttendanceHours *float64 `json:"attendance_hours,omitempty"`
	TimesheetHours  *float64 `json:"timesheet_hours,omitempty"`
	SuggestedAction string   `json:"suggested_action"`
	AutoResolvable  bool     `json:"auto_resolvable"`
}

type ReconciliationReport struct {
	EmployeeID         string                `json:"employee_id"`
	StartDate          string                `json:"start_date"`
	EndDate            string                `json:"end_date"`
	GeneratedAt        string                `json:"generated_at"`
	TotalDiscrepancies int                   `json:"total_discrepancies"`
	AutoResolvable     int                   `json:"auto_resolvable"`
	Discrepancies      []DiscrepancyResponse `json:"discrepancies"`
}

type AutoResolveResult struct {
	EmployeeID      string   `json:"employee_id"`
	ResolvedCount   int      `json:"resolved_count"`
	SkippedCount    int      `json:"skipped_count"`
	CreatedEntries  []string `json:"created_entries,omitempty"`
	AdjustedEntries []string `json:"adjusted_entries,omitempty"`
}
