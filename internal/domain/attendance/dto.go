package attendance

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/fieldhr/geoattend-backend-go/internal/pkg/geo"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/storage"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT DTOs
// ========================================

type CheckInRequest struct {
	Latitude       float64               `json:"latitude"`
	Longitude      float64               `json:"longitude"`
	AccuracyMeters *float64              `json:"accuracy_meters,omitempty"`
	ProofPhotoURL  *string               `json:"-"`
	File           multipart.File        `json:"-"`
	FileHeader     *multipart.FileHeader `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if !geo.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !geo.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.AccuracyMeters != nil && *r.AccuracyMeters < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy_meters",
			Message: "accuracy_meters must not be negative",
		})
	}

	if r.FileHeader != nil {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if _, ok := storage.AllowedPhotoTypes[ext]; !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: "invalid file type: only jpg, jpeg, png, webp allowed",
			})
		} else if r.FileHeader.Size > 10<<20 { // 10MB
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: "proof photo size must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	Latitude       float64               `json:"latitude"`
	Longitude      float64               `json:"longitude"`
	AccuracyMeters *float64              `json:"accuracy_meters,omitempty"`
	ProofPhotoURL  *string               `json:"-"`
	File           multipart.File        `json:"-"`
	FileHeader     *multipart.FileHeader `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !geo.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !geo.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.AccuracyMeters != nil && *r.AccuracyMeters < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy_meters",
			Message: "accuracy_meters must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// GeofenceSummary echoes the validation outcome back to the client so the
// UI can render the nearest location and a confidence tier.
type GeofenceSummary struct {
	IsWithinGeofence      bool     `json:"is_within_geofence"`
	NearestLocationName   *string  `json:"nearest_location_name,omitempty"`
	NearestDistanceMeters *float64 `json:"nearest_distance_meters,omitempty"`
	AccuracyTier          string   `json:"accuracy_tier"`
}

type BreakResponse struct {
	ID              string  `json:"id"`
	Start           string  `json:"start"`
	End             *string `json:"end,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
}

type AttendanceResponse struct {
	ID                string           `json:"id"`
	EmployeeID        string           `json:"employee_id"`
	EmployeeName      string           `json:"employee_name,omitempty"`
	Date              string           `json:"date"`
	CheckInTime       *string          `json:"check_in_time,omitempty"`
	CheckOutTime      *string          `json:"check_out_time,omitempty"`
	TotalHours        *float64         `json:"total_hours,omitempty"`
	Status            string           `json:"status"`
	Geofence          *GeofenceSummary `json:"geofence,omitempty"`
	Breaks            []BreakResponse  `json:"breaks,omitempty"`
	LateMinutes       *int             `json:"late_minutes,omitempty"`
	EarlyLeaveMinutes *int             `json:"early_leave_minutes,omitempty"`
	OvertimeMinutes   *int             `json:"overtime_minutes,omitempty"`
	RejectionReason   *string          `json:"rejection_reason,omitempty"`
	ProofPhotoURL     *string          `json:"proof_photo_url,omitempty"`
	CreatedAt         string           `json:"created_at,omitempty"`
	UpdatedAt         string           `json:"updated_at,omitempty"`
}

// ========================================
// LIST / FILTER DTOs
// ========================================

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

var validStatuses = []string{
	StatusPresent, StatusPendingApproval, StatusAbsent,
	StatusLate, StatusEarlyDeparture, StatusOvertime, StatusRejected,
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(validStatuses, ", "),
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// APPROVAL DTOs
// ========================================

type ApproveAttendanceRequest struct {
	ID    string  `json:"-"`
	Notes *string `json:"notes,omitempty"`
}

type RejectAttendanceRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
