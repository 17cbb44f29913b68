package response

import (
	"errors"
	"net/http"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/attendance"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/auth"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/geofence"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/location"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/reconciliation"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/timesheet"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/user"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrOAuthExchangeFailed):
		Unauthorized(w, "Google sign-in failed")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrInactiveUser):
		Forbidden(w, "User account is inactive")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You have already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "You have not checked in yet", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "You have already checked out")
	case errors.Is(err, attendance.ErrNoLocationsConfigured):
		BadRequest(w, "No work locations assigned. Contact HR to assign work locations", nil)
	case errors.Is(err, attendance.ErrBreakAlreadyOpen):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, attendance.ErrNoOpenBreak):
		BadRequest(w, "No break in progress", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "Unauthorized to access this attendance record")
	case errors.Is(err, attendance.ErrAttendanceAlreadyProcessed):
		Conflict(w, "Attendance has already been approved or rejected")

	// Geofence domain errors
	case errors.Is(err, geofence.ErrInvalidCoordinate):
		ValidationError(w, map[string]string{
			"coordinates": "latitude must be within [-90, 90] and longitude within [-180, 180]",
		})

	// Location domain errors
	case errors.Is(err, location.ErrLocationNotFound):
		NotFound(w, "Work location not found")
	case errors.Is(err, location.ErrLocationNameExists):
		Conflict(w, "A work location with this name already exists")
	case errors.Is(err, location.ErrAlreadyAssigned):
		Conflict(w, "Employee is already assigned to this location")
	case errors.Is(err, location.ErrAssignmentNotFound):
		NotFound(w, "Employee is not assigned to this location")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrEntryNotFound):
		NotFound(w, "Timesheet entry not found")
	case errors.Is(err, timesheet.ErrEntryExistsForDate):
		Conflict(w, "A timesheet entry already exists for this date")
	case errors.Is(err, timesheet.ErrEntryAlreadyApproved):
		Conflict(w, "Timesheet entry has already been approved")
	case errors.Is(err, timesheet.ErrEntryNotSubmitted):
		BadRequest(w, "Timesheet entry has not been submitted", nil)
	case errors.Is(err, timesheet.ErrUnauthorized):
		Forbidden(w, "Unauthorized to access this timesheet entry")

	// Reconciliation domain errors
	case errors.Is(err, reconciliation.ErrInvalidRecord):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
