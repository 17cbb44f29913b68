package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn      = errors.New("you have already checked in today")
	ErrNotCheckedIn          = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut     = errors.New("you have already checked out")
	ErrNoLocationsConfigured = errors.New("no work locations assigned; contact HR to assign work locations")
	ErrBreakAlreadyOpen      = errors.New("a break is already in progress")
	ErrNoOpenBreak           = errors.New("no break in progress")

	// General errors
	ErrAttendanceNotFound         = errors.New("attendance record not found")
	ErrUnauthorized               = errors.New("unauthorized to access this attendance record")
	ErrAttendanceAlreadyProcessed = errors.New("attendance has already been approved or rejected")
)
