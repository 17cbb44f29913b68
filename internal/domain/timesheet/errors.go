package timesheet

import "errors"

// Timesheet domain errors
var (
	ErrEntryNotFound        = errors.New("timesheet entry not found")
	ErrEntryExistsForDate   = errors.New("a timesheet entry already exists for this date")
	ErrEntryAlreadyApproved = errors.New("timesheet entry has already been approved")
	ErrEntryNotSubmitted    = errors.New("timesheet entry has not been submitted")
	ErrUnauthorized         = errors.New("unauthorized to access this timesheet entry")
)
