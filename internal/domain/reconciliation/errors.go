package reconciliation

import "errors"

// Reconciliation domain errors
var (
	// ErrInvalidRecord flags malformed reconciliation input: negative or
	// non-finite hours, or duplicate records for the same date.
	ErrInvalidRecord = errors.New("invalid attendance or timesheet record")
)
