package location

import "errors"

// Location domain errors
var (
	ErrLocationNotFound   = errors.New("work location not found")
	ErrLocationNameExists = errors.New("a work location with this name already exists")
	ErrAlreadyAssigned    = errors.New("employee is already assigned to this location")
	ErrAssignmentNotFound = errors.New("employee is not assigned to this location")
)
