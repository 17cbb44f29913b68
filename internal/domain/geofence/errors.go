package geofence

import "errors"

// Geofence domain errors
var (
	ErrInvalidCoordinate = errors.New("latitude must be between -90 and 90 and longitude between -180 and 180")
)
