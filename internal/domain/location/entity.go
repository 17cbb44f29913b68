package location

import (
	"time"
)

// Location is a named work location with a circular geofence around it.
// Locations are owned by the organization and assigned to employees
// many-to-many; an employee with zero assignments cannot be geofenced.
type Location struct {
	ID               string
	Name             string
	Latitude         float64
	Longitude        float64
	RadiusMeters     float64
	IsOfficeLocation bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
