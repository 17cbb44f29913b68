package geofence

import (
	"github.com/fieldhr/geoattend-backend-go/internal/domain/location"
)

// Service defines geofence validation for check-in attempts.
type Service interface {
	// Validate computes the distance from current to every assigned location
	// and classifies the attempt. It performs no I/O.
	Validate(current Coordinate, assigned []location.Location) (Verdict, error)
}
