package geofence

import (
	"github.com/fieldhr/geoattend-backend-go/internal/domain/geofence"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/location"
	"github.com/fieldhr/geoattend-backend-go/internal/pkg/geo"
)

type GeofenceServiceImpl struct {
}

func NewGeofenceService() geofence.Service {
	return &GeofenceServiceImpl{}
}

// Validate implements geofence.Service.
//
// The reported GPS accuracy is classified for display but deliberately not
// folded into the radius check: a fix counts as inside a geofence when the
// haversine distance alone is within the location radius.
func (s *GeofenceServiceImpl) Validate(current geofence.Coordinate, assigned []location.Location) (geofence.Verdict, error) {
	if !geo.IsValidLatitude(current.Latitude) || !geo.IsValidLongitude(current.Longitude) {
		return geofence.Verdict{}, geofence.ErrInvalidCoordinate
	}

	verdict := geofence.Verdict{
		PerLocation:  make([]geofence.LocationDistance, 0, len(assigned)),
		AccuracyTier: accuracyTier(current.AccuracyMeters),
	}

	for _, loc := range assigned {
		distance := geo.HaversineDistance(current.Latitude, current.Longitude, loc.Latitude, loc.Longitude)
		within := distance <= loc.RadiusMeters

		verdict.PerLocation = append(verdict.PerLocation, geofence.LocationDistance{
			LocationID:     loc.ID,
			LocationName:   loc.Name,
			DistanceMeters: distance,
			IsWithinRadius: within,
		})

		if within {
			verdict.IsWithinAnyGeofence = true
		}

		// Strictly-less keeps the first-encountered location on ties.
		if verdict.Nearest == nil || distance < verdict.Nearest.DistanceMeters {
			verdict.Nearest = &geofence.NearestLocation{
				LocationID:     loc.ID,
				LocationName:   loc.Name,
				DistanceMeters: distance,
			}
		}
	}

	// An employee with no assigned locations is a configuration problem,
	// not a pending-approval case.
	verdict.RequiresApproval = !verdict.IsWithinAnyGeofence && len(assigned) > 0

	return verdict, nil
}

func accuracyTier(accuracyMeters *float64) geofence.AccuracyTier {
	if accuracyMeters == nil {
		return geofence.AccuracyUnknown
	}
	switch {
	case *accuracyMeters <= 10:
		return geofence.AccuracyHigh
	case *accuracyMeters <= 50:
		return geofence.AccuracyMedium
	default:
		return geofence.AccuracyLow
	}
}
