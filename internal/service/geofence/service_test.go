package geofence

import (
	"testing"

	"github.com/fieldhr/geoattend-backend-go/internal/domain/geofence"
	"github.com/fieldhr/geoattend-backend-go/internal/domain/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidate_InsideSingleGeofence(t *testing.T) {
	svc := NewGeofenceService()

	current := geofence.Coordinate{Latitude: 12.9716, Longitude: 77.5946}
	assigned := []location.Location{
		{ID: "loc-hq", Name: "HQ", Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 100, IsOfficeLocation: true},
	}

	verdict, err := svc.Validate(current, assigned)

	require.NoError(t, err)
	assert.True(t, verdict.IsWithinAnyGeofence)
	assert.False(t, verdict.RequiresApproval)
	require.Len(t, verdict.PerLocation, 1)
	assert.True(t, verdict.PerLocation[0].IsWithinRadius)
	assert.InDelta(t, 0, verdict.PerLocation[0].DistanceMeters, 0.001)
	require.NotNil(t, verdict.Nearest)
	assert.Equal(t, "HQ", verdict.Nearest.LocationName)
}

func TestValidate_OutsideAllGeofences(t *testing.T) {
	svc := NewGeofenceService()

	// Bangalore fix against a Chennai office, roughly 290 km away.
	current := geofence.Coordinate{Latitude: 12.9716, Longitude: 77.5946}
	assigned := []location.Location{
		{ID: "loc-branch", Name: "Branch", Latitude: 13.0827, Longitude: 80.2707, RadiusMeters: 100},
	}

	verdict, err := svc.Validate(current, assigned)

	require.NoError(t, err)
	assert.False(t, verdict.IsWithinAnyGeofence)
	assert.True(t, verdict.RequiresApproval)
	require.NotNil(t, verdict.Nearest)
	assert.Equal(t, "Branch", verdict.Nearest.LocationName)
	assert.Greater(t, verdict.Nearest.DistanceMeters, 280000.0)
}

func TestValidate_NoLocationsConfigured(t *testing.T) {
	svc := NewGeofenceService()

	verdict, err := svc.Validate(geofence.Coordinate{Latitude: 12.9716, Longitude: 77.5946}, nil)

	require.NoError(t, err)
	assert.False(t, verdict.IsWithinAnyGeofence)
	// Distinct from the out-of-range case: nothing to approve against.
	assert.False(t, verdict.RequiresApproval)
	assert.Nil(t, verdict.Nearest)
	assert.Empty(t, verdict.PerLocation)
	assert.False(t, verdict.HasAssignedLocations())
}

func TestValidate_NearestIsMinimumDistance(t *testing.T) {
	svc := NewGeofenceService()

	current := geofence.Coordinate{Latitude: 12.9716, Longitude: 77.5946}
	assigned := []location.Location{
		{ID: "far", Name: "Far Office", Latitude: 13.0827, Longitude: 80.2707, RadiusMeters: 50},
		{ID: "near", Name: "Near Office", Latitude: 12.9720, Longitude: 77.5950, RadiusMeters: 50},
		{ID: "mid", Name: "Mid Office", Latitude: 12.9800, Longitude: 77.6000, RadiusMeters: 50},
	}

	verdict, err := svc.Validate(current, assigned)

	require.NoError(t, err)
	require.NotNil(t, verdict.Nearest)
	assert.Equal(t, "near", verdict.Nearest.LocationID)

	minDistance := verdict.PerLocation[0].DistanceMeters
	for _, ld := range verdict.PerLocation {
		if ld.DistanceMeters < minDistance {
			minDistance = ld.DistanceMeters
		}
	}
	assert.Equal(t, minDistance, verdict.Nearest.DistanceMeters)
}

func TestValidate_NearestTieKeepsFirstEncountered(t *testing.T) {
	svc := NewGeofenceService()

	current := geofence.Coordinate{Latitude: 10, Longitude: 10}
	assigned := []location.Location{
		{ID: "first", Name: "First", Latitude: 10, Longitude: 10, RadiusMeters: 20},
		{ID: "second", Name: "Second", Latitude: 10, Longitude: 10, RadiusMeters: 20},
	}

	verdict, err := svc.Validate(current, assigned)

	require.NoError(t, err)
	require.NotNil(t, verdict.Nearest)
	assert.Equal(t, "first", verdict.Nearest.LocationID)
}

func TestValidate_WithinAnyMatchesPerLocation(t *testing.T) {
	svc := NewGeofenceService()

	current := geofence.Coordinate{Latitude: 12.9716, Longitude: 77.5946}
	assigned := []location.Location{
		{ID: "a", Name: "A", Latitude: 13.0827, Longitude: 80.2707, RadiusMeters: 100},
		{ID: "b", Name: "B", Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 100},
	}

	verdict, err := svc.Validate(current, assigned)

	require.NoError(t, err)
	anyWithin := false
	for _, ld := range verdict.PerLocation {
		if ld.IsWithinRadius {
			anyWithin = true
		}
	}
	assert.Equal(t, anyWithin, verdict.IsWithinAnyGeofence)
	assert.True(t, verdict.IsWithinAnyGeofence)
	assert.False(t, verdict.RequiresApproval)
}

func TestValidate_InvalidCoordinate(t *testing.T) {
	svc := NewGeofenceService()

	cases := []geofence.Coordinate{
		{Latitude: 91, Longitude: 0},
		{Latitude: -91, Longitude: 0},
		{Latitude: 0, Longitude: 181},
		{Latitude: 0, Longitude: -181},
	}
	for _, c := range cases {
		_, err := svc.Validate(c, nil)
		assert.ErrorIs(t, err, geofence.ErrInvalidCoordinate)
	}
}

func TestValidate_BoundaryCoordinatesAccepted(t *testing.T) {
	svc := NewGeofenceService()

	for _, c := range []geofence.Coordinate{
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
	} {
		_, err := svc.Validate(c, nil)
		assert.NoError(t, err)
	}
}

func TestValidate_DistanceEqualToRadiusIsWithin(t *testing.T) {
	svc := NewGeofenceService()

	// ~111 m north of the office with a generous radius, then shrink the
	// radius under the distance to flip the verdict.
	current := geofence.Coordinate{Latitude: 12.9726, Longitude: 77.5946}
	office := location.Location{ID: "o", Name: "Office", Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 150}

	verdict, err := svc.Validate(current, []location.Location{office})
	require.NoError(t, err)
	assert.True(t, verdict.IsWithinAnyGeofence)

	office.RadiusMeters = 50
	verdict, err = svc.Validate(current, []location.Location{office})
	require.NoError(t, err)
	assert.False(t, verdict.IsWithinAnyGeofence)
	assert.True(t, verdict.RequiresApproval)
}

func TestValidate_AccuracyTiers(t *testing.T) {
	svc := NewGeofenceService()

	cases := []struct {
		accuracy *float64
		want     geofence.AccuracyTier
	}{
		{nil, geofence.AccuracyUnknown},
		{floatPtr(5), geofence.AccuracyHigh},
		{floatPtr(10), geofence.AccuracyHigh},
		{floatPtr(25), geofence.AccuracyMedium},
		{floatPtr(50), geofence.AccuracyMedium},
		{floatPtr(120), geofence.AccuracyLow},
	}

	for _, c := range cases {
		verdict, err := svc.Validate(geofence.Coordinate{Latitude: 0, Longitude: 0, AccuracyMeters: c.accuracy}, nil)
		require.NoError(t, err)
		assert.Equal(t, c.want, verdict.AccuracyTier)
	}
}

func TestValidate_LowAccuracyDoesNotAffectRadiusCheck(t *testing.T) {
	svc := NewGeofenceService()

	current := geofence.Coordinate{Latitude: 12.9716, Longitude: 77.5946, AccuracyMeters: floatPtr(500)}
	assigned := []location.Location{
		{ID: "hq", Name: "HQ", Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 100},
	}

	verdict, err := svc.Validate(current, assigned)

	require.NoError(t, err)
	assert.Equal(t, geofence.AccuracyLow, verdict.AccuracyTier)
	assert.True(t, verdict.IsWithinAnyGeofence)
	assert.False(t, verdict.RequiresApproval)
}
