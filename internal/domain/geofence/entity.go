package geofence

// Coordinate is a GPS fix reported by an employee's device.
type Coordinate struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters *float64
}

// LocationDistance is the per-location outcome of a validation run,
// ordered the same way as the assigned locations it was computed from.
type LocationDistance struct {
	LocationID     string
	LocationName   string
	DistanceMeters float64
	IsWithinRadius bool
}

// NearestLocation summarizes the closest assigned location.
type NearestLocation struct {
	LocationID     string
	LocationName   string
	DistanceMeters float64
}

// AccuracyTier classifies the reported GPS accuracy for display.
// It never influences the radius check.
type AccuracyTier string

const (
	AccuracyHigh    AccuracyTier = "HIGH"   // <= 10 m
	AccuracyMedium  AccuracyTier = "MEDIUM" // <= 50 m
	AccuracyLow     AccuracyTier = "LOW"    // > 50 m
	AccuracyUnknown AccuracyTier = "UNKNOWN"
)

// Verdict is the result of validating one check-in attempt. It is computed
// fresh per attempt and never stored as its own record; callers persist only
// the boolean outcome and the nearest-location summary.
type Verdict struct {
	IsWithinAnyGeofence bool
	RequiresApproval    bool
	Nearest             *NearestLocation
	PerLocation         []LocationDistance
	AccuracyTier        AccuracyTier
}

// HasAssignedLocations reports whether the attempt was evaluated against at
// least one geofence. False means "no locations configured", which callers
// must surface distinctly from an out-of-range attempt.
func (v Verdict) HasAssignedLocations() bool {
	return len(v.PerLocation) > 0
}
