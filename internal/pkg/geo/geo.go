package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for great-circle math.
const EarthRadiusMeters = 6371000

// HaversineDistance returns the great-circle distance between two
// latitude/longitude points, in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// IsValidLatitude reports whether lat is a usable latitude in degrees.
func IsValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && lat >= -90 && lat <= 90
}

// IsValidLongitude reports whether lon is a usable longitude in degrees.
func IsValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && lon >= -180 && lon <= 180
}
