package geo

import (
	"math"
	"testing"
)

func TestHaversineDistance_Zero(t *testing.T) {
	d := HaversineDistance(12.9716, 77.5946, 12.9716, 77.5946)
	if d != 0 {
		t.Errorf("distance between identical points = %f, want 0", d)
	}
}

func TestHaversineDistance_Symmetry(t *testing.T) {
	cases := []struct {
		lat1, lon1, lat2, lon2 float64
	}{
		{12.9716, 77.5946, 13.0827, 80.2707},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{0, 0, 0, 180},
		{89.9, 0, -89.9, 0},
	}
	for _, c := range cases {
		ab := HaversineDistance(c.lat1, c.lon1, c.lat2, c.lon2)
		ba := HaversineDistance(c.lat2, c.lon2, c.lat1, c.lon1)
		if math.Abs(ab-ba) > 1e-6 {
			t.Errorf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestHaversineDistance_KnownDistance(t *testing.T) {
	// Bangalore to Chennai is roughly 290 km as the crow flies.
	d := HaversineDistance(12.9716, 77.5946, 13.0827, 80.2707)
	if d < 280000 || d > 300000 {
		t.Errorf("Bangalore-Chennai distance = %f m, want ~290 km", d)
	}
}

func TestHaversineDistance_ShortRange(t *testing.T) {
	// ~111 m per 0.001 degree of latitude.
	d := HaversineDistance(12.9716, 77.5946, 12.9726, 77.5946)
	if d < 100 || d > 125 {
		t.Errorf("0.001 deg latitude distance = %f m, want ~111 m", d)
	}
}

func TestIsValidLatitude(t *testing.T) {
	for _, lat := range []float64{-90, -45.5, 0, 45.5, 90} {
		if !IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%f) = false, want true", lat)
		}
	}
	for _, lat := range []float64{-90.0001, 90.0001, 181, math.NaN()} {
		if IsValidLatitude(lat) {
			t.Errorf("IsValidLatitude(%f) = true, want false", lat)
		}
	}
}

func TestIsValidLongitude(t *testing.T) {
	for _, lon := range []float64{-180, -77.59, 0, 77.59, 180} {
		if !IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%f) = false, want true", lon)
		}
	}
	for _, lon := range []float64{-180.0001, 180.0001, 360, math.NaN()} {
		if IsValidLongitude(lon) {
			t.Errorf("IsValidLongitude(%f) = true, want false", lon)
		}
	}
}
