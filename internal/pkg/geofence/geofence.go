package geofence

import (
	"errors"
	"math"
)

// ErrInvalidCoordinate is returned when latitude or longitude fall outside
// their valid ranges.
var ErrInvalidCoordinate = errors.New("coordinate out of range")

// Coordinate is a geolocation reading as reported by the capture device.
type Coordinate struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // meters, informational
}

// Target is a circular fence around a configured location.
type Target struct {
	Latitude            float64
	Longitude           float64
	AllowedRadiusMeters float64
}

const earthRadiusMeters = 6371000

// Distance menghitung jarak antara dua titik koordinat dalam Meter.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	// Konversi ke Radian
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	// Rumus Haversine
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Validate checks that the coordinate is a real point on the globe.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return ErrInvalidCoordinate
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// IsWithinFence reports whether point lies inside the target's radius.
// The fence center is validated the same way as the point: a misconfigured
// target must not silently pass everyone.
func IsWithinFence(point Coordinate, target Target) (bool, error) {
	if err := point.Validate(); err != nil {
		return false, err
	}
	center := Coordinate{Latitude: target.Latitude, Longitude: target.Longitude}
	if err := center.Validate(); err != nil {
		return false, err
	}

	distance := Distance(point.Latitude, point.Longitude, target.Latitude, target.Longitude)
	return distance <= target.AllowedRadiusMeters, nil
}
