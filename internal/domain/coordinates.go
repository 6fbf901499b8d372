package domain

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

const earthRadiusMeters = 6371008.8

// Immutable geographic coordinates (latitude, longitude) in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether the coordinate lies on the globe.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return fmt.Errorf("%w: NaN component", ErrInvalidCoordinate)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: lat %v outside [-90, 90]", ErrInvalidCoordinate, c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: lon %v outside [-180, 180]", ErrInvalidCoordinate, c.Lon)
	}
	return nil
}

// Return the coordinate as an s2 LatLng for geodesic math.
func (c Coordinate) LatLng() s2.LatLng { return s2.LatLngFromDegrees(c.Lat, c.Lon) }

// DistanceMeters returns the great-circle distance to other.
func (c Coordinate) DistanceMeters(other Coordinate) float64 {
	return c.LatLng().Distance(other.LatLng()).Radians() * earthRadiusMeters
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}
