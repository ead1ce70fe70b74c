package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// LatitudeMin is the southernmost valid latitude.
	LatitudeMin = -90.0
	// LatitudeMax is the northernmost valid latitude.
	LatitudeMax = 90.0
	// LongitudeMin is the westernmost valid longitude.
	LongitudeMin = -180.0
	// LongitudeMax is the easternmost valid longitude.
	LongitudeMax = 180.0

	// earthRadiusMiles is the mean Earth radius used for distance calculation.
	earthRadiusMiles = 3958.8
)

// ErrGeoPointIsNotConstructed is returned when using an improperly initialized
// GeoPoint. GeoPoints must be created via the NewGeoPoint constructor.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic coordinate pair with validated bounds.
// It is an immutable value object; the zero value is invalid and fails
// validation. Used for delivery destinations and driver last-known positions.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(34.0522, -118.2437)
//	if err != nil {
//	    // handle validation error
//	}
//	other, _ := kernel.NewGeoPoint(34.1015, -118.3265)
//	miles, _ := point.DistanceMiles(other)
type GeoPoint struct { //nolint:recvcheck //pointer receivers used for construction-time validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with the given coordinates.
// Latitude must lie within [LatitudeMin, LatitudeMax] and longitude within
// [LongitudeMin, LongitudeMax]; out-of-bounds values produce a validation error.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLatitude(latitude), point.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks that the GeoPoint was created through its constructor.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String returns a human-readable representation, useful for logs.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%.6f,%.6f)", p.latitude, p.longitude)
}

// IsEqual compares two points for coordinate equality.
// Both points must pass validation for the comparison to succeed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.latitude == other.latitude && p.longitude == other.longitude, nil
}

// DistanceMiles calculates the straight-line (great-circle) distance in miles
// between two points using the haversine formula. No routing is involved;
// straight-line distance is sufficient for driver proximity ranking.
func (p GeoPoint) DistanceMiles(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := p.latitude * math.Pi / 180
	lat2 := other.latitude * math.Pi / 180
	dLat := (other.latitude - p.latitude) * math.Pi / 180
	dLng := (other.longitude - p.longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c, nil
}

// setLatitude sets the latitude with bounds validation.
// Pointer receiver is used intentionally for construction-time validation.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	p.latitude = latitude
	return nil
}

// setLongitude sets the longitude with bounds validation.
// Pointer receiver is used intentionally for construction-time validation.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	p.longitude = longitude
	return nil
}
