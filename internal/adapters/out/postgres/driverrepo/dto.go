// Package driverrepo provides data transfer objects and mapping functions
// for driver persistence.
package driverrepo

import (
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver
// aggregates. Latitude and longitude are null until the driver reports a
// position for the first time.
type DriverDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string
	Phone   string
	Vehicle string

	Availability int `gorm:"index"`
	Latitude     *float64
	Longitude    *float64

	ActiveDeliveries int
	MaxActive        int

	CompletedToday int
	EarningsToday  float64

	RegisteredAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	dto := DriverDTO{
		ID:               aggregate.ID().Bytes(),
		Name:             aggregate.Name(),
		Phone:            aggregate.Phone(),
		Vehicle:          aggregate.Vehicle(),
		Availability:     int(aggregate.Availability()),
		ActiveDeliveries: aggregate.ActiveDeliveries(),
		MaxActive:        aggregate.MaxActive(),
		CompletedToday:   aggregate.CompletedToday(),
		EarningsToday:    aggregate.EarningsToday(),
	}

	if location := aggregate.Location(); location != nil {
		latitude := location.Latitude()
		longitude := location.Longitude()
		dto.Latitude = &latitude
		dto.Longitude = &longitude
	}

	return dto
}

// toDomain converts a database row to a driver aggregate.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	return driver.RestoreDriver(
		id, dto.Name, dto.Phone, dto.Vehicle,
		driver.Availability(dto.Availability), location,
		dto.ActiveDeliveries, dto.MaxActive,
		dto.CompletedToday, dto.EarningsToday)
}
