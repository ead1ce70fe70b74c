package queries

import (
	"context"
	"sort"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableDriversQueryHandler lists drivers with spare capacity.
// Proximity sorting happens in memory after the read: the fleet is small
// and the haversine lives in the domain, not in SQL.
type GetAvailableDriversQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableDriversQueryHandler creates a handler for available-driver
// listings.
func NewGetAvailableDriversQueryHandler(db *gorm.DB) GetAvailableDriversQueryHandler {
	return GetAvailableDriversQueryHandler{db: db}
}

// Handle executes the listing, nearest first when a reference point was
// given.
func (h GetAvailableDriversQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableDriversQuery,
) ([]GetAvailableDriversQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone,
			vehicle,
			latitude,
			longitude,
			active_deliveries,
			max_active
		FROM drivers
		WHERE availability = ? AND active_deliveries < max_active
		ORDER BY registered_at, id
	`, driver.Available).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]GetAvailableDriversQueryResponse, 0)
	for rows.Next() {
		var (
			response  GetAvailableDriversQueryResponse
			id        uuid.UUID
			latitude  *float64
			longitude *float64
		)

		if err = rows.Scan(
			&id,
			&response.Name,
			&response.Phone,
			&response.Vehicle,
			&latitude,
			&longitude,
			&response.ActiveDeliveries,
			&response.MaxActive,
		); err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ID = driverID

		if latitude != nil && longitude != nil {
			location, locErr := kernel.NewGeoPoint(*latitude, *longitude)
			if locErr != nil {
				return nil, locErr
			}
			response.Location = &location
		}

		drivers = append(drivers, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if near := query.Near(); near != nil {
		if err = sortByDistance(drivers, *near); err != nil {
			return nil, err
		}
	}

	return drivers, nil
}

// sortByDistance annotates each driver with the distance to the reference
// point and sorts nearest first, keeping no-location drivers at the end in
// their original order.
func sortByDistance(drivers []GetAvailableDriversQueryResponse, near kernel.GeoPoint) error {
	for i := range drivers {
		if drivers[i].Location == nil {
			continue
		}

		miles, err := drivers[i].Location.DistanceMiles(near)
		if err != nil {
			return err
		}
		drivers[i].DistanceMiles = &miles
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		left, right := drivers[i].DistanceMiles, drivers[j].DistanceMiles
		switch {
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return *left < *right
		}
	})
	return nil
}
