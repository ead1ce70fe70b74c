package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDriverStatsQueryHandler reads one driver row and maps it to the stats
// read model.
type GetDriverStatsQueryHandler struct {
	db *gorm.DB
}

// NewGetDriverStatsQueryHandler creates a handler for driver stats lookups.
func NewGetDriverStatsQueryHandler(db *gorm.DB) GetDriverStatsQueryHandler {
	return GetDriverStatsQueryHandler{db: db}
}

// Handle executes the lookup. Unknown IDs surface an ObjectNotFoundError.
func (h GetDriverStatsQueryHandler) Handle(
	ctx context.Context,
	query GetDriverStatsQuery,
) (GetDriverStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDriverStatsQueryResponse{}, err
	}

	var (
		response       GetDriverStatsQueryResponse
		id             uuid.UUID
		availability   int
		latitude       *float64
		longitude      *float64
		deliveredTotal int
		failedTotal    int
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.name,
			d.phone,
			d.vehicle,
			d.availability,
			d.latitude,
			d.longitude,
			d.active_deliveries,
			d.max_active,
			d.completed_today,
			d.earnings_today,
			(SELECT COUNT(*) FROM deliveries WHERE driver_id = d.id AND status = ?) AS delivered_total,
			(SELECT COUNT(*) FROM deliveries WHERE driver_id = d.id AND status = ?) AS failed_total
		FROM drivers d
		WHERE d.id = ?
	`, int(delivery.StatusDelivered), int(delivery.StatusFailed), query.DriverID().Bytes()).Row()

	if err := row.Scan(
		&id,
		&response.Name,
		&response.Phone,
		&response.Vehicle,
		&availability,
		&latitude,
		&longitude,
		&response.ActiveDeliveries,
		&response.MaxActive,
		&response.CompletedToday,
		&response.EarningsToday,
		&deliveredTotal,
		&failedTotal,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetDriverStatsQueryResponse{}, errs.NewObjectNotFoundError(
				"driver", query.DriverID().String())
		}
		return GetDriverStatsQueryResponse{}, err
	}

	driverID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetDriverStatsQueryResponse{}, err
	}
	response.ID = driverID
	response.Availability = driver.Availability(availability).String()

	if latitude != nil && longitude != nil {
		location, locErr := kernel.NewGeoPoint(*latitude, *longitude)
		if locErr != nil {
			return GetDriverStatsQueryResponse{}, locErr
		}
		response.Location = &location
	}

	if terminal := deliveredTotal + failedTotal; terminal > 0 {
		rate := float64(deliveredTotal) / float64(terminal)
		response.CompletionRate = &rate
	}

	return response, nil
}
