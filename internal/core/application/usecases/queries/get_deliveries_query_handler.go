package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetDeliveriesQueryHandler executes filtered delivery listings for the
// admin board. Filters are compiled into one SQL statement; results come
// back in scheduled-time order regardless of the filters applied.
type GetDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveriesQueryHandler creates a handler for delivery listings.
func NewGetDeliveriesQueryHandler(db *gorm.DB) GetDeliveriesQueryHandler {
	return GetDeliveriesQueryHandler{db: db}
}

// Handle executes the listing. An empty result is a valid response, not an
// error.
func (h GetDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveriesQuery,
) ([]GetDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT
			id,
			order_id,
			driver_id,
			customer_name,
			customer_phone,
			customer_street,
			customer_latitude,
			customer_longitude,
			items,
			status,
			priority,
			scheduled_time,
			estimated_delivery,
			actual_delivery,
			distance_miles,
			delivery_fee,
			notes,
			failure_reason,
			version
		FROM deliveries
		WHERE 1=1`
	args := make([]any, 0, 4)

	if search := query.Search(); search != "" {
		sqlQuery += `
		AND (order_id::text ILIKE ? OR customer_name ILIKE ? OR customer_street ILIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	if status := query.Status(); status != nil {
		sqlQuery += `
		AND status = ?`
		args = append(args, int(*status))
	}

	if priority := query.Priority(); priority != nil {
		sqlQuery += `
		AND priority = ?`
		args = append(args, int(*priority))
	}

	if driverID := query.DriverID(); driverID != nil {
		sqlQuery += `
		AND driver_id = ?`
		args = append(args, driverID.Bytes())
	}

	sqlQuery += `
		ORDER BY scheduled_time ASC, id ASC`

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]GetDeliveryQueryResponse, 0)
	for rows.Next() {
		response, scanErr := scanDeliveryRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		deliveries = append(deliveries, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
