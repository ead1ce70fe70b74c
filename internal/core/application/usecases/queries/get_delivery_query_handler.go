package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveryQueryHandler reads one delivery row and maps it to the read
// model.
type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryQueryHandler creates a handler for single-delivery lookups.
func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

// Handle executes the lookup. Unknown IDs surface an ObjectNotFoundError.
func (h GetDeliveryQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryQuery,
) (GetDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
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
		WHERE id = ?
	`, query.DeliveryID().Bytes()).Row()

	response, err := scanDeliveryRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetDeliveryQueryResponse{}, errs.NewObjectNotFoundError(
				"delivery", query.DeliveryID().String())
		}
		return GetDeliveryQueryResponse{}, err
	}

	return response, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDeliveryRow maps one deliveries row to the read model, converting
// database types to domain types.
func scanDeliveryRow(row rowScanner) (GetDeliveryQueryResponse, error) {
	var (
		response          GetDeliveryQueryResponse
		id, orderID       uuid.UUID
		driverID          *uuid.UUID
		latitude          *float64
		longitude         *float64
		rawItems          []byte
		status, priority  int
		actualDelivery    sql.NullTime
		scheduledTime     time.Time
		estimatedDelivery time.Time
	)

	if err := row.Scan(
		&id,
		&orderID,
		&driverID,
		&response.CustomerName,
		&response.CustomerPhone,
		&response.CustomerStreet,
		&latitude,
		&longitude,
		&rawItems,
		&status,
		&priority,
		&scheduledTime,
		&estimatedDelivery,
		&actualDelivery,
		&response.DistanceMiles,
		&response.DeliveryFee,
		&response.Notes,
		&response.FailureReason,
		&response.Version,
	); err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	deliveryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetDeliveryQueryResponse{}, err
	}
	response.ID = deliveryID

	order, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return GetDeliveryQueryResponse{}, err
	}
	response.OrderID = order

	if driverID != nil {
		dID, idErr := kernel.UUIDFromBytes((*driverID)[:])
		if idErr != nil {
			return GetDeliveryQueryResponse{}, idErr
		}
		response.DriverID = &dID
	}

	if latitude != nil && longitude != nil {
		location, locErr := kernel.NewGeoPoint(*latitude, *longitude)
		if locErr != nil {
			return GetDeliveryQueryResponse{}, locErr
		}
		response.Location = &location
	}

	if len(rawItems) > 0 {
		if err = json.Unmarshal(rawItems, &response.Items); err != nil {
			return GetDeliveryQueryResponse{}, err
		}
	}

	response.Status = delivery.Status(status).String()
	response.Priority = delivery.Priority(priority).String()
	response.ScheduledTime = scheduledTime
	response.EstimatedDelivery = estimatedDelivery
	if actualDelivery.Valid {
		at := actualDelivery.Time
		response.ActualDelivery = &at
	}

	return response, nil
}
