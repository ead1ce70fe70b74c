// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence. It implements the repository pattern for the
// delivery aggregate, converting between domain entities and database rows.
package deliveryrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery
// aggregates. The version column is the optimistic concurrency token: every
// update is guarded on it, so two admin sessions racing on the same delivery
// cannot both win.
type DeliveryDTO struct {
	ID       uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID   `gorm:"type:uuid;index"`
	DriverID *uuid.UUID  `gorm:"type:uuid;index"`
	Customer CustomerDTO `gorm:"embedded;embeddedPrefix:customer_"`

	Items json.RawMessage `gorm:"type:jsonb"`

	Status   int `gorm:"index:idx_deliveries_dispatch"`
	Priority int `gorm:"index:idx_deliveries_dispatch"`

	ScheduledTime     time.Time `gorm:"index:idx_deliveries_dispatch"`
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time

	DistanceMiles float64
	DeliveryFee   float64
	Notes         string
	FailureReason string

	Version int
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// CustomerDTO represents the embedded recipient columns within the
// deliveries table. Latitude and longitude are null when the address was
// never geocoded.
type CustomerDTO struct {
	Name      string
	Phone     string
	Street    string
	Latitude  *float64
	Longitude *float64
}

// itemDTO is the JSON shape of one order line inside the items column.
type itemDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// fromDomain converts a delivery aggregate to its database representation.
func fromDomain(aggregate *delivery.Delivery) (DeliveryDTO, error) {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	items := make([]itemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemDTO{Name: item.Name(), Quantity: item.Quantity()})
	}

	rawItems, err := json.Marshal(items)
	if err != nil {
		return DeliveryDTO{}, err
	}

	customer := CustomerDTO{
		Name:   aggregate.Customer().Name(),
		Phone:  aggregate.Customer().Phone(),
		Street: aggregate.Customer().Street(),
	}
	if location := aggregate.Customer().Location(); location != nil {
		latitude := location.Latitude()
		longitude := location.Longitude()
		customer.Latitude = &latitude
		customer.Longitude = &longitude
	}

	return DeliveryDTO{
		ID:                aggregate.ID().Bytes(),
		OrderID:           aggregate.OrderID().Bytes(),
		DriverID:          driverID,
		Customer:          customer,
		Items:             rawItems,
		Status:            int(aggregate.Status()),
		Priority:          int(aggregate.Priority()),
		ScheduledTime:     aggregate.ScheduledTime(),
		EstimatedDelivery: aggregate.EstimatedDelivery(),
		ActualDelivery:    aggregate.ActualDelivery(),
		DistanceMiles:     aggregate.DistanceMiles(),
		DeliveryFee:       aggregate.DeliveryFee(),
		Notes:             aggregate.Notes(),
		FailureReason:     aggregate.FailureReason(),
		Version:           aggregate.Version(),
	}, nil
}

// toDomain converts a database row to a delivery aggregate, re-running the
// domain invariants through RestoreDelivery.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	var location *kernel.GeoPoint
	if dto.Customer.Latitude != nil && dto.Customer.Longitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Customer.Latitude, *dto.Customer.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	customer, err := delivery.NewCustomer(
		dto.Customer.Name, dto.Customer.Phone, dto.Customer.Street, location)
	if err != nil {
		return nil, err
	}

	var rawItems []itemDTO
	if err = json.Unmarshal(dto.Items, &rawItems); err != nil {
		return nil, err
	}

	items := make([]delivery.Item, 0, len(rawItems))
	for _, raw := range rawItems {
		item, itemErr := delivery.NewItem(raw.Name, raw.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return delivery.RestoreDelivery(
		id, orderID, customer, items,
		delivery.Status(dto.Status), delivery.Priority(dto.Priority), driverID,
		dto.ScheduledTime, dto.EstimatedDelivery, dto.ActualDelivery,
		dto.DistanceMiles, dto.DeliveryFee, dto.Notes, dto.FailureReason,
		dto.Version)
}
