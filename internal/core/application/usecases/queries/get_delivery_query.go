// Package queries contains read-only operations over the dispatch store.
// Queries bypass the domain aggregates and read projections straight from
// the database, following the CQRS split: they never mutate state, so they
// take no locks and need no unit of work.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery retrieves one delivery with full detail, including the
// version token the caller needs for a subsequent transition request.
type GetDeliveryQuery struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveryQuery creates a query for a single delivery.
func NewGetDeliveryQuery(deliveryID kernel.UUID) (GetDeliveryQuery, error) {
	q := GetDeliveryQuery{guard: guard.NewConstructorGuard()}

	if err := deliveryID.Validate(); err != nil {
		return GetDeliveryQuery{}, err
	}
	q.deliveryID = deliveryID

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

// DeliveryID returns the delivery being looked up.
func (q GetDeliveryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

// DeliveryItemResponse is one order line in a delivery read model.
type DeliveryItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// GetDeliveryQueryResponse is the full delivery read model. Version is the
// optimistic concurrency token; clients echo it back when requesting a
// transition.
type GetDeliveryQueryResponse struct {
	ID       kernel.UUID
	OrderID  kernel.UUID
	DriverID *kernel.UUID

	CustomerName   string
	CustomerPhone  string
	CustomerStreet string
	Location       *kernel.GeoPoint

	Items []DeliveryItemResponse

	Status   string
	Priority string

	ScheduledTime     time.Time
	EstimatedDelivery time.Time
	ActualDelivery    *time.Time

	DistanceMiles float64
	DeliveryFee   float64
	Notes         string
	FailureReason string

	Version int
}
