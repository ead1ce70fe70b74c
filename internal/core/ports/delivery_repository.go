// Package ports defines the contracts between the dispatch core and its
// infrastructure adapters, enabling dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// DeliveryRepository is the persistence contract for delivery aggregates.
//
// Update is the sole mutation guard for concurrent admin sessions: it
// persists the aggregate only when the stored version still equals
// expectedVersion (the version the caller read before mutating). A stale
// token produces a VersionConflictError and the caller must re-read and
// retry; no long-lived locks are taken.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate. The delivery must be valid and
	// not already exist.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery, guarded on
	// expectedVersion. Returns a VersionConflictError when a concurrent
	// writer got there first, or an ObjectNotFoundError when the delivery
	// does not exist.
	Update(ctx context.Context, aggregate *delivery.Delivery, expectedVersion int) error

	// Get retrieves a delivery by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetAllPending retrieves every Pending delivery in dispatch order:
	// priority descending (Urgent first), then scheduled time ascending.
	GetAllPending(ctx context.Context) ([]*delivery.Delivery, error)

	// GetAllActiveByDriver retrieves the deliveries assigned to a driver and
	// not yet terminal. Used by the reconciliation pass to recompute driver
	// counters.
	GetAllActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*delivery.Delivery, error)
}
