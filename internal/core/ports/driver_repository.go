package ports

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository is the persistence contract for driver aggregates.
type DriverRepository interface {
	// Add persists a newly registered driver. Returns a DuplicateDriverError
	// when a driver with the same ID already exists.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAllAvailable retrieves drivers in the Available state, in
	// registration order.
	GetAllAvailable(ctx context.Context) ([]*driver.Driver, error)

	// GetAll retrieves every registered driver. Used by the reconciliation
	// pass, which must inspect Busy and Offline drivers too.
	GetAll(ctx context.Context) ([]*driver.Driver, error)
}
