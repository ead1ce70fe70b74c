package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per business operation,
// ensuring isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary over both repositories.
//
// The two-step assignment (delivery transition plus driver counter update)
// must commit or roll back as one: a crash between the steps must never
// leave a driver marked Busy with no assigned delivery, or a delivery
// Assigned with its driver still Available. Handlers Begin, perform both
// repository writes, and Commit; any failure rolls the whole unit back.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Safe to defer; rolling
	// back after a successful commit is a no-op at the caller's level.
	Rollback(ctx context.Context) error

	// DeliveryRepository returns a DeliveryRepository bound to the current
	// transaction.
	DeliveryRepository() DeliveryRepository

	// DriverRepository returns a DriverRepository bound to the current
	// transaction.
	DriverRepository() DriverRepository
}
