// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, persistence, and post-commit event publishing.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. Narrow interfaces let handlers declare exactly the repositories
// they touch.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// DeliveryRepoFactory provides the delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// DriverRepoFactory provides the driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// DeliveryUoW manages transactions for delivery-only operations.
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
	}

	// DeliveryUoWFactory creates delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// DriverUoW manages transactions for driver-only operations.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	// DriverUoWFactory creates driver unit of work instances.
	DriverUoWFactory interface {
		Create() DriverUoW
	}

	// UoW manages transactions spanning both aggregates. Used by every
	// operation that must keep the delivery state and the driver counter
	// consistent: assignment, terminal transitions, reconciliation.
	UoW interface {
		TxManager
		DeliveryRepoFactory
		DriverRepoFactory
	}

	// UoWFactory creates cross-aggregate unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
