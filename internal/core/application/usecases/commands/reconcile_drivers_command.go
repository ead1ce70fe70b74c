package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrReconcileDriversCommandIsNotConstructed = errors.New(
	"ReconcileDriversCommand must be created via NewReconcileDriversCommand constructor",
)

// ReconcileDriversCommand triggers a repair pass over driver counters: each
// driver's activeDeliveries is recomputed from the deliveries actually
// assigned to them. Normally a no-op; it heals drift left by a crash between
// the delivery transition and the counter update.
type ReconcileDriversCommand struct {
	guard guard.ConstructorGuard
}

// NewReconcileDriversCommand creates a reconciliation command.
func NewReconcileDriversCommand() (ReconcileDriversCommand, error) {
	return ReconcileDriversCommand{guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileDriversCommand) Validate() error {
	return c.guard.Validate(ErrReconcileDriversCommandIsNotConstructed)
}
